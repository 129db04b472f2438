package utils

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorKind classifies an APIError so handlers can map it to a status code
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindConflict     ErrorKind = "conflict"
	KindUpstream     ErrorKind = "upstream"
	KindInternal     ErrorKind = "internal"
)

// APIError is the error type returned by stores and services
type APIError struct {
	Kind    ErrorKind `json:"error"`
	Message string    `json:"message"`
}

func (e *APIError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Validation builds a client-input error
func Validation(msg string) *APIError { return &APIError{Kind: KindValidation, Message: msg} }

// NotFound builds a missing-resource error
func NotFound(msg string) *APIError { return &APIError{Kind: KindNotFound, Message: msg} }

// Unauthorized builds a missing/invalid-credential error
func Unauthorized(msg string) *APIError { return &APIError{Kind: KindUnauthorized, Message: msg} }

// Forbidden builds an insufficient-privilege error
func Forbidden(msg string) *APIError { return &APIError{Kind: KindForbidden, Message: msg} }

// Conflict builds a duplicate-resource error
func Conflict(msg string) *APIError { return &APIError{Kind: KindConflict, Message: msg} }

// Upstream builds an external-provider error
func Upstream(msg string) *APIError { return &APIError{Kind: KindUpstream, Message: msg} }

// Internal builds a server-side error
func Internal(msg string) *APIError { return &APIError{Kind: KindInternal, Message: msg} }

// StatusFor maps an error kind to its HTTP status code
func StatusFor(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError serializes err as a JSON error body with its mapped status.
// Errors that are not APIErrors are reported as internal.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = Internal(err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(apiErr.Kind))
	json.NewEncoder(w).Encode(apiErr)
}

// WriteJSON serializes v with the given status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
