// utils/email.go
package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/keighl/postmark"

	"zap-shift-server/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance.
// Returns nil when POSTMARK_API_TOKEN is unset; callers treat a nil service
// as email disabled.
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		log.Println("POSTMARK_API_TOKEN not set. Email notifications disabled.")
		return nil
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendPaymentReceiptEmail notifies the payer that their parcel is paid for
// and on its way, including the tracking id assigned at confirmation
func (es *EmailService) SendPaymentReceiptEmail(toEmail string, payment models.Payment) error {
	subject := "Payment Received - Zap Shift"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>We have received your payment of <strong>%.2f %s</strong> for parcel <strong>%s</strong>.<br>Your tracking number is <strong>%s</strong>.<br><br>Thank you for shipping with Zap Shift!",
		payment.Price,
		payment.Currency,
		payment.ParcelName,
		payment.TrackingID,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendRiderApprovalEmail notifies a rider that their application was approved
func (es *EmailService) SendRiderApprovalEmail(toEmail, name string) error {
	subject := "Rider Application Approved - Zap Shift"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your rider application has been approved. You can now accept deliveries from your dashboard.<br><br>Welcome aboard!",
		name,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
