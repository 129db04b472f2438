// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"zap-shift-server/controllers"
	"zap-shift-server/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, parcelController *controllers.ParcelController, riderController *controllers.RiderController, paymentController *controllers.PaymentController) {
	// Public routes
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Zap Shift server is running"))
	}).Methods("GET")
	router.HandleFunc("/users", userController.CreateUser).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")
	router.HandleFunc("/parcels", parcelController.GetParcels).Methods("GET")
	router.HandleFunc("/parcels/{id}", parcelController.GetParcelByID).Methods("GET")
	router.HandleFunc("/riders", riderController.CreateRider).Methods("POST")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/parcels", parcelController.CreateParcel).Methods("POST")
	protected.HandleFunc("/parcels/{id}", parcelController.DeleteParcel).Methods("DELETE")
	protected.HandleFunc("/users/{email}/role", userController.GetUserRole).Methods("GET")
	protected.HandleFunc("/create-payment-session", paymentController.CreatePaymentSession).Methods("POST")
	protected.HandleFunc("/verify-payment", paymentController.VerifyPayment).Methods("PATCH")
	protected.HandleFunc("/payment", paymentController.GetPayments).Methods("GET")

	// Admin routes
	admin := router.PathPrefix("/").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/users", userController.GetUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/role", userController.UpdateUserRole).Methods("PATCH")
	admin.HandleFunc("/riders", riderController.GetRiders).Methods("GET")
	admin.HandleFunc("/riders/{id}", riderController.UpdateRiderStatus).Methods("PATCH")
}
