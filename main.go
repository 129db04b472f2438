// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"zap-shift-server/clients"
	"zap-shift-server/controllers"
	"zap-shift-server/routes"
	"zap-shift-server/store"
	"zap-shift-server/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	if err := utils.EnsureIndexes(client); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Optional delivery-event publishing
	var publisher clients.AmqpClient
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		conn, err := amqp.Dial(amqpURL)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer conn.Close()
		publisher = clients.NewAmqpClient(conn)
	} else {
		log.Println("AMQP_URL not set. Delivery events disabled.")
	}

	// Checkout provider
	checkout := utils.NewStripeCheckout()

	// Wire stores into controllers
	userStore := store.NewMongoUserStore(client)
	parcelStore := store.NewMongoParcelStore(client)
	userController := controllers.NewUserController(userStore)
	parcelController := controllers.NewParcelController(parcelStore)
	riderController := controllers.NewRiderController(store.NewMongoRiderStore(client), userStore, emailService)
	paymentController := controllers.NewPaymentController(checkout, parcelStore, store.NewMongoPaymentStore(client), publisher, emailService)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, parcelController, riderController, paymentController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
