package clients

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AmqpClient defines the interface for the AMQP operations the handlers use
type AmqpClient interface {
	Publish(ctx context.Context, queueName string, message []byte) error
}

// RealAmqpClient implements AmqpClient over a live connection
type RealAmqpClient struct {
	conn *amqp.Connection
}

// NewAmqpClient creates a new real AMQP client
func NewAmqpClient(conn *amqp.Connection) AmqpClient {
	return &RealAmqpClient{conn: conn}
}

// Publish declares the queue and publishes a JSON message to it
func (c *RealAmqpClient) Publish(ctx context.Context, queueName string, message []byte) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",        // exchange
		queueName, // routing key (queue name)
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        message,
		},
	)
}
