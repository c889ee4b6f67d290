package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const orderCreatedQueue = "orders.created"

// OrderEvent is the message published for every new order.
type OrderEvent struct {
	OrderID       string    `json:"order_id"`
	CustomerPhone string    `json:"customer_phone"`
	TotalAmount   int64     `json:"total_amount"`
	ItemCount     int       `json:"item_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// EventPublisher publishes order events for downstream consumers
// (fulfilment bots, reporting). A nil *AMQPPublisher is a no-op, so
// callers need no broker in development.
type EventPublisher interface {
	PublishOrderCreated(event OrderEvent) error
	Close() error
}

// AMQPPublisher implements EventPublisher over a RabbitMQ connection.
type AMQPPublisher struct {
	conn *amqp.Connection
}

// ConnectEventPublisher dials the broker. An empty URL returns a nil
// publisher without error.
func ConnectEventPublisher(url string) (*AMQPPublisher, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	return &AMQPPublisher{conn: conn}, nil
}

// PublishOrderCreated publishes the event to the orders.created queue.
func (p *AMQPPublisher) PublishOrderCreated(event OrderEvent) error {
	if p == nil {
		return nil
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(orderCreatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	err = ch.Publish(
		"",                // exchange
		orderCreatedQueue, // routing key (queue name)
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}

	log.Printf("[Events] Published order.created for order %s", event.OrderID)
	return nil
}

// Close tears down the broker connection.
func (p *AMQPPublisher) Close() error {
	if p == nil {
		return nil
	}
	return p.conn.Close()
}
