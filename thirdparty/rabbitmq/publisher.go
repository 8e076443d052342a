package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/rabbitmq/amqp091-go"
)

// Notifier delivers a message to a topic. Delivery is best-effort from the
// caller's point of view.
type Notifier interface {
	Notify(ctx context.Context, msg NotificationMessage) error
}

type NotificationMessage struct {
	Topic     string    `json:"topic"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	RequestID string    `json:"request_id,omitempty"`
	Priority  string    `json:"priority,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func dial(host string, port int, user, password string) (*amqp091.Connection, *amqp091.Channel, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d/", user, password, host, port)
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return nil, nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	// Declare the topic exchange
	err = channel.ExchangeDeclare(
		constant.NotificationExchange, // name
		amqp091.ExchangeTopic,         // type
		true,                          // durable
		false,                         // auto-delete
		false,                         // internal
		false,                         // no-wait
		nil,                           // arguments
	)
	if err == nil {
		// Declare the queue
		_, err = channel.QueueDeclare(
			constant.NotificationQueue, // name
			true,                       // durable
			false,                      // auto-delete
			false,                      // exclusive
			false,                      // no-wait
			nil,                        // arguments
		)
	}
	if err == nil {
		// Bind queue to exchange
		err = channel.QueueBind(
			constant.NotificationQueue,      // queue name
			constant.NotificationBindingKey, // routing key
			constant.NotificationExchange,   // exchange
			false,                           // no-wait
			nil,                             // arguments
		)
	}
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, err
	}

	return conn, channel, nil
}

func NewPublisher(host string, port int, user, password string) (*Publisher, error) {
	conn, channel, err := dial(host, port, user, password)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, channel: channel}, nil
}

// Notify publishes msg with its topic as routing key.
func (p *Publisher) Notify(ctx context.Context, msg NotificationMessage) error {
	if msg.Topic == "" {
		return fmt.Errorf("notification without topic")
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(
		ctx,
		constant.NotificationExchange, // exchange
		msg.Topic,                     // routing key
		false,                         // mandatory
		false,                         // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.SentAt,
			Body:         body,
		},
	)
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
