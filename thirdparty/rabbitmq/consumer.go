package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/utils/logger"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer forwards queued notifications to the messaging webhook.
type Consumer struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	deliverer *WebhookDeliverer
}

func NewConsumer(host string, port int, user, password string, deliverer *WebhookDeliverer) (*Consumer, error) {
	conn, channel, err := dial(host, port, user, password)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		conn:      conn,
		channel:   channel,
		deliverer: deliverer,
	}, nil
}

func (c *Consumer) Start(ctx context.Context) error {
	// Set QoS to 1 - process one message at a time
	err := c.channel.Qos(1, 0, false)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		constant.NotificationQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var notification NotificationMessage
				if err := json.Unmarshal(msg.Body, &notification); err != nil {
					logger.Error("[Consumer] malformed notification", zap.String("error", err.Error()))
					msg.Ack(false)
					continue
				}

				if err := c.deliverer.Deliver(ctx, notification); err != nil {
					logger.Error("[Consumer] err Deliver",
						zap.String("topic", notification.Topic),
						zap.String("error", err.Error()))
					// Negative ack to requeue
					msg.Nack(false, true)
					continue
				}

				msg.Ack(false)
				logger.Debug("notification delivered", zap.String("topic", notification.Topic))
			}
		}
	}()

	return nil
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

// WebhookDeliverer posts notifications to the messaging provider.
type WebhookDeliverer struct {
	url    string
	apiKey string
	client *http.Client
}

func NewWebhookDeliverer(url, apiKey string, timeout time.Duration) *WebhookDeliverer {
	return &WebhookDeliverer{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (d *WebhookDeliverer) Deliver(ctx context.Context, msg NotificationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	if d.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", d.apiKey))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Notification-Topic", msg.Topic)

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	// 4xx other than rate limiting will not succeed on retry
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if resp.StatusCode >= 400 {
		logger.Warn("[Deliver] notification rejected",
			zap.String("topic", msg.Topic),
			zap.Int("status", resp.StatusCode))
	}

	return nil
}
