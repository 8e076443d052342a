package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadheryan/reliefbridge/cmd/config"
	"github.com/muhammadheryan/reliefbridge/thirdparty/rabbitmq"
	"github.com/muhammadheryan/reliefbridge/utils/logger"
	"go.uber.org/zap"
)

// The notifier worker drains the notification queue into the messaging
// provider's webhook.
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Close()

	if cfg.Notification.WebhookURL == "" {
		logger.Fatal("NOTIFY_WEBHOOK_URL is required")
	}

	deliverer := rabbitmq.NewWebhookDeliverer(cfg.Notification.WebhookURL, cfg.Notification.WebhookKey, cfg.Notification.WebhookTimeout)

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password, deliverer)
	if err != nil {
		logger.Fatal("Failed to create consumer", zap.Error(err))
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal("Failed to start consumer", zap.Error(err))
	}

	logger.Info("Notification consumer started", zap.String("webhook", cfg.Notification.WebhookURL))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down consumer")
}
