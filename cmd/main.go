package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	requestapp "github.com/muhammadheryan/reliefbridge/application/request"
	userapp "github.com/muhammadheryan/reliefbridge/application/user"
	"github.com/muhammadheryan/reliefbridge/cmd/config"
	redisclient "github.com/muhammadheryan/reliefbridge/cmd/redis"
	_ "github.com/muhammadheryan/reliefbridge/docs"
	helpRequestRepo "github.com/muhammadheryan/reliefbridge/repository/helprequest"
	mongostore "github.com/muhammadheryan/reliefbridge/repository/mongo"
	redisRepo "github.com/muhammadheryan/reliefbridge/repository/redis"
	userRepo "github.com/muhammadheryan/reliefbridge/repository/user"
	"github.com/muhammadheryan/reliefbridge/thirdparty/geocoder"
	"github.com/muhammadheryan/reliefbridge/thirdparty/rabbitmq"
	"github.com/muhammadheryan/reliefbridge/transport"
	"github.com/muhammadheryan/reliefbridge/utils/logger"
	validatorx "github.com/muhammadheryan/reliefbridge/utils/validator"
	"go.uber.org/zap"
)

// @title RELIEFBRIDGE API
// @version 1.0
// @description Disaster relief request coordination API
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment), zap.String("store", cfg.StoreDriver))

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Environment,
		}); err != nil {
			logger.Error("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	validatorx.Init()

	// Initialize repositories on the configured store
	var (
		RequestRepo helpRequestRepo.HelpRequestRepository
		UserRepo    userRepo.UserRepository
	)
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := mongostore.Connect(context.Background(), cfg.Mongo.URI)
		if err != nil {
			logger.Fatal("err connect mongo", zap.Error(err))
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()

		db := client.Database(cfg.Mongo.Database)
		if err := mongostore.EnsureIndexes(context.Background(), db); err != nil {
			logger.Fatal("err ensure mongo indexes", zap.Error(err))
		}
		RequestRepo = mongostore.NewHelpRequestRepository(db)
		UserRepo = mongostore.NewUserRepository(db)
	case config.StoreMySQL:
		db, err := sqlx.Connect("mysql", cfg.GetDSN())
		if err != nil {
			logger.Fatal("err connect db", zap.Error(err))
		}
		defer db.Close()

		// Set database connection pool settings
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

		RequestRepo = helpRequestRepo.NewHelpRequestRepository(db)
		UserRepo = userRepo.NewUserRepository(db)
	default:
		logger.Fatal("unknown STORE_DRIVER", zap.String("driver", cfg.StoreDriver))
	}

	// Initialize Redis client
	if err := redisclient.New(cfg); err != nil {
		logger.Fatal("err connect redis", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()
	RedisRepo := redisRepo.NewRepository()

	// Notifications are best-effort, the API runs without a broker
	var notifier rabbitmq.Notifier
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Warn("rabbitmq unavailable, notifications disabled", zap.Error(err))
	} else {
		defer publisher.Close()
		notifier = publisher
	}

	var geo geocoder.Geocoder
	googleGeocoder, err := geocoder.NewGoogleGeocoder(cfg.Geocoding.APIKey)
	if err != nil {
		logger.Warn("geocoder init failed", zap.Error(err))
	} else if googleGeocoder != nil {
		geo = googleGeocoder
	}

	// Initialize application layers
	UserApp := userapp.NewUserApp(cfg, UserRepo, RequestRepo, RedisRepo, geo)
	RequestApp := requestapp.NewRequestApp(cfg, RequestRepo, UserRepo, notifier)

	httpTransport := transport.NewTransport(UserApp, RequestApp, cfg.Auth.InternalAPIKeyHash)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
