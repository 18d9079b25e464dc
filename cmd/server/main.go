// @title EventHub API
// @version 1.0
// @description Event listing, registration and AI assistant API.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventhub/config"
	_ "eventhub/docs"
	"eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/email"
	"eventhub/internal/adapters/gemini"
	delivery "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
	"eventhub/internal/repository/memory"
	mongostore "eventhub/internal/repository/mongo"
	"eventhub/internal/repository/postgres"
	"eventhub/internal/seed"
	"eventhub/internal/services"

	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET not set, using development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("close store", "err", err)
		}
	}()

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	if cfg.SeedData {
		data, err := seed.Default()
		if err != nil {
			return fmt.Errorf("load seed data: %w", err)
		}
		if _, err := seed.Run(ctx, store, hasher, data, logger); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	completer, closeCompleter, err := gemini.NewCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return fmt.Errorf("create chat completer: %w", err)
	}
	defer func() {
		if err := closeCompleter(); err != nil {
			logger.Error("close chat completer", "err", err)
		}
	}()
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, chat answers will use the fallback response")
	}

	tokens := auth.NewJWTIssuer(cfg.JWTSecret)
	authSvc := services.NewAuthService(services.AuthServiceArgs{
		Users:       store,
		Sessions:    store.SessionStore(),
		Hasher:      hasher,
		Issuer:      tokens,
		Verifier:    tokens,
		TokenExpiry: cfg.JWTExpiry,
		Email:       emailSvc,
		Logger:      logger,
	})

	handler := delivery.NewRouter(delivery.RouterArgs{
		Logger:         logger,
		Auth:           authSvc,
		Events:         services.NewEventService(store, store),
		Attendees:      services.NewAttendeeService(store, store, store, emailSvc, logger),
		Chat:           services.NewChatService(store, store, completer, logger),
		AllowedOrigins: middleware.ParseOrigins(cfg.CORSAllowedOrigins),
	})

	go memory.RunPruner(ctx, store.SessionStore(), cfg.SessionCheckPeriod, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "storage", cfg.StorageBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.EventStore, func() error, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		logger.Info("using postgres store")
		return postgres.NewStore(db), db.Close, nil

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		disconnect := func() error {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return client.Disconnect(dctx)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = disconnect()
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		store, err := mongostore.NewStore(ctx, mongostore.StoreArgs{Database: client.Database(cfg.MongoDatabase)})
		if err != nil {
			_ = disconnect()
			return nil, nil, fmt.Errorf("init mongo store: %w", err)
		}
		logger.Info("using mongo store", "database", cfg.MongoDatabase)
		return store, disconnect, nil
	}

	logger.Info("using in-memory store")
	return memory.NewStore(), func() error { return nil }, nil
}
