// main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-courier/config"
	"go-courier/controllers"
	"go-courier/events"
	"go-courier/middleware"
	"go-courier/repository"
	"go-courier/routes"
	"go-courier/utils"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Env)
	slog.SetDefault(log)
	if !cfg.EnvFileLoaded {
		log.Info("No .env file found. Proceeding with environment variables.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(env string) *slog.Logger {
	if env == "prod" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// Connect to MongoDB
	client, err := utils.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error("mongo disconnect failed", "error", err)
		}
	}()
	log.Info("Connected to MongoDB", "database", cfg.DBName)

	db := client.Database(cfg.DBName)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	repo := repository.NewRepository(db)

	// Booking events
	dispatcher := events.NewDispatcher(log)

	if cfg.MailEnabled() {
		dispatcher.Register("mail", events.NewMailNotifier(utils.NewEmailService(cfg.PostmarkAPIToken, cfg.EmailSender)))
	} else {
		log.Info("booking mails disabled", "reason", "POSTMARK_API_TOKEN or EMAIL_SENDER not set")
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := events.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer publisher.Close()
		dispatcher.Register("amqp", publisher)
		log.Info("Connected to RabbitMQ", "exchange", events.Exchange)
	}

	hub := events.NewHub(log, cfg.CORSOrigins)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)
	dispatcher.Register("websocket", hub)
	// drain in-flight deliveries before the hub and broker go away
	defer dispatcher.Wait()

	// Initialize controllers
	tokens := utils.NewTokenService(cfg.TokenSecret)
	c := routes.Controllers{
		Auth:     controllers.NewAuthController(tokens, log),
		Bookings: controllers.NewBookingController(repo.Bookings, repo.Users, dispatcher, log),
		Users:    controllers.NewUserController(repo.Users, log),
		Reviews:  controllers.NewReviewController(repo.Reviews, repo.Users, log),
		Catalog:  controllers.NewCatalogController(repo.Coverage, repo.Stats, utils.NewPaymentService(cfg.StripeSecretKey), log),
		LiveFeed: hub.ServeWS,
	}

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, c, tokens, repo.Users, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Chain(router, log, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server is running", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", "live_clients", hub.Clients())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stopHub()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
