// Command api serves the Medicare booking HTTP API.
//
// @title                       Medicare Booking API
// @version                     1.0
// @description                 Doctor directory, reviews and checkout for appointment bookings.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/medicare/booking-api/internal/api"
	"github.com/medicare/booking-api/internal/api/handler"
	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
	"github.com/medicare/booking-api/internal/core/service"
	"github.com/medicare/booking-api/internal/infrastructure/auth"
	mongodb "github.com/medicare/booking-api/internal/infrastructure/db/mongo"
	redisdb "github.com/medicare/booking-api/internal/infrastructure/db/redis"
	"github.com/medicare/booking-api/internal/infrastructure/payment"
	"github.com/medicare/booking-api/internal/infrastructure/queue"
	"github.com/medicare/booking-api/internal/pkg/config"
	"github.com/medicare/booking-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "booking-api",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongodb.Disconnect(mongoClient, 5*time.Second); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	doctors := mongodb.NewDoctorRepository(db)
	reviews := mongodb.NewReviewRepository(db)
	bookings := mongodb.NewBookingRepository(db)
	if err := ensureIndexes(ctx, users, doctors, reviews, bookings); err != nil {
		return err
	}

	// --- Auth ---
	key, err := auth.NewSigningKey(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	codec, err := auth.NewJWTCodec(key, cfg.Auth.JWTTTL)
	if err != nil {
		return err
	}
	authSvc := service.NewAuthService(users, auth.NewBcryptHasher(bcrypt.DefaultCost), codec, log)
	if err := seedAdmin(ctx, authSvc, cfg.Admin, log); err != nil {
		return err
	}

	// --- Doctors, reviews and rating workers ---
	cache := redisdb.NewDoctorCache(rdb, cfg.Redis.DoctorCacheTTL)
	doctorSvc := service.NewDoctorService(doctors, cache, log)
	reviewSvc := service.NewReviewService(reviews, doctors, cache, log)
	dispatcher := queue.NewDispatcher(cfg.Ratings.Workers, reviewSvc, log)
	reviewSvc.SetQueue(dispatcher)

	// --- Checkout ---
	provider, err := newPaymentProvider(cfg.Checkout, log)
	if err != nil {
		return err
	}
	checkoutSvc := service.NewCheckoutService(doctors, users, provider, service.CheckoutConfig{
		Currency: cfg.Checkout.Currency,
		Timeout:  cfg.Checkout.Timeout,
	}, log)

	e := api.NewRouter(api.Services{
		Auth:     authSvc,
		Users:    service.NewUserService(users, doctors, bookings, cache, log),
		Doctors:  doctorSvc,
		Reviews:  reviewSvc,
		Checkout: checkoutSvc,
	}, api.RouterConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AuthRateLimit:  cfg.HTTP.AuthRateLimit,
		Production:     cfg.IsProduction(),
		HealthChecks:   healthChecks(mongoClient, rdb),
	}, log)

	// Rating workers outlive the HTTP server so in-flight requests can still
	// enqueue while it drains.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := e.Shutdown(shutdownCtx)

		stopWorkers()
		dispatcher.Wait()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func ensureIndexes(ctx context.Context, repos ...indexer) error {
	for _, r := range repos {
		if err := r.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}
	return nil
}

// seedAdmin provisions the bootstrap admin once. An existing account is left
// untouched.
func seedAdmin(ctx context.Context, svc *service.AuthService, cfg config.AdminConfig, log zerolog.Logger) error {
	if !cfg.Enabled() {
		return nil
	}
	_, err := svc.Provision(ctx, ports.RegisterInput{
		Username: cfg.Username,
		Password: cfg.Password,
		Email:    cfg.Email,
		Name:     "Administrator",
	}, domain.RoleAdmin)
	switch {
	case err == nil:
		log.Info().Str("username", cfg.Username).Msg("bootstrap admin created")
	case errors.Is(err, domain.ErrConflict):
		log.Debug().Str("username", cfg.Username).Msg("bootstrap admin already exists")
	default:
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

func newPaymentProvider(cfg config.CheckoutConfig, log zerolog.Logger) (ports.PaymentProvider, error) {
	if cfg.StripeSecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY not set: checkout sessions are disabled")
		return payment.DisabledProvider{}, nil
	}
	return payment.NewStripeProvider(payment.StripeConfig{
		SecretKey:   cfg.StripeSecretKey,
		SuccessURL:  cfg.SuccessURL,
		CancelURL:   cfg.CancelURL,
		HTTPTimeout: cfg.Timeout,
	}, log)
}

func healthChecks(client *mongo.Client, rdb *redis.Client) map[string]handler.DependencyCheck {
	return map[string]handler.DependencyCheck{
		"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
		"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
}
