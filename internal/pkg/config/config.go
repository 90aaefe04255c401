package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	HTTP     HTTPConfig
	Ratings  RatingsConfig
	Admin    AdminConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL,    default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=medicare"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR,       default=localhost:6379"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,         default=0"`
	DoctorCacheTTL time.Duration `env:"DOCTOR_CACHE_TTL, default=5m"`
}

type CheckoutConfig struct {
	StripeSecretKey string        `env:"STRIPE_SECRET_KEY"`
	Currency        string        `env:"STRIPE_CURRENCY,      default=usd"`
	SuccessURL      string        `env:"CHECKOUT_SUCCESS_URL, default=http://localhost:5173/checkout-success"`
	CancelURL       string        `env:"CHECKOUT_CANCEL_URL,  default=http://localhost:5173/doctors/{doctor_id}"`
	Timeout         time.Duration `env:"CHECKOUT_TIMEOUT,     default=10s"`
}

type HTTPConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:5173"`
	// AuthRateLimit is the per-IP request budget per minute on /auth routes.
	AuthRateLimit int `env:"AUTH_RATE_LIMIT, default=20"`
}

type RatingsConfig struct {
	Workers int `env:"RATING_WORKERS, default=4"`
}

// AdminConfig seeds a bootstrap admin account when all fields are set.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
	Email    string `env:"ADMIN_EMAIL"`
}

// Enabled reports whether a bootstrap admin was configured.
func (a AdminConfig) Enabled() bool {
	return a.Username != "" && a.Password != "" && a.Email != ""
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith processes configuration from the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 16 && c.IsProduction() {
		return errors.New("config: JWT_SECRET must be at least 16 bytes in production")
	}
	if c.Auth.JWTTTL <= 0 {
		return errors.New("config: JWT_TTL must be positive")
	}
	if c.Checkout.Timeout <= 0 {
		return errors.New("config: CHECKOUT_TIMEOUT must be positive")
	}
	if c.Ratings.Workers <= 0 {
		return errors.New("config: RATING_WORKERS must be positive")
	}
	if c.HTTP.AuthRateLimit <= 0 {
		return errors.New("config: AUTH_RATE_LIMIT must be positive")
	}
	return nil
}
