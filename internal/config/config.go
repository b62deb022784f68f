package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppName string `envconfig:"APP_NAME" default:"messenger"`
	Env     string `envconfig:"APP_ENV" default:"development"`
	Host    string `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port    int    `envconfig:"HTTP_PORT" default:"8000"`

	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"postgres"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	PostgresHost   string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort   string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser   string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPass   string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	PostgresDB     string `envconfig:"POSTGRES_DB" default:"messenger"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"messenger.db"`

	JWTSecret          string `envconfig:"JWT_SECRET"`
	AccessTokenMinutes int    `envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"1440"`
	BcryptCost         int    `envconfig:"BCRYPT_COST" default:"0"`

	CORSOrigins    []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	PageSize       int           `envconfig:"MESSAGE_PAGE_SIZE" default:"10"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	for i := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(cfg.CORSOrigins[i])
	}

	if err := cfg.ResolveDatabaseURL(); err != nil {
		return nil, err
	}

	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("MESSAGE_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	return cfg, nil
}

// ResolveDatabaseURL fills an empty DatabaseURL from the driver specific
// settings and rejects unknown drivers.
func (c *Config) ResolveDatabaseURL() error {
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			c.DatabaseURL = c.postgresURL()
		}
	case DriverSQLite:
		if c.DatabaseURL == "" {
			c.DatabaseURL = c.SQLitePath
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	return nil
}

// RequireServer checks the settings only the HTTP server needs.
func (c *Config) RequireServer() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenMinutes) * time.Minute
}

func (c *Config) postgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPass),
		Host:     fmt.Sprintf("%s:%s", c.PostgresHost, c.PostgresPort),
		Path:     c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
