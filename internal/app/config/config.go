package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"webhookservice/internal/infrastructure/logging"
	"webhookservice/internal/infrastructure/metrics"
	"webhookservice/internal/infrastructure/tracing"
)

const envPrefix = "TEAMLY_"

type Config struct {
	Host     string `env:"HOST" envDefault:"0.0.0.0"`
	Port     int    `env:"PORT" envDefault:"8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Empty disables CORS entirely.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	WorkerPoolSize   int   `env:"WORKER_POOL_SIZE" envDefault:"8"`
	EventBusPoolSize int   `env:"EVENT_BUS_POOL_SIZE" envDefault:"2"`
	MaxBodyBytes     int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Metrics metrics.ServerConfig `envPrefix:"METRICS_"`
	Tracing tracing.Config       `envPrefix:"TRACING_"`
}

// Load reads TEAMLY_* variables and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("%sPORT must be in 1..65535, got %d", envPrefix, c.Port))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%sLOG_LEVEL: %w", envPrefix, err))
	}
	if c.WorkerPoolSize < 1 {
		errs = append(errs, fmt.Errorf("%sWORKER_POOL_SIZE must be positive", envPrefix))
	}
	if c.EventBusPoolSize < 1 {
		errs = append(errs, fmt.Errorf("%sEVENT_BUS_POOL_SIZE must be positive", envPrefix))
	}
	if c.MaxBodyBytes < 1 {
		errs = append(errs, fmt.Errorf("%sMAX_BODY_BYTES must be positive", envPrefix))
	}
	for _, origin := range c.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("%sALLOWED_ORIGINS: bad origin %q", envPrefix, origin))
		}
	}
	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		errs = append(errs, fmt.Errorf("%sMETRICS_PORT must be in 1..65535, got %d", envPrefix, c.Metrics.Port))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("%sTRACING_SAMPLE_RATE must be in 0..1", envPrefix))
	}

	return errors.Join(errs...)
}

func (c Config) HTTPAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
