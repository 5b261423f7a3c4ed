package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application level configuration loaded from environment and
// flags. Token TTL and idempotency retention are policy, not constants: the
// upstream system never fixed them, so they stay tunable per deployment.
type Config struct {
	RunAddress            string        `env:"RUN_ADDRESS" envDefault:":8080"`
	DatabaseURI           string        `env:"DATABASE_URI"`
	PartnerServiceAddress string        `env:"PARTNER_SERVICE_ADDRESS"`
	NotifyServiceAddress  string        `env:"NOTIFY_SERVICE_ADDRESS"`
	JWTSecret             string        `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	TokenTTL              time.Duration `env:"REDEMPTION_TOKEN_TTL" envDefault:"3m"`
	IdempotencyRetention  time.Duration `env:"IDEMPOTENCY_RETENTION" envDefault:"24h"`
	IdempotencyWait       time.Duration `env:"IDEMPOTENCY_WAIT" envDefault:"5s"`
	JanitorInterval       time.Duration `env:"JANITOR_INTERVAL" envDefault:"5m"`
	RedeemRetryAttempts   int           `env:"REDEEM_RETRY_ATTEMPTS" envDefault:"3"`
	LedgerDeadline        time.Duration `env:"LEDGER_DEADLINE" envDefault:"800ms"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses configuration from environment variables and flags.
func Load() (*Config, error) {
	return load(os.Args[1:], nil)
}

func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}

	var err error
	if environ != nil {
		err = env.ParseWithOptions(cfg, env.Options{Environment: environ})
	} else {
		err = env.Parse(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("yesspay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PartnerServiceAddress, "p", cfg.PartnerServiceAddress, "Partner directory base URL")
	fs.StringVar(&cfg.NotifyServiceAddress, "n", cfg.NotifyServiceAddress, "Notification service base URL (optional)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing session tokens")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Redemption token validity window")
	fs.DurationVar(&cfg.IdempotencyRetention, "key-retention", cfg.IdempotencyRetention, "Idempotency key retention window")
	fs.DurationVar(&cfg.IdempotencyWait, "key-wait", cfg.IdempotencyWait, "Bounded wait for in-flight duplicate requests")
	fs.DurationVar(&cfg.JanitorInterval, "janitor-interval", cfg.JanitorInterval, "Interval between maintenance sweeps")
	fs.IntVar(&cfg.RedeemRetryAttempts, "redeem-retries", cfg.RedeemRetryAttempts, "Retry attempts for transient redemption failures")
	fs.DurationVar(&cfg.LedgerDeadline, "ledger-deadline", cfg.LedgerDeadline, "Per-attempt deadline for the ledger transaction")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if secretFile := lookupEnv(environ, "JWT_SECRET_FILE"); secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("token TTL must be positive")
	}
	if cfg.IdempotencyRetention <= 0 {
		return nil, fmt.Errorf("idempotency retention must be positive")
	}
	if cfg.IdempotencyWait <= 0 {
		return nil, fmt.Errorf("idempotency wait must be positive")
	}
	if cfg.RedeemRetryAttempts < 0 {
		cfg.RedeemRetryAttempts = 0
	}
	if cfg.LedgerDeadline <= 0 {
		return nil, fmt.Errorf("ledger deadline must be positive")
	}
	if cfg.JanitorInterval <= 0 {
		return nil, fmt.Errorf("janitor interval must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("shutdown timeout must be positive")
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}
	if cfg.PartnerServiceAddress == "" {
		return nil, fmt.Errorf("partner service address must be provided")
	}

	return cfg, nil
}

func lookupEnv(environ map[string]string, key string) string {
	if environ != nil {
		return environ[key]
	}
	return os.Getenv(key)
}
