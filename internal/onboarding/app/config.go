package app

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/gateway"
	"github.com/spf13/viper"
)

const (
	CarryDriverSQLite = "sqlite"
	CarryDriverRedis  = "redis"
)

// Config is read from the environment and an optional .env file.
type Config struct {
	Env                  string        `mapstructure:"ENV"`                   // dev, staging, prod (default: dev)
	LogLevel             string        `mapstructure:"LOG_LEVEL"`             // debug, info, warn, error (default: info)
	LogFormat            string        `mapstructure:"LOG_FORMAT"`            // json, text (default: json)
	Port                 int           `mapstructure:"PORT"`                  // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"` // default: 10s
	HousekeepingInterval time.Duration `mapstructure:"HOUSEKEEPING_INTERVAL"` // default: 5m

	DatabaseFile  string `mapstructure:"DATABASE_FILE"`   // SQLite file for carry slots and the sandbox backend
	PepperFile    string `mapstructure:"PEPPER_FILE"`     // sandbox password pepper, created on first use
	MasterKeyPath string `mapstructure:"MASTER_KEY_PATH"` // carry sealing key; ephemeral when unset

	SessionKeyPath string        `mapstructure:"SESSION_KEY_PATH"` // Ed25519 PEM for the session cookie, created on first use
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`      // cookie lifetime (default: 2h)
	SessionIdleTTL time.Duration `mapstructure:"SESSION_IDLE_TTL"` // live wizard idle expiry (default: 30m)

	// AppOrigin is scheme://host[:port] as the browser reaches this service.
	AppOrigin string `mapstructure:"APP_ORIGIN"`

	// BackendURL points at the onboarding backend. Empty serves the
	// in-process sandbox under /sandbox.
	BackendURL     string        `mapstructure:"BACKEND_URL"`
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`

	CarryDriver   string        `mapstructure:"CARRY_DRIVER"` // sqlite, redis (default: sqlite)
	CarryTTL      time.Duration `mapstructure:"CARRY_TTL"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`

	PGProvider      string `mapstructure:"PG_PROVIDER"`       // TOSS, STRIPE, IAMPORT, TEST (default: TOSS)
	PaymentTestMode bool   `mapstructure:"PAYMENT_TEST_MODE"` // substitute the simulator for unconfigured providers
	TossClientKey   string `mapstructure:"TOSS_CLIENT_KEY"`
	StripeSecretKey string `mapstructure:"STRIPE_SECRET_KEY"`

	GuardUnlockDelay    time.Duration `mapstructure:"GUARD_UNLOCK_DELAY"`
	EmailCodeTTL        time.Duration `mapstructure:"EMAIL_CODE_TTL"`
	EmailResendCooldown time.Duration `mapstructure:"EMAIL_RESEND_COOLDOWN"`
	RedirectDelay       time.Duration `mapstructure:"REDIRECT_DELAY"`
	DefaultRiskLevel    string        `mapstructure:"DEFAULT_RISK_LEVEL"`
	AutoSubscribe       bool          `mapstructure:"AUTO_SUBSCRIBE"`
}

// LoadConfig reads .env when present, then the environment. Environment
// variables win over the file.
func LoadConfig() (Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // a missing .env is fine

	v.AutomaticEnv()

	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PORT", 8080)
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", "10s")
	v.SetDefault("HOUSEKEEPING_INTERVAL", "5m")
	v.SetDefault("DATABASE_FILE", "onboarding.db")
	v.SetDefault("PEPPER_FILE", "pepper")
	v.SetDefault("MASTER_KEY_PATH", "")
	v.SetDefault("SESSION_KEY_PATH", "session.pem")
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("SESSION_IDLE_TTL", "30m")
	v.SetDefault("APP_ORIGIN", "http://localhost:8080")
	v.SetDefault("BACKEND_URL", "")
	v.SetDefault("BACKEND_TIMEOUT", "10s")
	v.SetDefault("CARRY_DRIVER", CarryDriverSQLite)
	v.SetDefault("CARRY_TTL", "30m")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PG_PROVIDER", string(gateway.TagToss))
	v.SetDefault("PAYMENT_TEST_MODE", false)
	v.SetDefault("TOSS_CLIENT_KEY", "")
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("GUARD_UNLOCK_DELAY", "1s")
	v.SetDefault("EMAIL_CODE_TTL", "10m")
	v.SetDefault("EMAIL_RESEND_COOLDOWN", "60s")
	v.SetDefault("REDIRECT_DELAY", "2s")
	v.SetDefault("DEFAULT_RISK_LEVEL", "LOW")
	v.SetDefault("AUTO_SUBSCRIBE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("config: PORT must be between 1 and 65535")
	}

	u, err := url.Parse(c.AppOrigin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("config: APP_ORIGIN must be an http(s) origin")
	}
	if u.Path != "" && u.Path != "/" {
		return errors.New("config: APP_ORIGIN must not carry a path")
	}

	if c.BackendURL != "" {
		if u, err := url.Parse(c.BackendURL); err != nil || u.Host == "" {
			return errors.New("config: BACKEND_URL must be an absolute URL")
		}
	} else if c.Env == "prod" {
		return errors.New("config: BACKEND_URL must be set when ENV=prod")
	}

	switch c.CarryDriver {
	case CarryDriverSQLite:
	case CarryDriverRedis:
		if c.RedisAddr == "" {
			return errors.New("config: REDIS_ADDR must be set when CARRY_DRIVER=redis")
		}
	default:
		return fmt.Errorf("config: unknown CARRY_DRIVER %q", c.CarryDriver)
	}

	c.PGProvider = string(gateway.ParseTag(c.PGProvider))
	switch gateway.Tag(c.PGProvider) {
	case gateway.TagToss, gateway.TagStripe, gateway.TagIamport, gateway.TagTest:
	default:
		return fmt.Errorf("config: unknown PG_PROVIDER %q", c.PGProvider)
	}
	if c.PaymentTestMode && c.Env == "prod" {
		return errors.New("config: PAYMENT_TEST_MODE must not be true when ENV=prod")
	}

	for name, d := range map[string]time.Duration{
		"SESSION_TTL":           c.SessionTTL,
		"SESSION_IDLE_TTL":      c.SessionIdleTTL,
		"CARRY_TTL":             c.CarryTTL,
		"EMAIL_CODE_TTL":        c.EmailCodeTTL,
		"EMAIL_RESEND_COOLDOWN": c.EmailResendCooldown,
	} {
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive", name)
		}
	}
	return nil
}

// Secure reports whether cookies should carry the Secure attribute.
func (c Config) Secure() bool {
	u, err := url.Parse(c.AppOrigin)
	return err == nil && u.Scheme == "https"
}
