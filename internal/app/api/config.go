package api

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	smsclient "github.com/Apurer/restaurant-backoffice/internal/clients/http/sms"
)

const (
	ChangeFeedMemory   = "memory"
	ChangeFeedPostgres = "postgres"
	ChangeFeedNATS     = "nats"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                       string
	PostgresDSN                string
	Environment                string
	LogLevel                   string
	LogFormat                  string
	TemporalAddress            string
	TemporalNamespace          string
	TemporalDisabled           bool
	ChangeFeed                 string
	NATSURL                    string
	NATSSubject                string
	AlertTTL                   time.Duration
	DispatchMessage            string
	NotifyConcurrency          int
	BillingRequireConfirmation bool
	CORSAllowedOrigins         []string
	SMS                        smsclient.Config
	ShutdownTimeout            time.Duration
}

// SMSEnabled reports whether gateway credentials were supplied.
func (c Config) SMSEnabled() bool {
	return c.SMS.AccountSID != "" && c.SMS.AuthToken != ""
}

// LoadConfig loads an optional .env file, reads environment variables, applies defaults,
// and validates the result.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return loadConfig(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	v.SetDefault("NATS_SUBJECT", "inventory_requests.inserted")
	v.SetDefault("NEW_ORDER_ALERT_TTL", "5s")
	v.SetDefault("NOTIFY_CONCURRENCY", 4)
	v.SetDefault("BILLING_REQUIRE_CONFIRMATION", "true")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	return v
}

func loadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:                       trimmed(v, "PORT"),
		PostgresDSN:                trimmed(v, "POSTGRES_DSN"),
		Environment:                trimmed(v, "ENVIRONMENT"),
		LogLevel:                   trimmed(v, "LOG_LEVEL"),
		LogFormat:                  trimmed(v, "LOG_FORMAT"),
		TemporalAddress:            trimmed(v, "TEMPORAL_ADDRESS"),
		TemporalNamespace:          trimmed(v, "TEMPORAL_NAMESPACE"),
		TemporalDisabled:           isTruthy(v.GetString("TEMPORAL_DISABLED")),
		ChangeFeed:                 strings.ToLower(trimmed(v, "CHANGE_FEED")),
		NATSURL:                    trimmed(v, "NATS_URL"),
		NATSSubject:                trimmed(v, "NATS_SUBJECT"),
		AlertTTL:                   v.GetDuration("NEW_ORDER_ALERT_TTL"),
		DispatchMessage:            trimmed(v, "DISPATCH_MESSAGE"),
		NotifyConcurrency:          v.GetInt("NOTIFY_CONCURRENCY"),
		BillingRequireConfirmation: isTruthy(v.GetString("BILLING_REQUIRE_CONFIRMATION")),
		CORSAllowedOrigins:         splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		ShutdownTimeout:            v.GetDuration("SHUTDOWN_TIMEOUT"),
		SMS: smsclient.Config{
			BaseURL:    trimmed(v, "SMS_BASE_URL"),
			AccountSID: trimmed(v, "SMS_ACCOUNT_SID"),
			AuthToken:  trimmed(v, "SMS_AUTH_TOKEN"),
			From:       trimmed(v, "SMS_FROM_NUMBER"),
		},
	}
	if cfg.ChangeFeed == "" {
		cfg.ChangeFeed = defaultChangeFeed(cfg.PostgresDSN)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaultChangeFeed follows the store: a postgres store is observed through LISTEN/NOTIFY.
func defaultChangeFeed(dsn string) string {
	if dsn != "" {
		return ChangeFeedPostgres
	}
	return ChangeFeedMemory
}

// Validate checks the settings are usable together.
func (c Config) Validate() error {
	if c.AlertTTL <= 0 {
		return errors.New("NEW_ORDER_ALERT_TTL must be a positive duration")
	}
	if c.NotifyConcurrency <= 0 {
		return errors.New("NOTIFY_CONCURRENCY must be a positive integer")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be a positive duration")
	}
	switch c.ChangeFeed {
	case ChangeFeedMemory:
		if c.PostgresDSN != "" {
			return errors.New("CHANGE_FEED=memory cannot observe a postgres store; use postgres or nats")
		}
	case ChangeFeedPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when CHANGE_FEED=postgres")
		}
	case ChangeFeedNATS:
		if c.NATSURL == "" {
			return errors.New("NATS_URL is required when CHANGE_FEED=nats")
		}
	default:
		return fmt.Errorf("CHANGE_FEED must be one of memory, postgres, nats (got %q)", c.ChangeFeed)
	}
	return nil
}

func trimmed(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
