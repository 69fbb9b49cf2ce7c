package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT",
		"TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"CHANGE_FEED", "NATS_URL", "NATS_SUBJECT", "NEW_ORDER_ALERT_TTL",
		"DISPATCH_MESSAGE", "NOTIFY_CONCURRENCY", "BILLING_REQUIRE_CONFIRMATION",
		"CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT",
		"SMS_BASE_URL", "SMS_ACCOUNT_SID", "SMS_AUTH_TOKEN", "SMS_FROM_NUMBER",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ChangeFeedMemory, cfg.ChangeFeed)
	assert.Equal(t, "inventory_requests.inserted", cfg.NATSSubject)
	assert.Equal(t, 5*time.Second, cfg.AlertTTL)
	assert.Equal(t, 4, cfg.NotifyConcurrency)
	assert.True(t, cfg.BillingRequireConfirmation)
	assert.False(t, cfg.TemporalDisabled)
	assert.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	assert.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.SMSEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("POSTGRES_DSN", "postgres://backoffice@localhost/backoffice")
	t.Setenv("CHANGE_FEED", "Postgres")
	t.Setenv("NEW_ORDER_ALERT_TTL", "30s")
	t.Setenv("NOTIFY_CONCURRENCY", "8")
	t.Setenv("BILLING_REQUIRE_CONFIRMATION", "false")
	t.Setenv("TEMPORAL_DISABLED", "yes")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SMS_ACCOUNT_SID", "AC123")
	t.Setenv("SMS_AUTH_TOKEN", "secret")
	t.Setenv("SMS_FROM_NUMBER", "+15550000000")

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ChangeFeedPostgres, cfg.ChangeFeed)
	assert.Equal(t, 30*time.Second, cfg.AlertTTL)
	assert.Equal(t, 8, cfg.NotifyConcurrency)
	assert.False(t, cfg.BillingRequireConfirmation)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SMSEnabled())
	assert.Equal(t, "+15550000000", cfg.SMS.From)
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"zero ttl":             {"NEW_ORDER_ALERT_TTL": "0s"},
		"garbage ttl":          {"NEW_ORDER_ALERT_TTL": "soon"},
		"negative concurrency": {"NOTIFY_CONCURRENCY": "-1"},
		"unknown feed":         {"CHANGE_FEED": "kafka"},
		"nats without url":     {"CHANGE_FEED": "nats"},
		"postgres without dsn": {"CHANGE_FEED": "postgres"},
		"memory feed with dsn": {"CHANGE_FEED": "memory", "POSTGRES_DSN": "postgres://localhost/backoffice"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range env {
				t.Setenv(key, value)
			}
			_, err := loadConfig(newViper())
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_FeedFollowsStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_DSN", "postgres://localhost/backoffice")

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, ChangeFeedPostgres, cfg.ChangeFeed)
}

func TestLoadConfig_NATSFeed(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHANGE_FEED", "nats")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("NATS_SUBJECT", "orders.inserted")

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	assert.Equal(t, "orders.inserted", cfg.NATSSubject)
}
