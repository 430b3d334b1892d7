package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"ACTLOG_PRIMARY.ENV":                  "development",
		"ACTLOG_SERVER.PORT":                  "8080",
		"ACTLOG_SERVER.READ_TIMEOUT":          "30",
		"ACTLOG_SERVER.WRITE_TIMEOUT":         "30",
		"ACTLOG_SERVER.IDLE_TIMEOUT":          "60",
		"ACTLOG_SERVER.CORS_ALLOWED_ORIGINS":  "http://localhost:3000,https://bot.example.com",
		"ACTLOG_DATABASE.HOST":                "localhost",
		"ACTLOG_DATABASE.PORT":                "5432",
		"ACTLOG_DATABASE.USER":                "actlog",
		"ACTLOG_DATABASE.PASSWORD":            "s3cr=t",
		"ACTLOG_DATABASE.NAME":                "actlog",
		"ACTLOG_DATABASE.SSL_MODE":            "disable",
		"ACTLOG_DATABASE.MAX_OPEN_CONNS":      "10",
		"ACTLOG_DATABASE.MAX_IDLE_CONNS":      "2",
		"ACTLOG_DATABASE.CONN_MAX_LIFETIME":   "300",
		"ACTLOG_DATABASE.CONN_MAX_IDLE_TIME":  "60",
	} {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://bot.example.com"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, DefaultPersistWorkers, cfg.Ingest.PersistWorkers)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Ingest.MaxUploadBytes)
	assert.Nil(t, cfg.Storage)
	assert.Empty(t, cfg.Notifiers)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "actlog", cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, 100*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
}

func TestLoad_Notifiers(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ACTLOG_NOTIFIERS.0.TYPE", "discord_webhook")
	t.Setenv("ACTLOG_NOTIFIERS.0.URL", "https://discord.com/api/webhooks/1/abc")
	t.Setenv("ACTLOG_NOTIFIERS.1.TYPE", "discord_webhook")
	t.Setenv("ACTLOG_NOTIFIERS.1.URL", "https://discord.com/api/webhooks/2/def")
	t.Setenv("ACTLOG_NOTIFIERS.1.DESCRIPTION", "ops channel")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Notifiers, 2)
	assert.Equal(t, "discord_webhook", cfg.Notifiers[1].Type)
	assert.Equal(t, "ops channel", cfg.Notifiers[1].Description)
}

func TestLoad_MissingRequired(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ACTLOG_DATABASE.HOST", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Host")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ACTLOG_OBSERVABILITY.LOGGING.LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging level")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "bot", Password: "p@ss", Name: "actlog", SSLMode: "require"}
	assert.Equal(t, "postgres://bot:p%40ss@db:5433/actlog?sslmode=require", d.DSN())
}
