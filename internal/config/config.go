package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

const envPrefix = "ACTLOG_"

type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
	Storage       *StorageConfig       `koanf:"storage"`
	Ingest        IngestConfig         `koanf:"ingest"`
	Notifiers     []NotifierConfig     `koanf:"-" validate:"dive"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// DSN renders the connection string understood by pgx.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// StorageConfig is optional; without it raw exports are not archived.
type StorageConfig struct {
	O3 *O3Config `koanf:"o3"`
}

// O3Config points at an Akave O3 (S3-compatible) bucket.
type O3Config struct {
	Endpoint  string `koanf:"endpoint" validate:"required,url"`
	Bucket    string `koanf:"bucket" validate:"required"`
	Region    string `koanf:"region"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Prefix    string `koanf:"prefix"`
}

// IngestConfig tunes the act record pipeline.
type IngestConfig struct {
	PersistWorkers int   `koanf:"persist_workers" validate:"gte=0,lte=64"`
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gte=0"`
}

const (
	DefaultPersistWorkers = 4
	DefaultMaxUploadBytes = 2 << 20
)

// NotifierConfig declares one notifier sink, e.g. {type: discord_webhook, url: ...}.
type NotifierConfig struct {
	Type        string `koanf:"type" validate:"required"`
	Description string `koanf:"description"`
	URL         string `koanf:"url" validate:"omitempty,url"`
}

// LoadConfig loads the configuration from environment variables using koanf.
func LoadConfig() (mainConfig *Config, err error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	mainConfig, err = Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load config")
	}
	return mainConfig, nil
}

// Load builds a Config from the ACTLOG_ environment variables.
// Nested keys use "." (ACTLOG_SERVER.PORT); list entries use an index
// (ACTLOG_NOTIFIERS.0.TYPE).
func Load() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	mainConfig.Notifiers = notifiersFrom(k)

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// Observability is a pointer so an absent section can be told apart from a zero one.
	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	mainConfig.Observability.ServiceName = "actlog"
	mainConfig.Observability.Environment = mainConfig.Primary.Env
	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	if mainConfig.Ingest.PersistWorkers == 0 {
		mainConfig.Ingest.PersistWorkers = DefaultPersistWorkers
	}
	if mainConfig.Ingest.MaxUploadBytes == 0 {
		mainConfig.Ingest.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return mainConfig, nil
}

// notifiersFrom collects indexed notifier entries (notifiers.0.type, notifiers.1.type, ...).
func notifiersFrom(k *koanf.Koanf) []NotifierConfig {
	var out []NotifierConfig
	for i := 0; ; i++ {
		prefix := fmt.Sprintf("notifiers.%d", i)
		if !k.Exists(prefix + ".type") {
			return out
		}
		out = append(out, NotifierConfig{
			Type:        k.String(prefix + ".type"),
			Description: k.String(prefix + ".description"),
			URL:         k.String(prefix + ".url"),
		})
	}
}
