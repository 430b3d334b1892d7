package logger

import (
	"io"
	"os"
	"time"

	"github.com/frontlinebot/actlog/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Service owns the New Relic application shared by the HTTP middleware and
// the database tracer. The application is nil when no license key is set.
type Service struct {
	nrApp *newrelic.Application
}

func NewService(cfg *config.ObservabilityConfig) *Service {
	s := &Service{}
	if cfg == nil || cfg.NewRelic.LicenseKey == "" {
		return s
	}

	opts := []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.ServiceName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(cfg.NewRelic.AppLogForwardingEnabled),
		newrelic.ConfigDistributedTracerEnabled(cfg.NewRelic.DistributedTracingEnabled),
	}
	if cfg.NewRelic.DebugLogging {
		opts = append(opts, newrelic.ConfigDebugLogger(os.Stdout))
	}

	app, err := newrelic.NewApplication(opts...)
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Warn().Err(err).Msg("new relic disabled")
		return s
	}
	s.nrApp = app
	return s
}

func (s *Service) Application() *newrelic.Application {
	if s == nil {
		return nil
	}
	return s.nrApp
}

// Shutdown flushes pending New Relic data.
func (s *Service) Shutdown() {
	if s != nil && s.nrApp != nil {
		s.nrApp.Shutdown(10 * time.Second)
	}
}

// New builds the application logger: JSON in production, console otherwise.
func New(cfg *config.ObservabilityConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg *config.ObservabilityConfig, w io.Writer) zerolog.Logger {
	if cfg == nil {
		cfg = config.DefaultObservabilityConfig()
	}
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if cfg.Logging.Format == "console" || (!cfg.IsProduction() && w == os.Stdout) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"}
	}

	return zerolog.New(out).
		Level(cfg.GetLogLevel()).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}

// PgxTraceLevel maps the application level to the pgx tracelog level. Debug
// and below log every query; anything quieter only logs failures.
func PgxTraceLevel(level zerolog.Level) tracelog.LogLevel {
	switch {
	case level <= zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case level == zerolog.InfoLevel:
		return tracelog.LogLevelWarn
	case level >= zerolog.Disabled:
		return tracelog.LogLevelNone
	default:
		return tracelog.LogLevelError
	}
}
