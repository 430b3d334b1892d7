package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/frontlinebot/actlog/internal/config"
	"github.com/frontlinebot/actlog/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/multitracer"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jackc/tern/v2/migrate"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const versionTable = "schema_version"

type Database struct {
	Pool *pgxpool.Pool
	log  zerolog.Logger
}

// New opens a pgx pool for cfg. Query tracing goes through zerolog and, when
// a New Relic application is running, nrpgx5.
func New(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger, ls *logger.Service) (*Database, error) {
	poolCfg, err := PoolConfig(cfg, log, ls)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Str("database", cfg.Name).Msg("connected to database")
	return &Database{Pool: pool, log: log}, nil
}

func PoolConfig(cfg config.DatabaseConfig, log zerolog.Logger, ls *logger.Service) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(min(cfg.MaxIdleConns, cfg.MaxOpenConns))
	poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifetime) * time.Second
	poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleTime) * time.Second

	tracers := []pgx.QueryTracer{
		&tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(log.With().Str("component", "pgx").Logger()),
			LogLevel: logger.PgxTraceLevel(log.GetLevel()),
		},
	}
	if ls.Application() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}
	poolCfg.ConnConfig.Tracer = multitracer.New(tracers...)
	return poolCfg, nil
}

func (db *Database) Close() {
	db.log.Info().Msg("closing database pool")
	db.Pool.Close()
}

// Migrate applies the embedded migrations on a dedicated connection.
func (db *Database) Migrate(ctx context.Context) error {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return RunMigrations(ctx, conn.Conn(), db.log)
}

func RunMigrations(ctx context.Context, conn *pgx.Conn, log zerolog.Logger) error {
	m, err := migrate.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	if err := m.LoadMigrations(sub); err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	to := int32(len(m.Migrations))
	if from == to {
		log.Info().Int32("version", to).Msg("database schema up to date")
	} else {
		log.Info().Int32("from", from).Int32("to", to).Msg("migrated database schema")
	}
	return nil
}
