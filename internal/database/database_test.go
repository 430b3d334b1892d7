package database

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/frontlinebot/actlog/internal/config"
	"github.com/frontlinebot/actlog/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db", Port: 5432, User: "actlog", Password: "pw", Name: "actlog", SSLMode: "disable",
		MaxOpenConns: 8, MaxIdleConns: 20, ConnMaxLifetime: 300, ConnMaxIdleTime: 60,
	}

	pc, err := PoolConfig(cfg, zerolog.Nop(), logger.NewService(nil))
	require.NoError(t, err)
	assert.EqualValues(t, 8, pc.MaxConns)
	assert.EqualValues(t, 8, pc.MinConns)
	assert.Equal(t, 5*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.NotNil(t, pc.ConnConfig.Tracer)
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	raw, err := fs.ReadFile(migrationsFS, files[0])
	require.NoError(t, err)
	sql := string(raw)
	assert.Contains(t, sql, "---- create above / drop below ----")
	for _, table := range []string{"character_links", "matches", "results", "watchlist"} {
		assert.True(t, strings.Contains(sql, "CREATE TABLE "+table), table)
	}
}
