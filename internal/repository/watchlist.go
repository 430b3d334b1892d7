package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontlinebot/actlog/internal/model"
)

// WatchlistRepository stores players flagged by the community.
type WatchlistRepository struct {
	pool *pgxpool.Pool
}

func NewWatchlistRepository(pool *pgxpool.Pool) *WatchlistRepository {
	return &WatchlistRepository{pool: pool}
}

// Add inserts entry and fills in its ID and RecordedAt.
func (r *WatchlistRepository) Add(ctx context.Context, entry *model.WatchlistEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO watchlist (id, character_name, first_name, last_name, world_name, memo, recorded_by, recorded_by_tag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING recorded_at`,
		entry.ID,
		entry.CharacterName,
		entry.FirstName,
		entry.LastName,
		entry.WorldName,
		entry.Memo,
		entry.RecordedBy,
		entry.RecordedByTag,
	).Scan(&entry.RecordedAt)
}

// Find returns the entries for name; an empty world matches every world.
func (r *WatchlistRepository) Find(ctx context.Context, name, world string) ([]model.WatchlistEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, character_name, first_name, last_name, world_name, memo, recorded_by, recorded_by_tag, recorded_at
		FROM watchlist
		WHERE character_name = $1 AND ($2 = '' OR world_name = $2)
		ORDER BY recorded_at`, name, world)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.WatchlistEntry])
}

// DeleteByName removes every entry for name (within world when set) and
// returns how many were removed.
func (r *WatchlistRepository) DeleteByName(ctx context.Context, name, world string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM watchlist
		WHERE character_name = $1 AND ($2 = '' OR world_name = $2)`, name, world)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
