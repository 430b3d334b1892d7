package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/frontlinebot/actlog/internal/model"
)

// MatchRepository persists one summary document per uploaded match.
type MatchRepository struct {
	pool *pgxpool.Pool
}

func NewMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{pool: pool}
}

// CreateMatch inserts the summary and returns the new match id.
func (r *MatchRepository) CreateMatch(ctx context.Context, summary actlog.MatchSummary) (uuid.UUID, error) {
	doc, err := json.Marshal(summary)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode match summary: %w", err)
	}
	id := uuid.New()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO matches (id, recorded_by, venue, caller_team, document)
		VALUES ($1, $2, $3, $4, $5)`,
		id,
		summary.RecordedBy,
		summary.Venue.ID,
		string(summary.CallerTeam),
		doc,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StoredMatch, error) {
	var (
		m   model.StoredMatch
		doc []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, document, created_at FROM matches WHERE id = $1`, id).Scan(
		&m.ID,
		&doc,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(doc, &m.Summary); err != nil {
		return nil, fmt.Errorf("decode match %s: %w", id, err)
	}
	return &m, nil
}
