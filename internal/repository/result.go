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

// ResultRepository persists finalized records. The full record lives in a
// JSONB document; name, team, rank and the reporter flag are copied into
// columns for querying.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// CreateResult inserts one record. rec.MatchID must hold the parent match id.
func (r *ResultRepository) CreateResult(ctx context.Context, rec actlog.FinalizedRecord) (uuid.UUID, error) {
	matchID, err := uuid.Parse(rec.MatchID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("record %q: invalid match id: %w", rec.Name, err)
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode record %q: %w", rec.Name, err)
	}

	id := uuid.New()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO results (id, match_id, user_id, name, job, team, rank, is_reporter, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id,
		matchID,
		rec.CallerID,
		rec.Name,
		rec.Job,
		rec.Team,
		rankColumn(rec.Rank),
		rec.IsReporter,
		doc,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *ResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StoredResult, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, document, created_at FROM results WHERE id = $1`, id)
	res, err := scanResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// ListByMatch returns the records of one match ordered by name.
func (r *ResultRepository) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]model.StoredResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, document, created_at
		FROM results WHERE match_id = $1
		ORDER BY name`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.StoredResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	return list, rows.Err()
}

// ListReporterResults returns every record flagged as reported by name, oldest first.
func (r *ResultRepository) ListReporterResults(ctx context.Context, name string) ([]actlog.FinalizedRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, document, created_at
		FROM results WHERE is_reporter AND name = $1
		ORDER BY created_at, id`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []actlog.FinalizedRecord
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, res.Record)
	}
	return list, rows.Err()
}

func (r *ResultRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM results WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanResult(row pgx.Row) (*model.StoredResult, error) {
	var (
		res model.StoredResult
		doc []byte
	)
	if err := row.Scan(&res.ID, &doc, &res.CreatedAt); err != nil {
		return nil, err
	}
	if err := decodeRecord(doc, &res.Record); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", res.ID, err)
	}
	return &res, nil
}

func decodeRecord(doc []byte, rec *actlog.FinalizedRecord) error {
	return json.Unmarshal(doc, rec)
}

// rankColumn stores unranked records as NULL.
func rankColumn(r actlog.Rank) *int16 {
	if r == actlog.Unranked {
		return nil
	}
	v := int16(r)
	return &v
}
