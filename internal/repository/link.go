package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontlinebot/actlog/internal/model"
)

// LinkRepository stores the character name linked to each chat user.
type LinkRepository struct {
	pool *pgxpool.Pool
}

func NewLinkRepository(pool *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{pool: pool}
}

// LinkedName returns the character linked to userID, or "" when there is none.
func (r *LinkRepository) LinkedName(ctx context.Context, userID string) (string, error) {
	link, err := r.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return link.CharacterName, nil
}

func (r *LinkRepository) Get(ctx context.Context, userID string) (*model.CharacterLink, error) {
	var link model.CharacterLink
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, character_name, updated_at
		FROM character_links WHERE user_id = $1`, userID).Scan(
		&link.UserID,
		&link.CharacterName,
		&link.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// Upsert links userID to name, replacing any previous link.
func (r *LinkRepository) Upsert(ctx context.Context, userID, name string) (*model.CharacterLink, error) {
	link := model.CharacterLink{UserID: userID, CharacterName: strings.TrimSpace(name)}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO character_links (user_id, character_name)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET character_name = EXCLUDED.character_name, updated_at = now()
		RETURNING updated_at`, link.UserID, link.CharacterName).Scan(&link.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *LinkRepository) Delete(ctx context.Context, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM character_links WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
