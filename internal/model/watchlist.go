package model

import (
	"time"

	"github.com/google/uuid"
)

type WatchlistEntry struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CharacterName string    `json:"character_name" db:"character_name"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	WorldName     string    `json:"world_name" db:"world_name"`
	Memo          string    `json:"memo" db:"memo"`
	RecordedBy    string    `json:"recorded_by" db:"recorded_by"`
	RecordedByTag string    `json:"recorded_by_tag,omitempty" db:"recorded_by_tag"`
	RecordedAt    time.Time `json:"recorded_at" db:"recorded_at"`
}
