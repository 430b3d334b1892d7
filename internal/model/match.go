package model

import (
	"time"

	"github.com/frontlinebot/actlog/internal/actlog"
	"github.com/google/uuid"
)

// StoredMatch is a persisted match summary.
type StoredMatch struct {
	ID        uuid.UUID           `json:"id"`
	Summary   actlog.MatchSummary `json:"summary"`
	CreatedAt time.Time           `json:"created_at"`
}

// StoredResult is a persisted finalized record.
type StoredResult struct {
	ID        uuid.UUID              `json:"id"`
	Record    actlog.FinalizedRecord `json:"record"`
	CreatedAt time.Time              `json:"created_at"`
}

// MatchDetail is a match together with every record stored for it.
type MatchDetail struct {
	Match   StoredMatch    `json:"match"`
	Results []StoredResult `json:"results"`
}
