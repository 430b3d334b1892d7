package notify

import (
	"context"
	"time"

	"github.com/frontlinebot/actlog/internal/actlog"
)

// MatchEvent is published after an uploaded match has been stored.
type MatchEvent struct {
	MatchID    string
	Result     actlog.Result
	Stored     int
	Failed     int
	RecordedAt time.Time
}

// Notifier delivers match events to one destination.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, ev MatchEvent) error
}
