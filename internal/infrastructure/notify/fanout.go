package notify

import (
	"context"
	"errors"
	"fmt"
)

// Fanout delivers an event to every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) Name() string { return "fanout" }

func (f Fanout) Notify(ctx context.Context, ev MatchEvent) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}
