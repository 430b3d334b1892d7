package discordsink

import (
	"context"

	"github.com/frontlinebot/actlog/internal/discord"
	"github.com/frontlinebot/actlog/internal/infrastructure/notify"
)

// Sink renders match events as Discord embeds and posts them to a webhook.
type Sink struct {
	label  string
	client *discord.WebhookClient
}

func NewSink(webhookURL, label string) *Sink {
	if label == "" {
		label = TypeName
	}
	return &Sink{label: label, client: discord.NewWebhookClient(webhookURL)}
}

func (s *Sink) Name() string { return s.label }

func (s *Sink) Notify(ctx context.Context, ev notify.MatchEvent) error {
	return s.client.Send(ctx, discord.NewMatchPayload(discord.MatchReport{
		MatchID:    ev.MatchID,
		Result:     ev.Result,
		Stored:     ev.Stored,
		RecordedAt: ev.RecordedAt,
	}))
}
