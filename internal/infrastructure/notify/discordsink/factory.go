package discordsink

import (
	"fmt"
	"net/url"

	"github.com/frontlinebot/actlog/internal/infrastructure/notify"
)

// TypeName is the notifier type this package registers.
const TypeName = "discord_webhook"

func init() {
	notify.GlobalRegistry.Register(&Factory{})
}

// Factory creates Discord webhook sinks.
type Factory struct{}

func (f *Factory) Name() string {
	return TypeName
}

func (f *Factory) ConfigSpec() notify.TypeInfo {
	return notify.TypeInfo{
		Type:        TypeName,
		Description: "Posts the match result embed to a Discord channel webhook after each stored upload.",
		Fields: []notify.ConfigField{
			{Name: "url", Type: "string", Required: true, Description: "Discord webhook URL", Example: "https://discord.com/api/webhooks/<id>/<token>"},
			{Name: "description", Type: "string", Required: false, Description: "Label used in logs", Example: "results-channel"},
		},
	}
}

func (f *Factory) ValidateConfig(cfg notify.Config) error {
	raw := cfg.String("url")
	if raw == "" {
		return fmt.Errorf("missing 'url' for %s notifier", TypeName)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("invalid 'url' for %s notifier: %q", TypeName, raw)
	}
	return nil
}

func (f *Factory) Create(cfg notify.Config) (notify.Notifier, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return NewSink(cfg.String("url"), cfg.String("description")), nil
}
