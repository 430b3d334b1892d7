package notify

// Factory creates a Notifier from config.
// Each sink type (discord_webhook, ...) implements and registers a Factory.
// ConfigSpec declares which configuration fields this type needs.
type Factory interface {
	Name() string
	ConfigSpec() TypeInfo
	Create(cfg Config) (Notifier, error)
}
