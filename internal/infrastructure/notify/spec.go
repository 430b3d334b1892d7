package notify

import "github.com/frontlinebot/actlog/internal/config"

// Spec describes a notifier instance to be created from configuration.
type Spec struct {
	Type        string
	Description string
	Config      Config
}

// ConfigWithDescription returns a copy of Config with description set.
func (s Spec) ConfigWithDescription() Config {
	cfg := make(Config, len(s.Config)+1)
	for k, v := range s.Config {
		cfg[k] = v
	}
	if s.Description != "" {
		cfg["description"] = s.Description
	}
	return cfg
}

// SpecsFromConfig converts the notifiers section of the app config.
func SpecsFromConfig(list []config.NotifierConfig) []Spec {
	specs := make([]Spec, 0, len(list))
	for _, n := range list {
		cfg := Config{}
		if n.URL != "" {
			cfg["url"] = n.URL
		}
		specs = append(specs, Spec{Type: n.Type, Description: n.Description, Config: cfg})
	}
	return specs
}
