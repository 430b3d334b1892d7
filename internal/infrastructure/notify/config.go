package notify

// Config is a key-value map for notifier-type-specific configuration.
type Config map[string]any

// String returns the string value stored at key, or "".
func (c Config) String(key string) string {
	s, _ := c[key].(string)
	return s
}
