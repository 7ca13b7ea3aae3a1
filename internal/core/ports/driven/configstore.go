package driven

// ConfigStore provides access to application configuration.
// Keys are dotted paths into the file (e.g. "api.base_url").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetFloat retrieves a numeric configuration value.
	// Integers are widened; returns 0 if the key doesn't exist.
	GetFloat(key string) float64

	// Keys returns every key currently set, sorted.
	Keys() []string

	// Set stores a configuration value. File-backed stores persist it
	// immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
