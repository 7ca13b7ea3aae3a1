package driving

import "github.com/salafifatawa/fatawa-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single key and persists it.
	// Returns domain.ErrInvalidInput for unknown keys or bad values.
	Set(key, value string) error

	// Validate checks if current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Path returns where settings are stored.
	Path() string
}
