package driving

import "github.com/clinicdesk/clinicdesk/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns current settings with defaults applied.
	Get() (*domain.AppSettings, error)

	// Set validates and stores a single key.
	Set(key, value string) error

	// Keys lists the supported setting keys.
	Keys() []string

	// Path returns where settings are stored.
	Path() string
}
