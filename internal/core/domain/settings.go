package domain

import (
	"fmt"
	"net/url"
	"time"
)

const unknownDescription = "Unknown"

// CatalogBackend selects where catalog and patient data come from.
type CatalogBackend string

// Available catalog backends.
const (
	// BackendSQLite reads the local clinic database.
	BackendSQLite CatalogBackend = "sqlite"

	// BackendHTTP calls the clinic REST API.
	BackendHTTP CatalogBackend = "http"

	// BackendMemory serves built-in demo data.
	BackendMemory CatalogBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b CatalogBackend) IsValid() bool {
	switch b {
	case BackendSQLite, BackendHTTP, BackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CatalogBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b CatalogBackend) Description() string {
	switch b {
	case BackendSQLite:
		return "SQLite (local clinic database)"
	case BackendHTTP:
		return "HTTP (clinic REST API)"
	case BackendMemory:
		return "Memory (demo data)"
	default:
		return unknownDescription
	}
}

// AllBackends returns every catalog backend.
func AllBackends() []CatalogBackend {
	return []CatalogBackend{BackendSQLite, BackendHTTP, BackendMemory}
}

// CatalogSettings configures the catalog source.
type CatalogSettings struct {
	// Backend selects the catalog source.
	Backend CatalogBackend

	// Watch reloads the catalog when the local database changes.
	Watch bool
}

// APISettings configures the REST backend.
type APISettings struct {
	// BaseURL is the clinic API root.
	BaseURL string

	// Timeout bounds every request.
	Timeout time.Duration

	// RateLimit is the sustained requests per second.
	RateLimit int

	// Burst is the token bucket size.
	Burst int
}

// DatabaseSettings configures the SQLite backend.
type DatabaseSettings struct {
	// Path is the database file. Empty means the default data directory.
	Path string
}

// SearchSettings configures the patient search box.
type SearchSettings struct {
	// Debounce is the quiet period before a lookup fires.
	Debounce time.Duration
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	Catalog  CatalogSettings
	API      APISettings
	Database DatabaseSettings
	Search   SearchSettings
}

// DefaultDebounce is the patient search quiet period.
const DefaultDebounce = 300 * time.Millisecond

// DefaultAppSettings returns settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Catalog: CatalogSettings{
			Backend: BackendSQLite,
			Watch:   true,
		},
		API: APISettings{
			BaseURL:   "http://localhost:5000",
			Timeout:   10 * time.Second,
			RateLimit: 5,
			Burst:     10,
		},
		Search: SearchSettings{
			Debounce: DefaultDebounce,
		},
	}
}

// Validate checks settings for values no component can work with.
func (s AppSettings) Validate() error {
	if !s.Catalog.Backend.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedBackend, s.Catalog.Backend)
	}
	if s.Catalog.Backend == BackendHTTP {
		u, err := url.Parse(s.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: api.base_url %q", ErrInvalidInput, s.API.BaseURL)
		}
	}
	if s.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", ErrInvalidInput)
	}
	if s.API.RateLimit <= 0 || s.API.Burst <= 0 {
		return fmt.Errorf("%w: api.rate_limit and api.burst must be positive", ErrInvalidInput)
	}
	if s.Search.Debounce < 0 {
		return fmt.Errorf("%w: search.debounce must not be negative", ErrInvalidInput)
	}
	return nil
}
