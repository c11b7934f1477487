package services

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driven"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyCatalogBackend = "catalog.backend"
	KeyCatalogWatch   = "catalog.watch"
	KeyAPIBaseURL     = "api.base_url"
	KeyAPITimeout     = "api.timeout"
	KeyAPIRateLimit   = "api.rate_limit"
	KeyAPIBurst       = "api.burst"
	KeyDatabasePath   = "database.path"
	KeySearchDebounce = "search.debounce"
)

// settingKind describes how a key's string form is parsed.
type settingKind int

const (
	kindString settingKind = iota
	kindBool
	kindInt
	kindDuration
	kindBackend
	kindURL
)

var settingKinds = map[string]settingKind{
	KeyCatalogBackend: kindBackend,
	KeyCatalogWatch:   kindBool,
	KeyAPIBaseURL:     kindURL,
	KeyAPITimeout:     kindDuration,
	KeyAPIRateLimit:   kindInt,
	KeyAPIBurst:       kindInt,
	KeyDatabasePath:   kindString,
	KeySearchDebounce: kindDuration,
}

// SettingsService maps the config store onto domain.AppSettings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or malformed
// values fall back to their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Catalog: domain.CatalogSettings{
			Backend: s.getBackend(defaults.Catalog.Backend),
			Watch:   s.getBool(KeyCatalogWatch, defaults.Catalog.Watch),
		},
		API: domain.APISettings{
			BaseURL:   s.getString(KeyAPIBaseURL, defaults.API.BaseURL),
			Timeout:   s.getDuration(KeyAPITimeout, defaults.API.Timeout, false),
			RateLimit: s.getPositiveInt(KeyAPIRateLimit, defaults.API.RateLimit),
			Burst:     s.getPositiveInt(KeyAPIBurst, defaults.API.Burst),
		},
		Database: domain.DatabaseSettings{
			Path: s.configStore.GetString(KeyDatabasePath), // empty means default location
		},
		Search: domain.SearchSettings{
			Debounce: s.getDuration(KeySearchDebounce, defaults.Search.Debounce, true),
		},
	}

	return settings, nil
}

// Set parses value for key, validates it and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(kind, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the supported setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Validate checks the stored settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

func parseSetting(kind settingKind, value string) (any, error) {
	switch kind {
	case kindBool:
		return strconv.ParseBool(value)
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("must be positive")
		}
		return n, nil
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, fmt.Errorf("must not be negative")
		}
		return d.String(), nil
	case kindBackend:
		backend := domain.CatalogBackend(strings.ToLower(value))
		if !backend.IsValid() {
			return nil, fmt.Errorf("unsupported backend %q", value)
		}
		return backend.String(), nil
	case kindURL:
		u, err := url.Parse(value)
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("not an absolute URL")
		}
		return strings.TrimRight(value, "/"), nil
	default:
		return value, nil
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration, allowZero bool) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getBackend(defaultVal domain.CatalogBackend) domain.CatalogBackend {
	val := s.configStore.GetString(KeyCatalogBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.CatalogBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
