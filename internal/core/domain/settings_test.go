package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCatalogBackend_IsValid tests all valid and invalid backends
func TestCatalogBackend_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		backend  CatalogBackend
		expected bool
	}{
		{name: "sqlite is valid", backend: BackendSQLite, expected: true},
		{name: "http is valid", backend: BackendHTTP, expected: true},
		{name: "memory is valid", backend: BackendMemory, expected: true},
		{name: "empty string is invalid", backend: CatalogBackend(""), expected: false},
		{name: "unknown backend is invalid", backend: CatalogBackend("postgres"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.backend.IsValid())
		})
	}
}

func TestCatalogBackend_Description(t *testing.T) {
	for _, b := range AllBackends() {
		assert.NotEqual(t, unknownDescription, b.Description(), b.String())
	}
	assert.Equal(t, unknownDescription, CatalogBackend("ftp").Description())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, BackendSQLite, s.Catalog.Backend)
	assert.True(t, s.Catalog.Watch)
	assert.Equal(t, 300*time.Millisecond, s.Search.Debounce)
	assert.Equal(t, "http://localhost:5000", s.API.BaseURL)
	require.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"unknown backend", func(s *AppSettings) { s.Catalog.Backend = "ftp" }},
		{"http without base url", func(s *AppSettings) {
			s.Catalog.Backend = BackendHTTP
			s.API.BaseURL = "not a url"
		}},
		{"zero timeout", func(s *AppSettings) { s.API.Timeout = 0 }},
		{"zero rate limit", func(s *AppSettings) { s.API.RateLimit = 0 }},
		{"zero burst", func(s *AppSettings) { s.API.Burst = 0 }},
		{"negative debounce", func(s *AppSettings) { s.Search.Debounce = -time.Millisecond }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestAppSettings_Validate_ZeroDebounceAllowed(t *testing.T) {
	s := DefaultAppSettings()
	s.Search.Debounce = 0
	assert.NoError(t, s.Validate())
}
