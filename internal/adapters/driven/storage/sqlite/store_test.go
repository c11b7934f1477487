package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temp directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "clinic.db"))
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func importedService(id, name, categoryID, price string, active bool) domain.ImportedService {
	return domain.ImportedService{
		Service: domain.Service{
			ID:          id,
			Name:        name,
			Description: name + " treatment",
			CategoryID:  categoryID,
			Price:       decimal.RequireFromString(price),
			Duration:    30,
		},
		Active: active,
	}
}

func seed(t *testing.T, store *Store) {
	t.Helper()
	_, err := store.Import(context.Background(), domain.CatalogImport{
		Categories: []domain.Category{
			{ID: "facial", Name: "Facial"},
			{ID: "laser", Name: "Laser"},
		},
		Services: []domain.ImportedService{
			importedService("1", "Classic Facial", "facial", "45", true),
			importedService("2", "Underarm Laser", "laser", "35.5", true),
			importedService("3", "Retired Peel", "facial", "20", false),
		},
		Patients: []domain.PatientRecord{
			{ID: "p1", Name: "Carla Ng", Phone: "555-0199", Email: "carla@example.org"},
			{ID: "p2", Name: "alice moreno", Phone: "555-0101", Email: "alice@example.com"},
			{ID: "p3", Name: "Bruno 50% Silva", Phone: "555-0144", Email: "bruno_s@example.com"},
		},
	})
	require.NoError(t, err)
}

func TestNewStore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "clinic.db")

	store, err := NewStore(path)

	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, path, store.Path())
	assert.FileExists(t, path)
}

func TestNewStore_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewStore("")

	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, filepath.Join(home, ".clinicdesk", "data", DefaultFileName), store.Path())
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/dev/null/cannot/clinic.db")

	assert.Error(t, err)
}

func TestNewStore_Migrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic.db")
	store, err := NewStore(path)
	require.NoError(t, err)

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	for _, table := range []string{"categories", "services", "patients"} {
		var name string
		err := store.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		assert.NoError(t, err, table)
	}
	require.NoError(t, store.Close())

	// Reopening does not re-run applied migrations.
	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	version, err = reopened.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestCatalogSource_Empty(t *testing.T) {
	store := setupTestStore(t)
	source := store.CatalogSource()

	categories, err := source.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)

	services, err := source.FetchServices(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, services)
	assert.Empty(t, services)
}

func TestCatalogSource_Fetch(t *testing.T) {
	store := setupTestStore(t)
	seed(t, store)
	source := store.CatalogSource()

	categories, err := source.FetchCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "facial", categories[0].ID)
	assert.Equal(t, "laser", categories[1].ID)

	services, err := source.FetchServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2, "inactive services are hidden")
	assert.Equal(t, "1", services[0].ID)
	assert.Equal(t, "facial", services[0].CategoryID)
	assert.Equal(t, "Classic Facial treatment", services[0].Description)
	assert.Equal(t, 30, services[0].Duration)
	assert.True(t, decimal.RequireFromString("35.50").Equal(services[1].Price))
}

func TestCatalogSource_CancelledContext(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.CatalogSource().FetchServices(ctx)

	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestPatientDirectory_Lookup(t *testing.T) {
	store := setupTestStore(t)
	seed(t, store)
	dir := store.PatientDirectory()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"name ignores ascii case", "CARLA", []string{"p1"}},
		{"phone", "0101", []string{"p2"}},
		{"email", "example.com", []string{"p3", "p2"}},
		{"percent is literal", "50%", []string{"p3"}},
		{"underscore is literal", "o_s", []string{"p3"}},
		{"blank matches all ordered by name", "", []string{"p3", "p1", "p2"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patients, err := dir.LookupPatients(context.Background(), tt.query)
			require.NoError(t, err)

			ids := make([]string, 0, len(patients))
			for _, p := range patients {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStore_Import_Upserts(t *testing.T) {
	store := setupTestStore(t)
	seed(t, store)

	stats, err := store.Import(context.Background(), domain.CatalogImport{
		Services: []domain.ImportedService{
			importedService("1", "Deluxe Facial", "facial", "55", true),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ImportSummary{Services: 1}, stats)

	services, err := store.CatalogSource().FetchServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Deluxe Facial", services[0].Name)
}

func TestStore_Import_GeneratesIDs(t *testing.T) {
	store := setupTestStore(t)

	stats, err := store.Import(context.Background(), domain.CatalogImport{
		Categories: []domain.Category{{Name: "Body"}},
		Services:   []domain.ImportedService{importedService("", "Massage", "", "80", true)},
		Patients:   []domain.PatientRecord{{Name: "Dana"}},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ImportSummary{Categories: 1, Services: 1, Patients: 1}, stats)

	services, err := store.CatalogSource().FetchServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.NotEmpty(t, services[0].ID)
}

func TestStore_Import_InvalidRollsBack(t *testing.T) {
	store := setupTestStore(t)
	bad := importedService("9", "Broken", "", "10", true)
	bad.Duration = 0

	_, err := store.Import(context.Background(), domain.CatalogImport{
		Categories: []domain.Category{{ID: "body", Name: "Body"}},
		Services:   []domain.ImportedService{bad},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidService)

	_, err = store.Import(context.Background(), domain.CatalogImport{
		Categories: []domain.Category{{ID: "body", Name: "Body"}},
		Patients:   []domain.PatientRecord{{ID: "x", Name: " "}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	categories, err := store.CatalogSource().FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}
