package services

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driven"
)

// mockCatalogSource is a mock implementation of driven.CatalogSource.
// When categoriesGate is set, FetchCategories signals categoriesStarted
// and blocks until the gate is closed.
type mockCatalogSource struct {
	categories    []domain.Category
	services      []domain.Service
	categoriesErr error
	servicesErr   error

	categoriesGate    chan struct{}
	categoriesStarted chan struct{}

	mu    sync.Mutex
	calls []string
}

var _ driven.CatalogSource = (*mockCatalogSource)(nil)

func (m *mockCatalogSource) FetchCategories(_ context.Context) ([]domain.Category, error) {
	m.record("categories")
	if m.categoriesGate != nil {
		m.categoriesStarted <- struct{}{}
		<-m.categoriesGate
	}
	if m.categoriesErr != nil {
		return nil, m.categoriesErr
	}
	return append([]domain.Category{}, m.categories...), nil
}

func (m *mockCatalogSource) FetchServices(_ context.Context) ([]domain.Service, error) {
	m.record("services")
	if m.servicesErr != nil {
		return nil, m.servicesErr
	}
	return append([]domain.Service{}, m.services...), nil
}

func (m *mockCatalogSource) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockCatalogSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

// mockPatientDirectory is a mock implementation of driven.PatientDirectory.
// Every lookup is reported on the lookups channel. When gate is set, a
// lookup blocks until a value is received for its query.
type mockPatientDirectory struct {
	patients map[string][]domain.PatientRecord
	errs     map[string]error
	gate     map[string]chan struct{}
	lookups  chan string

	mu      sync.Mutex
	queries []string
}

var _ driven.PatientDirectory = (*mockPatientDirectory)(nil)

func newMockPatientDirectory() *mockPatientDirectory {
	return &mockPatientDirectory{
		patients: make(map[string][]domain.PatientRecord),
		errs:     make(map[string]error),
		gate:     make(map[string]chan struct{}),
		lookups:  make(chan string, 16),
	}
}

func (m *mockPatientDirectory) LookupPatients(ctx context.Context, query string) ([]domain.PatientRecord, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	gate := m.gate[query]
	patients := m.patients[query]
	err := m.errs[query]
	m.mu.Unlock()

	m.lookups <- query

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (m *mockPatientDirectory) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.queries...)
}

func (m *mockPatientDirectory) hold(query string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{})
	m.gate[query] = ch
	return ch
}

// svc builds a valid service for tests.
func svc(id, name, categoryID, price string) domain.Service {
	return domain.Service{
		ID:          id,
		Name:        name,
		Description: name + " treatment",
		CategoryID:  categoryID,
		Price:       decimal.RequireFromString(price),
		Duration:    30,
	}
}

func testCatalogSource() *mockCatalogSource {
	return &mockCatalogSource{
		categories: []domain.Category{
			{ID: "facial", Name: "Facial"},
			{ID: "laser", Name: "Laser"},
		},
		services: []domain.Service{
			svc("1", "Classic Facial", "facial", "45"),
			svc("2", "Underarm Laser", "laser", "35"),
			svc("3", "Hydrating Peel", "facial", "65.5"),
		},
	}
}

// mockCatalogFileReader is a mock implementation of driven.CatalogFileReader.
type mockCatalogFileReader struct {
	batch domain.CatalogImport
	err   error
	paths []string
}

var _ driven.CatalogFileReader = (*mockCatalogFileReader)(nil)

func (m *mockCatalogFileReader) ReadCatalogFile(path string) (domain.CatalogImport, error) {
	m.paths = append(m.paths, path)
	return m.batch, m.err
}

// mockCatalogWriter is a mock implementation of driven.CatalogWriter.
// Imported services are made visible through source when set.
type mockCatalogWriter struct {
	source  *mockCatalogSource
	err     error
	batches []domain.CatalogImport
}

var _ driven.CatalogWriter = (*mockCatalogWriter)(nil)

func (m *mockCatalogWriter) Import(_ context.Context, batch domain.CatalogImport) (domain.ImportSummary, error) {
	if m.err != nil {
		return domain.ImportSummary{}, m.err
	}
	m.batches = append(m.batches, batch)
	if m.source != nil {
		m.source.categories = append(m.source.categories, batch.Categories...)
		for _, svc := range batch.Services {
			if svc.Active {
				m.source.services = append(m.source.services, svc.Service)
			}
		}
	}
	return domain.ImportSummary{
		Categories: len(batch.Categories),
		Services:   len(batch.Services),
		Patients:   len(batch.Patients),
	}, nil
}
