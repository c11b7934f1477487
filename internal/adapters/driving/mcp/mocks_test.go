package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/juju/clock/testclock"

	"github.com/clinicdesk/clinicdesk/internal/adapters/driven/storage/memory"
	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/services"
)

// mockCatalogService is a mock implementation of driving.CatalogService
// whose Load fails with err and counts calls.
type mockCatalogService struct {
	err   error
	loads int
}

func (m *mockCatalogService) Load(_ context.Context) error {
	m.loads++
	return m.err
}

func (m *mockCatalogService) ByCategory(_ string) []domain.Service { return []domain.Service{} }

func (m *mockCatalogService) Search(_ string) []domain.Service { return []domain.Service{} }

func (m *mockCatalogService) Service(_ string) (domain.Service, bool) {
	return domain.Service{}, false
}

func (m *mockCatalogService) Categories() []domain.Category { return []domain.Category{} }

func (m *mockCatalogService) Groups() []domain.CategoryGroup { return []domain.CategoryGroup{} }

func (m *mockCatalogService) SetFilter(_ domain.CatalogFilter) []domain.Service {
	return []domain.Service{}
}

func (m *mockCatalogService) View() []domain.Service { return []domain.Service{} }

func (m *mockCatalogService) Snapshot() domain.CatalogSnapshot { return domain.CatalogSnapshot{} }

// mockPatientSearch is a mock implementation of driving.PatientSearchService.
type mockPatientSearch struct {
	patients []domain.PatientRecord
	err      error
	queries  []string
}

func (m *mockPatientSearch) Query(text string) error {
	m.queries = append(m.queries, text)
	return m.err
}

func (m *mockPatientSearch) OnResults(_ func(domain.PatientResults)) {}

func (m *mockPatientSearch) OnError(_ func(string, error)) {}

func (m *mockPatientSearch) LookupNow(_ context.Context, text string) ([]domain.PatientRecord, error) {
	m.queries = append(m.queries, text)
	return m.patients, m.err
}

func (m *mockPatientSearch) Close() {}

// newDemoPorts wires real services over the demo catalog.
func newDemoPorts(t *testing.T) *Ports {
	t.Helper()
	source := memory.NewDemoCatalog()
	search := services.NewPatientSearch(source, testclock.NewClock(time.Time{}), 300*time.Millisecond)
	t.Cleanup(search.Close)
	return &Ports{
		Catalog:  services.NewCatalogStore(source),
		Cart:     services.NewCart(),
		Patients: search,
	}
}

func newDemoServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(newDemoPorts(t))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return server
}
