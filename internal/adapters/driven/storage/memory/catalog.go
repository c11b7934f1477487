package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driven"
)

// Ensure Catalog implements the interfaces.
var (
	_ driven.CatalogSource    = (*Catalog)(nil)
	_ driven.PatientDirectory = (*Catalog)(nil)
)

// Catalog is an in-memory catalog source and patient directory.
type Catalog struct {
	mu         sync.RWMutex
	categories []domain.Category
	services   []domain.Service
	patients   []domain.PatientRecord
}

// NewCatalog creates an empty in-memory catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// NewDemoCatalog creates a catalog pre-filled with demo clinic data.
func NewDemoCatalog() *Catalog {
	c := NewCatalog()
	c.SetCategories(demoCategories())
	c.SetServices(demoServices())
	c.SetPatients(demoPatients())
	return c
}

// SetCategories replaces all categories.
func (c *Catalog) SetCategories(categories []domain.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = append([]domain.Category{}, categories...)
}

// SetServices replaces all services.
func (c *Catalog) SetServices(services []domain.Service) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services = append([]domain.Service{}, services...)
}

// SetPatients replaces all patients.
func (c *Catalog) SetPatients(patients []domain.PatientRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patients = append([]domain.PatientRecord{}, patients...)
}

// FetchCategories returns every category in insertion order.
func (c *Catalog) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.NetworkError{Op: "fetch categories", Err: err}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Category{}, c.categories...), nil
}

// FetchServices returns every service in insertion order.
func (c *Catalog) FetchServices(ctx context.Context) ([]domain.Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.NetworkError{Op: "fetch services", Err: err}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Service{}, c.services...), nil
}

// LookupPatients returns patients whose name, phone or email contains
// query, ignoring case, ordered by name.
func (c *Catalog) LookupPatients(ctx context.Context, query string) ([]domain.PatientRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.NetworkError{Op: "lookup patients", Err: err}
	}

	needle := strings.ToLower(strings.TrimSpace(query))

	c.mu.RLock()
	result := make([]domain.PatientRecord, 0)
	for _, p := range c.patients {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Phone), needle) ||
			strings.Contains(strings.ToLower(p.Email), needle) {
			result = append(result, p)
		}
	}
	c.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func demoCategories() []domain.Category {
	return []domain.Category{
		{ID: "facial", Name: "Facial", Description: "Skin care treatments for the face"},
		{ID: "body", Name: "Body", Description: "Massage and body treatments"},
		{ID: "laser", Name: "Laser", Description: "Laser hair removal"},
	}
}

func demoServices() []domain.Service {
	return []domain.Service{
		{ID: "1", Name: "Classic Facial", Description: "Cleanse, exfoliate and hydrate",
			CategoryID: "facial", Price: decimal.RequireFromString("45.00"), Duration: 45},
		{ID: "2", Name: "Hydrating Peel", Description: "Gentle chemical peel for dry skin",
			CategoryID: "facial", Price: decimal.RequireFromString("65.50"), Duration: 30},
		{ID: "3", Name: "Swedish Massage", Description: "Full body relaxation massage",
			CategoryID: "body", Price: decimal.RequireFromString("80.00"), Duration: 60},
		{ID: "4", Name: "Hot Stone Massage", Description: "Massage with heated basalt stones",
			CategoryID: "body", Price: decimal.RequireFromString("95.00"), Duration: 75},
		{ID: "5", Name: "Underarm Laser", Description: "Laser hair removal, underarms",
			CategoryID: "laser", Price: decimal.RequireFromString("35.00"), Duration: 15},
		{ID: "6", Name: "Full Leg Laser", Description: "Laser hair removal, full legs",
			CategoryID: "laser", Price: decimal.RequireFromString("150.00"), Duration: 50},
	}
}

func demoPatients() []domain.PatientRecord {
	return []domain.PatientRecord{
		{ID: "101", Name: "Alice Moreno", Phone: "555-0101", Email: "alice@example.com"},
		{ID: "102", Name: "Bruno Silva", Phone: "555-0144", Email: "bruno.silva@example.com"},
		{ID: "103", Name: "Carla Ng", Phone: "555-0199", Email: "carla@example.org"},
		{ID: "104", Name: "Abigail Stone", Phone: "555-0123", Email: "abby@example.net"},
	}
}
