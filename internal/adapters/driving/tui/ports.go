// Package tui provides an interactive terminal user interface for clinicdesk.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog provides services and categories.
	Catalog driving.CatalogService

	// Cart holds the selected services.
	Cart driving.CartService

	// Patients runs debounced patient lookups.
	Patients driving.PatientSearchService

	// CatalogChanges, when set, signals that the catalog source has new data.
	CatalogChanges <-chan struct{}
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	catalog driving.CatalogService,
	cart driving.CartService,
	patients driving.PatientSearchService,
) *Ports {
	return &Ports{
		Catalog:  catalog,
		Cart:     cart,
		Patients: patients,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	if p.Cart == nil {
		return ErrMissingCartService
	}
	if p.Patients == nil {
		return ErrMissingPatientSearch
	}
	return nil
}
