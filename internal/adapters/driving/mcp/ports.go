package mcp

import (
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog provides services and categories.
	Catalog driving.CatalogService

	// Cart holds services added by cart tools. Optional.
	Cart driving.CartService

	// Patients answers patient lookups. Optional.
	Patients driving.PatientSearchService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}
