package driving

import (
	"context"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

// CatalogService exposes the service catalog and its filtered views.
type CatalogService interface {
	// Load fetches categories then services. On failure the previous
	// catalog is kept and a *domain.CatalogLoadError is returned.
	Load(ctx context.Context) error

	// ByCategory returns services in a category, or all when categoryID is empty.
	ByCategory(categoryID string) []domain.Service

	// Search returns services whose name or description contains query.
	Search(query string) []domain.Service

	// Service returns a single service by ID.
	Service(id string) (domain.Service, bool)

	// Categories returns all categories.
	Categories() []domain.Category

	// Groups returns categories with their services.
	Groups() []domain.CategoryGroup

	// SetFilter makes filter active and returns the filtered view.
	SetFilter(filter domain.CatalogFilter) []domain.Service

	// View returns services matching the active filter.
	View() []domain.Service

	// Snapshot returns a copy of the whole catalog state.
	Snapshot() domain.CatalogSnapshot
}
