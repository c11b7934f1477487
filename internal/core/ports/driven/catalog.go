package driven

import (
	"context"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

// CatalogSource provides the authoritative service catalog.
// Failures should be reported as *domain.NetworkError.
type CatalogSource interface {
	// FetchCategories returns every category in display order.
	FetchCategories(ctx context.Context) ([]domain.Category, error)

	// FetchServices returns every offered service in display order.
	FetchServices(ctx context.Context) ([]domain.Service, error)
}
