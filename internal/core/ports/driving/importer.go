package driving

import (
	"context"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

// CatalogImportService loads catalog files into the local database.
type CatalogImportService interface {
	// ImportFile reads path, stores its records and reloads the catalog.
	ImportFile(ctx context.Context, path string) (domain.ImportSummary, error)
}
