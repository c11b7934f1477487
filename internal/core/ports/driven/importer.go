package driven

import (
	"context"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

// CatalogWriter stores imported catalog and patient records.
type CatalogWriter interface {
	// Import upserts the batch atomically.
	Import(ctx context.Context, batch domain.CatalogImport) (domain.ImportSummary, error)
}

// CatalogFileReader decodes a catalog import file.
type CatalogFileReader interface {
	// ReadCatalogFile parses the file at path.
	ReadCatalogFile(path string) (domain.CatalogImport, error)
}
