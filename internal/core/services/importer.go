package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driven"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driving"
	"github.com/clinicdesk/clinicdesk/internal/logger"
)

// Ensure CatalogImporter implements the interface.
var _ driving.CatalogImportService = (*CatalogImporter)(nil)

// CatalogImporter copies catalog files into the local database and
// refreshes the in-memory catalog.
type CatalogImporter struct {
	reader  driven.CatalogFileReader
	writer  driven.CatalogWriter
	catalog driving.CatalogService
}

// NewCatalogImporter creates an importer. catalog may be nil, in which
// case nothing is reloaded after an import.
func NewCatalogImporter(
	reader driven.CatalogFileReader,
	writer driven.CatalogWriter,
	catalog driving.CatalogService,
) *CatalogImporter {
	return &CatalogImporter{reader: reader, writer: writer, catalog: catalog}
}

// ImportFile reads path, validates every service and writes the batch.
func (i *CatalogImporter) ImportFile(ctx context.Context, path string) (domain.ImportSummary, error) {
	if i.reader == nil || i.writer == nil {
		return domain.ImportSummary{}, fmt.Errorf("%w: import requires the sqlite backend", domain.ErrUnsupportedBackend)
	}

	batch, err := i.reader.ReadCatalogFile(path)
	if err != nil {
		return domain.ImportSummary{}, fmt.Errorf("read %s: %w", path, err)
	}

	var errs []error
	for _, svc := range batch.Services {
		if svc.ID == "" {
			continue // assigned on write
		}
		if err := svc.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return domain.ImportSummary{}, errors.Join(errs...)
	}

	summary, err := i.writer.Import(ctx, batch)
	if err != nil {
		return domain.ImportSummary{}, fmt.Errorf("import %s: %w", path, err)
	}
	logger.Info("Imported %d categories, %d services, %d patients from %s",
		summary.Categories, summary.Services, summary.Patients, path)

	if i.catalog != nil {
		if err := i.catalog.Load(ctx); err != nil {
			return summary, fmt.Errorf("reload catalog: %w", err)
		}
	}
	return summary, nil
}
