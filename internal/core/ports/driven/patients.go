package driven

import (
	"context"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

// PatientDirectory looks up patients.
type PatientDirectory interface {
	// LookupPatients returns patients matching query.
	// Matching and ranking are owned by the directory.
	LookupPatients(ctx context.Context, query string) ([]domain.PatientRecord, error)
}
