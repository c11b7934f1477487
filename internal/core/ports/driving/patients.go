package driving

import (
	"context"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

// PatientSearchService turns keystrokes into debounced patient lookups.
type PatientSearchService interface {
	// Query schedules a lookup for text after the quiet period,
	// discarding any lookup still waiting to fire.
	Query(text string) error

	// OnResults subscribes to delivered lookups.
	OnResults(fn func(domain.PatientResults))

	// OnError subscribes to failed lookups.
	OnError(fn func(query string, err error))

	// LookupNow performs a lookup immediately, bypassing the debounce.
	LookupNow(ctx context.Context, text string) ([]domain.PatientRecord, error)

	// Close cancels the pending lookup and rejects new queries.
	Close()
}
