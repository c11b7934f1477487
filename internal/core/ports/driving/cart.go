package driving

import "github.com/clinicdesk/clinicdesk/internal/core/domain"

// CartService maintains the selected services and their total.
type CartService interface {
	// AddItem appends a line for service. Duplicates add another line.
	AddItem(service domain.Service) (domain.CartSnapshot, error)

	// RemoveItem removes every line for serviceID.
	RemoveItem(serviceID string) domain.CartSnapshot

	// RemoveLine removes a single line. Reports whether it existed.
	RemoveLine(lineID string) (domain.CartSnapshot, bool)

	// Clear empties the cart.
	Clear() domain.CartSnapshot

	// Snapshot returns the current items and total.
	Snapshot() domain.CartSnapshot
}
