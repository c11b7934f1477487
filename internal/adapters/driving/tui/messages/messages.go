// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewCatalog lists services with category and search filters.
	ViewCatalog
	// ViewCart shows selected services and the total.
	ViewCart
	// ViewPatients is the incremental patient search.
	ViewPatients
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewCatalog:
		return "catalog"
	case ViewCart:
		return "cart"
	case ViewPatients:
		return "patients"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// CatalogLoaded is sent when a catalog load finishes.
// On error the previous catalog is still in place.
type CatalogLoaded struct {
	Err error
}

// CatalogChanged is sent when the catalog source reports new data.
type CatalogChanged struct{}

// CartUpdated carries the cart after a mutation.
type CartUpdated struct {
	Cart domain.CartSnapshot
	Err  error
}

// PatientsFound carries a delivered patient lookup.
type PatientsFound struct {
	Results domain.PatientResults
}

// PatientLookupFailed signals a patient lookup error.
type PatientLookupFailed struct {
	Query string
	Err   error
}
