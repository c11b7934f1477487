package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Service is a bookable clinic treatment. Services are immutable values:
// they are replaced by reloading the catalog, never edited in place.
type Service struct {
	// ID is the opaque unique identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Description is free text shown under the name.
	Description string `json:"description"`

	// CategoryID references a Category; it does not own it.
	CategoryID string `json:"categoryId"`

	// Price is non-negative with currency minor-unit precision.
	Price decimal.Decimal `json:"price"`

	// Duration is the treatment length in minutes.
	Duration int `json:"duration"`
}

// Validate checks the fields every boundary relies on.
func (s Service) Validate() error {
	switch {
	case strings.TrimSpace(s.ID) == "":
		return &InvalidServiceError{Reason: "missing id"}
	case s.Price.IsNegative():
		return &InvalidServiceError{ServiceID: s.ID, Reason: "negative price"}
	case s.Duration <= 0:
		return &InvalidServiceError{ServiceID: s.ID, Reason: "duration must be positive"}
	}
	return nil
}

// Matches reports whether name or description contains query,
// ignoring case. The query is not trimmed; a blank or whitespace-only
// query matches everything.
func (s Service) Matches(query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.Description), q)
}

// Category groups services.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UncategorisedID is the group id for services whose category is unknown.
const UncategorisedID = ""

// CategoryGroup is a category with its services in catalog order.
type CategoryGroup struct {
	Category Category
	Services []Service
}

// FilterKind identifies which filter is active.
type FilterKind int

const (
	// FilterNone shows every service.
	FilterNone FilterKind = iota
	// FilterCategory shows services of one category.
	FilterCategory
	// FilterQuery shows services matching free text.
	FilterQuery
)

// String returns the string representation of the filter kind.
func (k FilterKind) String() string {
	switch k {
	case FilterNone:
		return "none"
	case FilterCategory:
		return "category"
	case FilterQuery:
		return "query"
	default:
		return "unknown"
	}
}

// CatalogFilter is either no filter, a category id or a free-text query.
// The zero value is no filter.
type CatalogFilter struct {
	Kind  FilterKind
	Value string
}

// CategoryFilter filters by category id. An empty id means no filter.
func CategoryFilter(categoryID string) CatalogFilter {
	if categoryID == "" {
		return CatalogFilter{}
	}
	return CatalogFilter{Kind: FilterCategory, Value: categoryID}
}

// QueryFilter filters by free text. A blank query means no filter.
func QueryFilter(query string) CatalogFilter {
	if strings.TrimSpace(query) == "" {
		return CatalogFilter{}
	}
	return CatalogFilter{Kind: FilterQuery, Value: query}
}

// IsZero reports whether no filter is active.
func (f CatalogFilter) IsZero() bool {
	return f.Kind == FilterNone
}

// Matches reports whether svc passes the filter.
func (f CatalogFilter) Matches(svc Service) bool {
	switch f.Kind {
	case FilterCategory:
		return svc.CategoryID == f.Value
	case FilterQuery:
		return svc.Matches(f.Value)
	default:
		return true
	}
}

// Apply returns the services passing the filter, preserving order.
// The result is never nil.
func (f CatalogFilter) Apply(services []Service) []Service {
	out := make([]Service, 0, len(services))
	for _, svc := range services {
		if f.Matches(svc) {
			out = append(out, svc)
		}
	}
	return out
}

// CatalogSnapshot is a read-only copy of the catalog state.
type CatalogSnapshot struct {
	Services   []Service
	Categories []Category
	Filter     CatalogFilter

	// View is exactly the subset of Services matching Filter.
	View []Service
}

// ImportedService is a service record being imported, with its
// visibility flag. Inactive services are stored but never listed.
type ImportedService struct {
	Service
	Active bool
}

// CatalogImport is a batch of records written to the local database.
type CatalogImport struct {
	Categories []Category
	Services   []ImportedService
	Patients   []PatientRecord
}

// ImportSummary counts records written by an import.
type ImportSummary struct {
	Categories int `json:"categories"`
	Services   int `json:"services"`
	Patients   int `json:"patients"`
}
