package catalog

import "errors"

// Error definitions for the catalog view.
var (
	// ErrNoCatalogService indicates that no catalog service was provided.
	ErrNoCatalogService = errors.New("catalog service is required")

	// ErrNoCartService indicates that no cart service was provided.
	ErrNoCartService = errors.New("cart service is required")
)
