package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidService indicates a service record is malformed.
	ErrInvalidService = errors.New("invalid service")

	// ErrNetwork indicates an external capability failed.
	ErrNetwork = errors.New("network error")

	// ErrClosed indicates the component has been closed.
	ErrClosed = errors.New("closed")

	// ErrUnsupportedBackend indicates an unknown catalog backend.
	ErrUnsupportedBackend = errors.New("unsupported catalog backend")
)

// NetworkError reports a failed call to an external capability:
// a transport failure, a non-success status or a malformed payload.
type NetworkError struct {
	// Op names the capability, e.g. "fetch categories".
	Op string

	// Status is the HTTP status code, zero when no response arrived.
	Status int

	// Err is the underlying cause, if any.
	Err error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": " + ErrNetwork.Error()
	}
}

// Unwrap returns the underlying cause.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is reports every NetworkError as ErrNetwork.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// CatalogResource names the catalog list that failed to load.
type CatalogResource string

// Catalog resources, fetched in this order.
const (
	ResourceCategories CatalogResource = "categories"
	ResourceServices   CatalogResource = "services"
)

// CatalogLoadError wraps the failure of one catalog resource.
type CatalogLoadError struct {
	Resource CatalogResource
	Err      error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CatalogLoadError) Unwrap() error {
	return e.Err
}

// InvalidServiceError rejects a malformed service at a boundary.
type InvalidServiceError struct {
	ServiceID string
	Reason    string
}

func (e *InvalidServiceError) Error() string {
	if e.ServiceID == "" {
		return fmt.Sprintf("invalid service: %s", e.Reason)
	}
	return fmt.Sprintf("invalid service %q: %s", e.ServiceID, e.Reason)
}

// Is reports every InvalidServiceError as ErrInvalidService.
func (e *InvalidServiceError) Is(target error) bool {
	return target == ErrInvalidService
}
