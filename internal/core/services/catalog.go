package services

import (
	"context"
	"sync"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driven"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driving"
	"github.com/clinicdesk/clinicdesk/internal/logger"
)

// Ensure CatalogStore implements the interface.
var _ driving.CatalogService = (*CatalogStore)(nil)

// CatalogStore owns the authoritative service and category lists.
// The active filter's view is recomputed whenever services or the
// filter change, so it always equals filter.Apply(services).
type CatalogStore struct {
	source driven.CatalogSource

	// loadMu serializes Load so concurrent loads do not race to
	// overwrite the lists.
	loadMu sync.Mutex

	mu         sync.RWMutex
	services   []domain.Service
	categories []domain.Category
	filter     domain.CatalogFilter
	view       []domain.Service
}

// NewCatalogStore creates an empty catalog backed by source.
func NewCatalogStore(source driven.CatalogSource) *CatalogStore {
	return &CatalogStore{
		source:     source,
		services:   []domain.Service{},
		categories: []domain.Category{},
		view:       []domain.Service{},
	}
}

// Load fetches categories then services. Both lists are committed
// together; on any failure the previous state is kept.
func (c *CatalogStore) Load(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	logger.Section("Catalog Load")

	if c.source == nil {
		return &domain.CatalogLoadError{Resource: domain.ResourceCategories, Err: domain.ErrNotFound}
	}

	categories, err := c.source.FetchCategories(ctx)
	if err != nil {
		logger.Warn("Fetching categories failed: %v", err)
		return &domain.CatalogLoadError{Resource: domain.ResourceCategories, Err: err}
	}
	logger.Debug("Fetched %d categories", len(categories))

	services, err := c.source.FetchServices(ctx)
	if err != nil {
		logger.Warn("Fetching services failed: %v", err)
		return &domain.CatalogLoadError{Resource: domain.ResourceServices, Err: err}
	}
	logger.Debug("Fetched %d services", len(services))

	for i := range services {
		if err := services[i].Validate(); err != nil {
			logger.Warn("Rejecting catalog: %v", err)
			return &domain.CatalogLoadError{Resource: domain.ResourceServices, Err: err}
		}
		services[i].Price = domain.RoundPrice(services[i].Price)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = append([]domain.Category{}, categories...)
	c.services = append([]domain.Service{}, services...)
	c.view = c.filter.Apply(c.services)

	logger.Info("Catalog loaded: %d categories, %d services, %d in view",
		len(c.categories), len(c.services), len(c.view))
	return nil
}

// ByCategory returns services in categoryID, or all services when it is empty.
// An unknown category yields an empty slice.
func (c *CatalogStore) ByCategory(categoryID string) []domain.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CategoryFilter(categoryID).Apply(c.services)
}

// Search returns services whose name or description contains query,
// ignoring case. A blank query returns all services.
func (c *CatalogStore) Search(query string) []domain.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.QueryFilter(query).Apply(c.services)
}

// Service returns the service with id.
func (c *CatalogStore) Service(id string) (domain.Service, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, svc := range c.services {
		if svc.ID == id {
			return svc, true
		}
	}
	return domain.Service{}, false
}

// Services returns a copy of all services.
func (c *CatalogStore) Services() []domain.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Service{}, c.services...)
}

// Categories returns a copy of all categories.
func (c *CatalogStore) Categories() []domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Category{}, c.categories...)
}

// Groups returns each category with its services, in category order.
// Services referencing an unknown category are collected in a trailing
// group whose category ID is domain.UncategorisedID.
func (c *CatalogStore) Groups() []domain.CategoryGroup {
	c.mu.RLock()
	defer c.mu.RUnlock()

	groups := make([]domain.CategoryGroup, 0, len(c.categories)+1)
	index := make(map[string]int, len(c.categories))
	for _, cat := range c.categories {
		index[cat.ID] = len(groups)
		groups = append(groups, domain.CategoryGroup{Category: cat, Services: []domain.Service{}})
	}

	var orphans []domain.Service
	for _, svc := range c.services {
		if i, ok := index[svc.CategoryID]; ok {
			groups[i].Services = append(groups[i].Services, svc)
			continue
		}
		orphans = append(orphans, svc)
	}
	if len(orphans) > 0 {
		groups = append(groups, domain.CategoryGroup{
			Category: domain.Category{ID: domain.UncategorisedID, Name: "Other"},
			Services: orphans,
		})
	}
	return groups
}

// SetFilter makes filter active and returns the new view.
func (c *CatalogStore) SetFilter(filter domain.CatalogFilter) []domain.Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
	c.view = filter.Apply(c.services)
	logger.Debug("Filter %s %q: %d services", filter.Kind, filter.Value, len(c.view))
	return append([]domain.Service{}, c.view...)
}

// ClearFilter removes the active filter and returns the full view.
func (c *CatalogStore) ClearFilter() []domain.Service {
	return c.SetFilter(domain.CatalogFilter{})
}

// Filter returns the active filter.
func (c *CatalogStore) Filter() domain.CatalogFilter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// View returns the services matching the active filter.
func (c *CatalogStore) View() []domain.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Service{}, c.view...)
}

// Snapshot returns a copy of the whole catalog state.
func (c *CatalogStore) Snapshot() domain.CatalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CatalogSnapshot{
		Services:   append([]domain.Service{}, c.services...),
		Categories: append([]domain.Category{}, c.categories...),
		Filter:     c.filter,
		View:       append([]domain.Service{}, c.view...),
	}
}
