package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driving"
	"github.com/clinicdesk/clinicdesk/internal/logger"
)

// Ensure Cart implements the interface.
var _ driving.CartService = (*Cart)(nil)

// Cart holds selected services in insertion order.
//
// Adding a service that is already in the cart appends another line.
// RemoveItem removes by service id, so it drops every such line.
// total and duration are only written by recalculate, which runs at the
// end of every mutation.
type Cart struct {
	mu       sync.RWMutex
	items    []domain.CartLineItem
	total    decimal.Decimal
	duration int

	now   func() time.Time
	newID func() string
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{
		items: []domain.CartLineItem{},
		total: decimal.Zero,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// AddItem appends a line for service and returns the updated cart.
// Malformed services are rejected with *domain.InvalidServiceError.
func (c *Cart) AddItem(service domain.Service) (domain.CartSnapshot, error) {
	if err := service.Validate(); err != nil {
		return c.Snapshot(), err
	}
	service.Price = domain.RoundPrice(service.Price)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, domain.CartLineItem{
		LineID:  c.newID(),
		Service: service,
		AddedAt: c.now(),
	})
	c.recalculate()

	logger.Debug("Cart add %s: %d lines, total %s", service.ID, len(c.items), c.total)
	return c.snapshot(), nil
}

// RemoveItem removes every line for serviceID.
func (c *Cart) RemoveItem(serviceID string) domain.CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]domain.CartLineItem, 0, len(c.items))
	for _, item := range c.items {
		if item.Service.ID != serviceID {
			kept = append(kept, item)
		}
	}
	removed := len(c.items) - len(kept)
	c.items = kept
	c.recalculate()

	logger.Debug("Cart remove %s: %d lines removed, total %s", serviceID, removed, c.total)
	return c.snapshot()
}

// RemoveLine removes the line with lineID.
func (c *Cart) RemoveLine(lineID string) (domain.CartSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.LineID != lineID {
			continue
		}
		c.items = append(c.items[:i:i], c.items[i+1:]...)
		c.recalculate()
		return c.snapshot(), true
	}
	return c.snapshot(), false
}

// Clear removes every line.
func (c *Cart) Clear() domain.CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = []domain.CartLineItem{}
	c.recalculate()
	return c.snapshot()
}

// Count returns how many lines hold serviceID.
func (c *Cart) Count(serviceID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, item := range c.items {
		if item.Service.ID == serviceID {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of the current items and totals.
func (c *Cart) Snapshot() domain.CartSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot()
}

// recalculate derives total and duration from items. Caller holds mu.
func (c *Cart) recalculate() {
	total := decimal.Zero
	duration := 0
	for _, item := range c.items {
		total = total.Add(item.Service.Price)
		duration += item.Service.Duration
	}
	c.total = total
	c.duration = duration
}

// snapshot copies state. Caller holds mu.
func (c *Cart) snapshot() domain.CartSnapshot {
	return domain.CartSnapshot{
		Items:    append([]domain.CartLineItem{}, c.items...),
		Total:    c.total,
		Duration: c.duration,
	}
}
