package catalog

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/internal/adapters/driven/storage/memory"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/messages"
	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/services"
)

// flakySource fails every fetch while down is set.
type flakySource struct {
	*memory.Catalog
	down bool
}

func (f *flakySource) FetchServices(ctx context.Context) ([]domain.Service, error) {
	if f.down {
		return nil, &domain.NetworkError{Op: "fetch services", Err: errors.New("connection refused")}
	}
	return f.Catalog.FetchServices(ctx)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newLoadedView(t *testing.T) (*View, *services.Cart, *flakySource) {
	t.Helper()
	source := &flakySource{Catalog: memory.NewDemoCatalog()}
	cart := services.NewCart()
	view := NewView(nil, nil, services.NewCatalogStore(source), cart)
	view.SetDimensions(120, 60)

	cmd := view.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, messages.CatalogLoaded{}, msg)
	view.Update(msg)
	return view, cart, source
}

func titles(v *View) []string {
	out := make([]string, 0)
	for _, r := range v.Rows() {
		out = append(out, r.Title)
	}
	return out
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
	assert.Equal(t, allTab, view.Tab().Name)
	assert.False(t, view.Filtering())
	assert.Contains(t, view.View(), "Initialising")
}

func TestView_Init_LoadsCatalog(t *testing.T) {
	view, _, _ := newLoadedView(t)

	assert.NoError(t, view.Err())
	assert.Len(t, view.Rows(), 6)
	assert.Len(t, view.tabs, 4)
	assert.Nil(t, view.Init(), "second init reuses the loaded catalog")

	output := view.View()
	assert.Contains(t, output, "Classic Facial")
	assert.Contains(t, output, "$45.00")
	assert.Contains(t, output, "Facial")
	assert.Contains(t, output, "Laser")
}

func TestView_CategoryTabs(t *testing.T) {
	view, _, _ := newLoadedView(t)

	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "facial", view.Tab().ID)
	assert.Equal(t, []string{"Classic Facial", "Hydrating Peel"}, titles(view))

	view.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	view.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "laser", view.Tab().ID, "wraps around")
	assert.Equal(t, []string{"Underarm Laser", "Full Leg Laser"}, titles(view))

	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Empty(t, view.Tab().ID)
	assert.Len(t, view.Rows(), 6)
}

func TestView_FreeTextFilter(t *testing.T) {
	view, _, _ := newLoadedView(t)
	view.Update(tea.KeyMsg{Type: tea.KeyTab}) // facial

	view.Update(runes("/"))
	require.True(t, view.Filtering())
	for _, r := range "massage" {
		view.Update(runes(string(r)))
	}

	assert.Equal(t, []string{"Swedish Massage", "Hot Stone Massage"}, titles(view),
		"query replaces the category filter")

	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, view.Filtering())
	assert.Len(t, view.Rows(), 2, "filter kept after leaving the input")

	view.Update(runes("/"))
	for range "massage" {
		view.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	assert.Equal(t, []string{"Classic Facial", "Hydrating Peel"}, titles(view),
		"clearing the query restores the tab")
}

func TestView_FilterNoMatches(t *testing.T) {
	view, _, _ := newLoadedView(t)

	view.Update(runes("/"))
	for _, r := range "zzz" {
		view.Update(runes(string(r)))
	}

	assert.Empty(t, view.Rows())
	assert.Contains(t, view.View(), "No services")
}

func TestView_AddToCart(t *testing.T) {
	view, cart, _ := newLoadedView(t)
	view.Update(tea.KeyMsg{Type: tea.KeyDown}) // Hydrating Peel

	_, cmd := view.Update(runes("a"))

	require.NotNil(t, cmd)
	updated, ok := cmd().(messages.CartUpdated)
	require.True(t, ok)
	assert.Equal(t, 1, updated.Cart.Len())
	assert.Equal(t, "65.5", updated.Cart.Total.String())
	assert.Equal(t, 1, cart.Snapshot().Len())
	assert.Contains(t, view.statusbar.Message(), "Added Hydrating Peel")

	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, 2, cart.Snapshot().Len(), "enter adds another line")
}

func TestView_AddWithoutCart(t *testing.T) {
	view := NewView(nil, nil, services.NewCatalogStore(memory.NewDemoCatalog()), nil)
	view.SetDimensions(100, 40)
	view.Update(view.Init()())

	_, cmd := view.Update(runes("a"))

	assert.Nil(t, cmd)
	assert.ErrorIs(t, view.Err(), ErrNoCartService)
}

func TestView_ReloadFailureKeepsRows(t *testing.T) {
	view, _, source := newLoadedView(t)
	source.down = true

	_, cmd := view.Update(runes("r"))
	require.NotNil(t, cmd)
	view.Update(cmd())

	require.Error(t, view.Err())
	assert.ErrorIs(t, view.Err(), domain.ErrNetwork)
	assert.Len(t, view.Rows(), 6)
	assert.Contains(t, view.View(), "connection refused")
}

func TestView_ReloadKeepsSelectedTab(t *testing.T) {
	view, _, _ := newLoadedView(t)
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	view.Update(tea.KeyMsg{Type: tea.KeyTab}) // body

	view.Update(view.Reload()())

	assert.Equal(t, "body", view.Tab().ID)
	assert.Len(t, view.Rows(), 2)
}

func TestView_EscReturnsToMenu(t *testing.T) {
	view, _, _ := newLoadedView(t)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_NoCatalogService(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	cmd := view.Init()

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ErrorOccurred{Err: ErrNoCatalogService}, cmd())
}

func TestView_Reset(t *testing.T) {
	view, _, _ := newLoadedView(t)
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	view.Update(runes("/"))
	view.Update(runes("x"))

	view.Reset()

	assert.False(t, view.Filtering())
	assert.Empty(t, view.Tab().ID)
	assert.Len(t, view.Rows(), 6)
}
