// Package catalog provides the service browsing view for the TUI.
package catalog

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/components/input"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/components/list"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/components/status"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/keymap"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/messages"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/styles"
	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driving"
)

// allTab is the label of the unfiltered tab.
const allTab = "All"

// View lists services with category tabs and a free-text filter.
// Typing in the filter replaces the category filter; clearing it
// restores the selected tab.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.List
	statusbar *status.Bar

	catalog driving.CatalogService
	cart    driving.CartService
	ctx     context.Context

	// tabs[0] is the unfiltered tab.
	tabs []domain.Category
	tab  int

	width     int
	height    int
	ready     bool
	loaded    bool
	filtering bool
	err       error
}

// NewView creates a new catalog view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	catalog driving.CatalogService,
	cart driving.CartService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	in := input.NewSearchInput(s, "Filter", "name or description...")
	in.Blur()

	bar := status.NewBar(s, km)
	bar.SetHints(km.CatalogHelp())

	return &View{
		styles:    s,
		keymap:    km,
		input:     in,
		list:      list.New(s, "Services", "No services"),
		statusbar: bar,
		catalog:   catalog,
		cart:      cart,
		ctx:       context.Background(),
		tabs:      []domain.Category{{Name: allTab}},
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the catalog the first time the view is shown.
func (v *View) Init() tea.Cmd {
	if v.loaded {
		v.refresh()
		return nil
	}
	return v.Reload()
}

// Reload fetches the catalog again.
func (v *View) Reload() tea.Cmd {
	if v.catalog == nil {
		return func() tea.Msg {
			return messages.ErrorOccurred{Err: ErrNoCatalogService}
		}
	}
	v.statusbar.SetState(status.StateLoading)
	catalog, ctx := v.catalog, v.ctx
	return func() tea.Msg {
		return messages.CatalogLoaded{Err: catalog.Load(ctx)}
	}
}

// Update handles messages for the catalog view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.CatalogLoaded:
		v.handleLoaded(msg)
		return v, nil

	case messages.CartUpdated:
		if msg.Err != nil {
			v.setError(msg.Err)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.filtering {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			v.filtering = false
			v.input.Blur()
			return v, nil
		}
		v.input, _ = v.input.Update(msg)
		v.applyFilter()
		return v, nil
	}

	key := msg.String()
	switch {
	case key == "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(key, v.keymap.Filter):
		v.filtering = true
		return v, v.input.Focus()
	case keymap.Matches(key, v.keymap.NextCategory):
		v.cycleTab(1)
		return v, nil
	case keymap.Matches(key, v.keymap.PrevCategory):
		v.cycleTab(-1)
		return v, nil
	case keymap.Matches(key, v.keymap.Add):
		return v, v.addSelected()
	case keymap.Matches(key, v.keymap.Reload):
		return v, v.Reload()
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) handleLoaded(msg messages.CatalogLoaded) {
	if msg.Err != nil {
		// The store keeps its previous contents on failure.
		v.setError(msg.Err)
		return
	}
	v.loaded = true
	v.err = nil

	selected := v.tabs[v.tab].ID
	v.tabs = append([]domain.Category{{Name: allTab}}, v.catalog.Categories()...)
	v.tab = 0
	for i, cat := range v.tabs {
		if cat.ID == selected {
			v.tab = i
		}
	}

	v.applyFilter()
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
}

func (v *View) cycleTab(step int) {
	n := len(v.tabs)
	v.tab = ((v.tab+step)%n + n) % n
	v.input.Reset()
	v.applyFilter()
}

// applyFilter pushes the current input or tab into the catalog.
func (v *View) applyFilter() {
	if v.catalog == nil {
		return
	}
	if query := v.input.Value(); strings.TrimSpace(query) != "" {
		v.catalog.SetFilter(domain.QueryFilter(query))
	} else {
		v.catalog.SetFilter(domain.CategoryFilter(v.tabs[v.tab].ID))
	}
	v.refresh()
}

// refresh rebuilds rows from the catalog's active view.
func (v *View) refresh() {
	if v.catalog == nil {
		return
	}
	names := make(map[string]string, len(v.tabs))
	for _, cat := range v.tabs {
		names[cat.ID] = cat.Name
	}

	services := v.catalog.View()
	rows := make([]list.Row, 0, len(services))
	for _, svc := range services {
		detail := fmt.Sprintf("%d min", svc.Duration)
		if name := names[svc.CategoryID]; name != "" && svc.CategoryID != "" {
			detail = name + " · " + detail
		}
		if svc.Description != "" {
			detail += " · " + svc.Description
		}
		rows = append(rows, list.Row{
			Key:    svc.ID,
			Title:  svc.Name,
			Detail: detail,
			Value:  domain.FormatPrice(svc.Price),
		})
	}
	v.list.SetRows(rows)
	v.statusbar.SetCount(len(rows), "services")
}

func (v *View) addSelected() tea.Cmd {
	row, ok := v.list.SelectedRow()
	if !ok {
		return nil
	}
	if v.cart == nil {
		v.setError(ErrNoCartService)
		return nil
	}
	svc, ok := v.catalog.Service(row.Key)
	if !ok {
		v.setError(fmt.Errorf("service %s is no longer in the catalog", row.Key))
		return nil
	}

	snapshot, err := v.cart.AddItem(svc)
	if err != nil {
		v.setError(err)
		return nil
	}
	v.err = nil
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage(fmt.Sprintf("Added %s (cart %s)", svc.Name, domain.FormatPrice(snapshot.Total)))
	return func() tea.Msg {
		return messages.CartUpdated{Cart: snapshot}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the catalog view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Services"), "", v.renderTabs(), "")

	if v.filtering || v.input.Value() != "" {
		sections = append(sections, v.input.View(), "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderTabs() string {
	active := v.input.Value() == ""
	tabs := make([]string, 0, len(v.tabs))
	for i, cat := range v.tabs {
		if active && i == v.tab {
			tabs = append(tabs, v.styles.ActiveTab.Render(cat.Name))
		} else {
			tabs = append(tabs, v.styles.Tab.Render(cat.Name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// Tab returns the selected tab's category; the first tab has an empty ID.
func (v *View) Tab() domain.Category {
	return v.tabs[v.tab]
}

// Rows returns the rows currently listed.
func (v *View) Rows() []list.Row {
	return v.list.Rows()
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filtering
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset leaves filter mode and shows every service.
func (v *View) Reset() {
	v.filtering = false
	v.input.Blur()
	v.input.Reset()
	v.tab = 0
	v.err = nil
	v.statusbar.Clear()
	if v.loaded {
		v.applyFilter()
	}
}
