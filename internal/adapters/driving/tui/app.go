package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/keymap"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/messages"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/styles"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/views/cart"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/views/catalog"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/views/menu"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/views/patients"
	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	catalogView  *catalog.View
	cartView     *cart.View
	patientsView *patients.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s),
		catalogView:  catalog.NewView(s, km, ports.Catalog, ports.Cart),
		cartView:     cart.NewView(s, km, ports.Cart),
		patientsView: patients.NewView(s, km, ports.Patients),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.catalogView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.updateCartBadge(a.ports.Cart.Snapshot())
	return tea.Batch(
		tea.SetWindowTitle("clinicdesk"),
		a.waitForCatalogChange(),
	)
}

// waitForCatalogChange turns the next catalog change into a message.
func (a *App) waitForCatalogChange() tea.Cmd {
	changes := a.ports.CatalogChanges
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return messages.CatalogChanged{}
	}
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewCatalog:
			a.catalogView, cmd = a.catalogView.Update(msg)
		case messages.ViewCart:
			a.cartView, cmd = a.cartView.Update(msg)
		case messages.ViewPatients:
			a.patientsView, cmd = a.patientsView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "q" {
				a.currentView = messages.ViewMenu
			}
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewCatalog:
			return a, a.catalogView.Init()
		case messages.ViewCart:
			return a, a.cartView.Init()
		case messages.ViewPatients:
			return a, a.patientsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
			// No initialisation needed
		}
		return a, nil

	case messages.CatalogLoaded:
		a.catalogView, cmd = a.catalogView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case messages.CatalogChanged:
		// Reload in the background and keep waiting for changes.
		return a, tea.Batch(a.catalogView.Reload(), a.waitForCatalogChange())

	case messages.CartUpdated:
		if msg.Err != nil {
			a.err = msg.Err
		} else {
			a.updateCartBadge(msg.Cart)
		}
		a.catalogView, _ = a.catalogView.Update(msg)
		a.cartView, cmd = a.cartView.Update(msg)
		return a, cmd

	case messages.PatientsFound, messages.PatientLookupFailed:
		// Lookups complete in the background whichever view is active.
		a.patientsView, cmd = a.patientsView.Update(msg)
		if failed, ok := msg.(messages.PatientLookupFailed); ok {
			a.err = failed.Err
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewCatalog:
			a.catalogView, cmd = a.catalogView.Update(msg)
		case messages.ViewCart:
			a.cartView, cmd = a.cartView.Update(msg)
		case messages.ViewPatients:
			a.patientsView, cmd = a.patientsView.Update(msg)
		case messages.ViewMenu, messages.ViewHelp:
			// Errors are kept on the app only
		}
		return a, cmd

	case messages.Quit:
		a.ports.Patients.Close()
		return a, tea.Quit
	}

	// Forward other messages (cursor blink etc.) to the active view.
	switch a.currentView {
	case messages.ViewCatalog:
		a.catalogView, cmd = a.catalogView.Update(msg)
	case messages.ViewPatients:
		a.patientsView, cmd = a.patientsView.Update(msg)
	case messages.ViewMenu, messages.ViewCart, messages.ViewHelp:
		// Nothing else to forward
	}
	return a, cmd
}

func (a *App) updateCartBadge(snapshot domain.CartSnapshot) {
	if snapshot.IsEmpty() {
		a.menuView.SetBadge(messages.ViewCart, "")
		return
	}
	a.menuView.SetBadge(messages.ViewCart,
		fmt.Sprintf("%d items, %s", snapshot.Len(), domain.FormatPrice(snapshot.Total)))
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewCatalog:
		return a.catalogView.View()
	case messages.ViewCart:
		return a.cartView.View()
	case messages.ViewPatients:
		return a.patientsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Services:
  tab         Next category
  shift+tab   Previous category
  /           Filter by name or description
  a, enter    Add to cart
  r           Reload catalog

Cart:
  d           Remove selected line
  D           Remove every line of the selected service
  c           Clear cart

Patients:
  (type)      Search by name, phone or email
  ↑/↓         Navigate results

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.catalogView.SetDimensions(width, height)
	a.cartView.SetDimensions(width, height)
	a.patientsView.SetDimensions(width, height)
}
