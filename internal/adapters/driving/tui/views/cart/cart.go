// Package cart provides the cart view for the TUI.
package cart

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/components/list"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/components/status"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/keymap"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/messages"
	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/styles"
	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driving"
)

// ErrNoCartService indicates that no cart service was provided.
var ErrNoCartService = errors.New("cart service is required")

// View shows cart lines and the running total.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.List
	statusbar *status.Bar

	cart     driving.CartService
	snapshot domain.CartSnapshot

	// serviceIDs maps line IDs to service IDs for RemoveAll.
	serviceIDs map[string]string

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new cart view.
func NewView(s *styles.Styles, km *keymap.KeyMap, cart driving.CartService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.CartHelp())

	return &View{
		styles:     s,
		keymap:     km,
		list:       list.New(s, "Selected services", "Cart is empty"),
		statusbar:  bar,
		cart:       cart,
		serviceIDs: make(map[string]string),
		width:      80,
		height:     24,
	}
}

// Init refreshes the view from the cart.
func (v *View) Init() tea.Cmd {
	if v.cart == nil {
		return func() tea.Msg {
			return messages.ErrorOccurred{Err: ErrNoCartService}
		}
	}
	v.show(v.cart.Snapshot())
	return nil
}

// Update handles messages for the cart view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.CartUpdated:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.show(msg.Cart)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	if v.cart == nil {
		return v, nil
	}

	switch {
	case keymap.Matches(key, v.keymap.Remove):
		row, ok := v.list.SelectedRow()
		if !ok {
			return v, nil
		}
		snapshot, _ := v.cart.RemoveLine(row.Key)
		v.statusbar.SetMessage("Removed " + row.Title)
		return v, v.changed(snapshot)

	case keymap.Matches(key, v.keymap.RemoveAll):
		row, ok := v.list.SelectedRow()
		if !ok {
			return v, nil
		}
		snapshot := v.cart.RemoveItem(v.serviceIDs[row.Key])
		v.statusbar.SetMessage("Removed every " + row.Title)
		return v, v.changed(snapshot)

	case keymap.Matches(key, v.keymap.Clear):
		if v.snapshot.IsEmpty() {
			return v, nil
		}
		snapshot := v.cart.Clear()
		v.statusbar.SetMessage("Cart cleared")
		return v, v.changed(snapshot)
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// changed shows snapshot and tells the app the cart moved.
func (v *View) changed(snapshot domain.CartSnapshot) tea.Cmd {
	message := v.statusbar.Message()
	v.show(snapshot)
	v.statusbar.SetMessage(message)
	return func() tea.Msg {
		return messages.CartUpdated{Cart: snapshot}
	}
}

func (v *View) show(snapshot domain.CartSnapshot) {
	v.snapshot = snapshot
	v.err = nil

	rows := make([]list.Row, 0, snapshot.Len())
	clear(v.serviceIDs)
	for _, item := range snapshot.Items {
		v.serviceIDs[item.LineID] = item.Service.ID
		rows = append(rows, list.Row{
			Key:    item.LineID,
			Title:  item.Service.Name,
			Detail: fmt.Sprintf("%d min · added %s", item.Service.Duration, item.AddedAt.Format("15:04")),
			Value:  domain.FormatPrice(item.Service.Price),
		})
	}
	v.list.SetRows(rows)
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
	v.statusbar.SetCount(len(rows), "items")
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the cart view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Cart"), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "")
	sections = append(sections, v.renderTotal(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderTotal() string {
	total := v.styles.Total.Render("Total " + domain.FormatPrice(v.snapshot.Total))
	if v.snapshot.IsEmpty() {
		return total
	}
	return total + v.styles.Muted.Render(fmt.Sprintf("  (%d min)", v.snapshot.Duration))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Snapshot returns the cart as last shown.
func (v *View) Snapshot() domain.CartSnapshot {
	return v.snapshot
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
