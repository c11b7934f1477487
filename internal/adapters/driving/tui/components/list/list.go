// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui/styles"
)

// Row is one line in a List. Key identifies the underlying record.
type Row struct {
	Key    string
	Title  string
	Detail string
	Value  string
}

// List displays rows with a movable selection.
type List struct {
	title    string
	empty    string
	rows     []Row
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// New creates a list. empty is shown when there are no rows.
func New(s *styles.Styles, title, empty string) *List {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &List{
		title:  title,
		empty:  empty,
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *List) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.rows) > 0 {
				l.selected = len(l.rows) - 1
			}
		}
	}
	return l, nil
}

// View renders the list.
func (l *List) View() string {
	if len(l.rows) == 0 {
		return l.styles.Muted.Render(l.empty)
	}

	lines := make([]string, 0, len(l.rows)+2)
	if l.title != "" {
		lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.title, len(l.rows))), "")
	}

	// Each row takes two lines.
	visible := (l.height - 2) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.rows) {
		end = len(l.rows)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(i, l.rows[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *List) renderRow(index int, row Row) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	valueWidth := lipgloss.Width(row.Value)
	titleWidth := l.width - valueWidth - 6
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := truncate(row.Title, titleWidth)

	var titleLine string
	if index == l.selected {
		titleLine = l.styles.Selected.Render(fmt.Sprintf("%s%-*s", indicator, titleWidth, title)) +
			"  " + l.styles.Price.Render(row.Value)
	} else {
		titleLine = l.styles.Normal.Render(fmt.Sprintf("%s%-*s", indicator, titleWidth, title)) +
			"  " + l.styles.Price.Render(row.Value)
	}

	detail := truncate(row.Detail, l.width-6)
	return titleLine + "\n" + l.styles.Muted.Render("    "+detail)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// SetRows replaces the rows, keeping the selection in range.
func (l *List) SetRows(rows []Row) {
	l.rows = rows
	if l.selected >= len(rows) {
		l.selected = len(rows) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Rows returns the current rows.
func (l *List) Rows() []Row {
	return l.rows
}

// Selected returns the index of the selected row.
func (l *List) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *List) SetSelected(index int) {
	if index >= 0 && index < len(l.rows) {
		l.selected = index
	}
}

// SelectedRow returns the selected row, or false when the list is empty.
func (l *List) SelectedRow() (Row, bool) {
	if len(l.rows) == 0 {
		return Row{}, false
	}
	return l.rows[l.selected], true
}

// MoveUp moves selection up.
func (l *List) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *List) MoveDown() {
	if l.selected < len(l.rows)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *List) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of rows.
func (l *List) Count() int {
	return len(l.rows)
}

// IsEmpty returns whether the list is empty.
func (l *List) IsEmpty() bool {
	return len(l.rows) == 0
}
