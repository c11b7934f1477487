// Package patients provides the incremental patient search view for the TUI.
package patients

import (
	"errors"
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

// ErrNoPatientSearch indicates that no patient search service was provided.
var ErrNoPatientSearch = errors.New("patient search service is required")

// eventBuffer bounds undelivered lookup events; the oldest is dropped first.
const eventBuffer = 16

// View sends every keystroke to the debounced patient search and shows
// the newest delivered results. Failed lookups leave the previous
// results on screen.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.List
	statusbar *status.Bar

	search    driving.PatientSearchService
	events    chan tea.Msg
	listening bool

	sent    string
	shown   string
	lastSeq uint64
	results []domain.PatientRecord

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a patient search view and subscribes it to search.
func NewView(s *styles.Styles, km *keymap.KeyMap, search driving.PatientSearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.PatientsHelp())

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewSearchInput(s, "Patient", "name, phone or email..."),
		list:      list.New(s, "Patients", "No patients"),
		statusbar: bar,
		search:    search,
		events:    make(chan tea.Msg, eventBuffer),
		width:     80,
		height:    24,
	}

	if search != nil {
		search.OnResults(func(r domain.PatientResults) {
			v.post(messages.PatientsFound{Results: r})
		})
		search.OnError(func(query string, err error) {
			v.post(messages.PatientLookupFailed{Query: query, Err: err})
		})
	}
	return v
}

// post queues msg without blocking the search coordinator.
func (v *View) post(msg tea.Msg) {
	for {
		select {
		case v.events <- msg:
			return
		default:
			select {
			case <-v.events:
			default:
			}
		}
	}
}

// listen waits for the next lookup event.
func (v *View) listen() tea.Cmd {
	events := v.events
	return func() tea.Msg {
		return <-events
	}
}

// Init focuses the input and starts listening for lookup events.
func (v *View) Init() tea.Cmd {
	if v.search == nil {
		return func() tea.Msg {
			return messages.ErrorOccurred{Err: ErrNoPatientSearch}
		}
	}
	cmds := []tea.Cmd{v.input.Focus(), v.input.Init()}
	if !v.listening {
		v.listening = true
		cmds = append(cmds, v.listen())
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the patient search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.PatientsFound:
		v.handleResults(msg.Results)
		return v, v.listen()

	case messages.PatientLookupFailed:
		v.setError(msg.Err)
		return v, v.listen()

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case tea.KeyUp:
		v.list.MoveUp()
		return v, nil
	case tea.KeyDown:
		v.list.MoveDown()
		return v, nil
	case tea.KeyEnter:
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)

	text := v.input.Value()
	if text == v.sent || v.search == nil {
		return v, cmd
	}
	v.sent = text
	if err := v.search.Query(text); err != nil {
		v.setError(err)
		return v, cmd
	}
	v.statusbar.SetState(status.StateSearching)
	return v, cmd
}

// handleResults shows r unless a newer lookup is already on screen.
func (v *View) handleResults(r domain.PatientResults) {
	if r.Seq != 0 && r.Seq <= v.lastSeq {
		return
	}
	v.lastSeq = r.Seq
	v.shown = r.Query
	v.results = r.Patients
	v.err = nil

	rows := make([]list.Row, 0, len(r.Patients))
	for _, p := range r.Patients {
		contact := make([]string, 0, 2)
		if p.Phone != "" {
			contact = append(contact, p.Phone)
		}
		if p.Email != "" {
			contact = append(contact, p.Email)
		}
		rows = append(rows, list.Row{
			Key:    p.ID,
			Title:  p.Name,
			Detail: strings.Join(contact, " · "),
		})
	}
	v.list.SetRows(rows)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetCount(len(rows), "patients")
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the patient search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Patients"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	if v.lastSeq > 0 && v.shown != v.input.Value() {
		sections = append(sections, v.styles.Muted.Render("Showing results for \""+v.shown+"\""), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
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

// Query returns the text in the search box.
func (v *View) Query() string {
	return v.input.Value()
}

// Results returns the patients on screen.
func (v *View) Results() []domain.PatientRecord {
	return v.results
}

// Selected returns the highlighted patient, or false when none is listed.
func (v *View) Selected() (domain.PatientRecord, bool) {
	if len(v.results) == 0 {
		return domain.PatientRecord{}, false
	}
	return v.results[v.list.Selected()], true
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
