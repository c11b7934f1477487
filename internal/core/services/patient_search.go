package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driven"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driving"
	"github.com/clinicdesk/clinicdesk/internal/logger"
)

// Ensure PatientSearch implements the interface.
var _ driving.PatientSearchService = (*PatientSearch)(nil)

var errNoDirectory = fmt.Errorf("%w: patient directory not configured", domain.ErrNotFound)

// PatientSearch coalesces bursts of queries into a single lookup.
//
// At most one lookup is scheduled at any time: Query stops the pending
// timer before arming a new one. Lookups already dispatched are not
// cancelled and are delivered in the order they complete.
type PatientSearch struct {
	directory driven.PatientDirectory
	clock     clock.Clock
	quiet     time.Duration
	ctx       context.Context

	mu         sync.Mutex
	timer      clock.Timer
	pending    string
	hasPending bool
	gen        uint64
	seq        uint64
	closed     bool
	resultSubs []func(domain.PatientResults)
	errorSubs  []func(string, error)

	// inflight counts dispatched lookups not yet delivered; idle is
	// signalled on mu when it drops to zero.
	inflight int
	idle     *sync.Cond

	// deliverMu keeps subscriber callbacks from running concurrently.
	deliverMu sync.Mutex
}

// NewPatientSearch creates a coordinator. A nil clock uses the wall clock.
func NewPatientSearch(directory driven.PatientDirectory, clk clock.Clock, quiet time.Duration) *PatientSearch {
	if clk == nil {
		clk = clock.WallClock
	}
	if quiet < 0 {
		quiet = 0
	}
	p := &PatientSearch{
		directory: directory,
		clock:     clk,
		quiet:     quiet,
		ctx:       context.Background(),
	}
	p.idle = sync.NewCond(&p.mu)
	return p
}

// WithContext sets the context passed to debounced lookups.
func (p *PatientSearch) WithContext(ctx context.Context) *PatientSearch {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctx = ctx
	return p
}

// QuietPeriod returns the debounce interval.
func (p *PatientSearch) QuietPeriod() time.Duration {
	return p.quiet
}

// OnResults subscribes fn to delivered lookups.
func (p *PatientSearch) OnResults(fn func(domain.PatientResults)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resultSubs = append(p.resultSubs, fn)
}

// OnError subscribes fn to failed lookups.
func (p *PatientSearch) OnError(fn func(query string, err error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errorSubs = append(p.errorSubs, fn)
}

// Query discards any scheduled lookup and schedules text to be looked
// up once the quiet period passes without another Query. Empty text is
// scheduled like any other query.
func (p *PatientSearch) Query(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return domain.ErrClosed
	}
	if p.timer != nil {
		p.timer.Stop()
		logger.Debug("Patient search: superseded %q", p.pending)
	}

	p.gen++
	gen := p.gen
	p.pending = text
	p.hasPending = true
	p.timer = p.clock.AfterFunc(p.quiet, func() { p.fire(gen, text) })
	return nil
}

// Pending returns the scheduled query, if any.
func (p *PatientSearch) Pending() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending, p.hasPending
}

// InFlight returns the number of dispatched lookups not yet delivered.
func (p *PatientSearch) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inflight
}

// Wait blocks until no dispatched lookup is waiting to be delivered.
// A timer expiring while Wait returns may dispatch another lookup.
func (p *PatientSearch) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.inflight > 0 {
		p.idle.Wait()
	}
}

// Close cancels the scheduled lookup and rejects further queries.
// In-flight lookups still complete and are delivered.
func (p *PatientSearch) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.pending = ""
	p.hasPending = false
	p.closed = true
}

// LookupNow looks text up immediately without touching the schedule.
func (p *PatientSearch) LookupNow(ctx context.Context, text string) ([]domain.PatientRecord, error) {
	patients, err := p.lookup(ctx, text)
	if err != nil {
		return nil, err
	}
	return patients, nil
}

// fire runs on the clock's goroutine when a timer expires.
func (p *PatientSearch) fire(gen uint64, text string) {
	p.mu.Lock()
	// A newer Query or Close may have won the race with this timer.
	if p.closed || gen != p.gen || !p.hasPending {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.pending = ""
	p.hasPending = false
	p.seq++
	seq := p.seq
	ctx := p.ctx
	p.inflight++
	p.mu.Unlock()

	defer p.done()

	logger.Debug("Patient search: dispatch #%d %q", seq, text)
	patients, err := p.lookup(ctx, text)
	p.deliver(text, seq, patients, err)
}

// done marks one dispatched lookup as delivered.
func (p *PatientSearch) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight--
	if p.inflight == 0 {
		p.idle.Broadcast()
	}
}

func (p *PatientSearch) lookup(ctx context.Context, text string) ([]domain.PatientRecord, error) {
	if p.directory == nil {
		return nil, errNoDirectory
	}
	patients, err := p.directory.LookupPatients(ctx, text)
	if err != nil {
		if !errors.Is(err, domain.ErrNetwork) {
			err = &domain.NetworkError{Op: "lookup patients", Err: err}
		}
		return nil, err
	}
	if patients == nil {
		patients = []domain.PatientRecord{}
	}
	return patients, nil
}

func (p *PatientSearch) deliver(query string, seq uint64, patients []domain.PatientRecord, err error) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	resultSubs := append([]func(domain.PatientResults){}, p.resultSubs...)
	errorSubs := append([]func(string, error){}, p.errorSubs...)
	p.mu.Unlock()

	if err != nil {
		if len(errorSubs) == 0 {
			logger.Error("patient search %q: %v", query, err)
			return
		}
		logger.Warn("Patient search #%d %q failed: %v", seq, query, err)
		for _, fn := range errorSubs {
			fn(query, err)
		}
		return
	}

	logger.Debug("Patient search: deliver #%d %q (%d patients)", seq, query, len(patients))
	results := domain.PatientResults{Query: query, Patients: patients, Seq: seq}
	for _, fn := range resultSubs {
		fn(results)
	}
}
