// Package alertstore holds the alert rules of the selected city and drives
// list, create and delete requests against the alerts service.
//
// The store is not safe for concurrent use. Every method must be called from
// one goroutine, normally the bubbletea event loop: operations return a
// tea.Cmd that performs the request off-loop, and the message that command
// produces must be passed back to Update.
package alertstore

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/alexisbeaulieu97/weatherlens/internal/alert"
	"github.com/alexisbeaulieu97/weatherlens/internal/logger"
	wlerrors "github.com/alexisbeaulieu97/weatherlens/pkg/errors"
)

// DefaultFlashDuration is how long SubmitSucceeded is shown after a create.
const DefaultFlashDuration = 2 * time.Second

var (
	// ErrBusy rejects a submit while another one is in flight.
	ErrBusy = errors.New("an alert is already being created")
	// ErrNoCity rejects a submit before a city is selected.
	ErrNoCity = errors.New("no city selected")
)

// Service is the remote alerts API. *alertapi.Client implements it.
type Service interface {
	List(ctx context.Context, city string) ([]alert.Rule, error)
	Create(ctx context.Context, draft alert.Draft) (alert.Rule, error)
	Delete(ctx context.Context, city, id string) error
}

// Option customises a Store.
type Option func(*Store)

// WithClock sets the clock driving the success flash.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithFlashDuration sets how long SubmitSucceeded lasts. Zero ends the flash
// as soon as it starts.
func WithFlashDuration(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.flash = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithContext sets the parent context of every request.
func WithContext(ctx context.Context) Option {
	return func(s *Store) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// Store owns the rule list of the current city.
type Store struct {
	svc   Service
	clock clockwork.Clock
	flash time.Duration
	log   *logger.Logger
	ctx   context.Context

	city    string
	seq     uint64
	phase   Phase
	message string
	rules   []alert.Rule

	submitting   bool
	pendingFlash bool
	flashToken   uint64
	settled      settled
	// holdCreateErr keeps Error{CreateFailedMessage} over list results
	// already in flight when the create failed.
	holdCreateErr bool

	lastFetchErr  error
	lastCreateErr error
	lastDeleteErr error
}

// New creates an idle store backed by svc.
func New(svc Service, opts ...Option) *Store {
	s := &Store{
		svc:   svc,
		clock: clockwork.NewRealClock(),
		flash: DefaultFlashDuration,
		ctx:   context.Background(),
		phase: Idle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// City returns the selected city, or "" when none is selected.
func (s *Store) City() string { return s.city }

// Phase returns the current phase.
func (s *Store) Phase() Phase { return s.phase }

// Message returns the text accompanying ReadyEmpty, SubmitSucceeded or Error.
func (s *Store) Message() string { return s.message }

// Submitting reports whether a create request is outstanding.
func (s *Store) Submitting() bool { return s.submitting }

// LastFetchError returns the cause behind the Error phase of the latest list,
// or nil when it succeeded.
func (s *Store) LastFetchError() error { return s.lastFetchErr }

// LastCreateError returns the error of the most recent create, if it failed.
func (s *Store) LastCreateError() error { return s.lastCreateErr }

// LastDeleteError returns the error of the most recent delete, if it failed.
// Delete failures never change the phase.
func (s *Store) LastDeleteError() error { return s.lastDeleteErr }

// Rules returns a copy of the current rule list.
func (s *Store) Rules() []alert.Rule {
	if s.rules == nil {
		return nil
	}
	out := make([]alert.Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// SelectCity switches to city, drops the previous city's rules and fetches.
func (s *Store) SelectCity(city string) tea.Cmd {
	s.city = city
	s.rules = nil
	if city == "" {
		s.seq++
		s.holdCreateErr = false
		s.setPhase(Idle, "")
		return nil
	}
	return s.issueList()
}

// Refresh re-fetches the current city, keeping the shown rules until the
// result arrives.
func (s *Store) Refresh() tea.Cmd {
	if s.city == "" {
		return nil
	}
	return s.issueList()
}

// Submit creates draft for the current city. The draft's own CityName is
// ignored.
func (s *Store) Submit(draft alert.Draft) (tea.Cmd, error) {
	if s.submitting {
		return nil, ErrBusy
	}
	if s.city == "" {
		return nil, ErrNoCity
	}

	draft = draft.WithCity(s.city)
	if err := alert.ValidateDraft(draft); err != nil {
		return nil, err
	}

	s.submitting = true
	s.holdCreateErr = false
	s.lastCreateErr = nil
	s.setPhase(Submitting, "")

	svc, ctx, city := s.svc, s.ctx, s.city
	return func() tea.Msg {
		rule, err := svc.Create(ctx, draft)
		return CreateResultMsg{City: city, Rule: rule, Err: err}
	}, nil
}

// Delete removes rule id from the current city and refreshes afterwards,
// whether or not the delete succeeded.
func (s *Store) Delete(id string) tea.Cmd {
	if s.city == "" || id == "" {
		return nil
	}

	svc, ctx, city := s.svc, s.ctx, s.city
	return func() tea.Msg {
		err := svc.Delete(ctx, city, id)
		return DeleteResultMsg{City: city, ID: id, Err: err}
	}
}

// Update applies a result message. Messages the store does not own are ignored.
func (s *Store) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ListResultMsg:
		return s.handleList(msg)
	case CreateResultMsg:
		return s.handleCreate(msg)
	case DeleteResultMsg:
		return s.handleDelete(msg)
	case flashExpiredMsg:
		s.handleFlashExpired(msg)
	}
	return nil
}

// Drive runs cmd and every follow-up command synchronously, feeding each
// result back through Update. It is for callers without an event loop.
func (s *Store) Drive(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		cmd = s.Update(msg)
	}
}

func (s *Store) issueList() tea.Cmd {
	s.seq++
	seq, city := s.seq, s.city
	s.holdCreateErr = false
	if !s.submitting {
		s.setPhase(Loading, "")
	}

	svc, ctx := s.svc, s.ctx
	return func() tea.Msg {
		rules, err := svc.List(ctx, city)
		return ListResultMsg{City: city, Seq: seq, Rules: rules, Err: err}
	}
}

func (s *Store) handleList(msg ListResultMsg) tea.Cmd {
	if msg.Seq != s.seq || msg.City != s.city {
		s.log.WithFields(map[string]any{
			"city":        msg.City,
			"seq":         msg.Seq,
			"current":     s.city,
			"current_seq": s.seq,
		}).Debug("discarding stale alert list")
		return nil
	}

	s.lastFetchErr = nil
	switch {
	case msg.Err != nil && !wlerrors.IsSyncKind(msg.Err, wlerrors.NotFound):
		s.log.Rule(msg.City, "").Error(msg.Err, "fetch alerts failed")
		s.rules = nil
		s.lastFetchErr = msg.Err
		s.setPhase(Error, FetchFailedMessage)
	case len(msg.Rules) == 0:
		s.rules = []alert.Rule{}
		s.setPhase(ReadyEmpty, EmptyMessage(msg.City))
	default:
		s.rules = msg.Rules
		s.setPhase(Ready, "")
	}
	s.settled = settled{phase: s.phase, message: s.message}

	// The list refreshes the rules underneath an outstanding or failed create
	// without replacing its phase.
	switch {
	case s.submitting:
		s.setPhase(Submitting, "")
		return nil
	case s.holdCreateErr:
		s.setPhase(Error, CreateFailedMessage)
		return nil
	}

	if !s.pendingFlash {
		return nil
	}
	s.pendingFlash = false
	s.flashToken++
	s.setPhase(SubmitSucceeded, CreatedMessage)
	return s.flashTimer(s.flashToken)
}

func (s *Store) handleCreate(msg CreateResultMsg) tea.Cmd {
	s.submitting = false

	if msg.Err != nil {
		s.log.Rule(msg.City, "").Error(msg.Err, "create alert failed")
		s.lastCreateErr = msg.Err
		s.holdCreateErr = true
		s.setPhase(Error, CreateFailedMessage)
		return nil
	}

	s.log.Rule(msg.City, msg.Rule.ID).Info("alert created")
	if s.city == "" {
		return nil
	}
	s.pendingFlash = true
	return s.issueList()
}

func (s *Store) handleDelete(msg DeleteResultMsg) tea.Cmd {
	log := s.log.Rule(msg.City, msg.ID)
	if msg.Err != nil {
		log.Error(msg.Err, "delete alert failed")
		s.lastDeleteErr = msg.Err
	} else {
		log.Info("alert deleted")
		s.lastDeleteErr = nil
	}
	return s.Refresh()
}

func (s *Store) handleFlashExpired(msg flashExpiredMsg) {
	if msg.token != s.flashToken || s.phase != SubmitSucceeded {
		return
	}
	s.setPhase(s.settled.phase, s.settled.message)
}

func (s *Store) flashTimer(token uint64) tea.Cmd {
	clock, d := s.clock, s.flash
	return func() tea.Msg {
		if d > 0 {
			<-clock.After(d)
		}
		return flashExpiredMsg{token: token}
	}
}

func (s *Store) setPhase(phase Phase, message string) {
	s.phase = phase
	s.message = message
}
