package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mealkiosk/internal/backend"
	"mealkiosk/internal/config"
	"mealkiosk/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier receives state changes that happen outside a user event
// (window poll, notice reset)
type Notifier interface {
	Notify(s domain.Session)
}

// WorkflowOptions tunes timers and the ledger commit policy
type WorkflowOptions struct {
	PollInterval time.Duration
	NoticeDelay  time.Duration
	CommitPolicy config.CommitPolicy
}

// session is the live state of one kiosk; data is guarded by mu
type session struct {
	mu          sync.Mutex
	data        domain.Session
	poller      *poller
	noticeTimer *time.Timer
	ended       bool
}

// Workflow is the kiosk ordering state machine, one session per device
type Workflow struct {
	auth      *AuthService
	employees *EmployeeService
	window    *WindowService
	ledger    *LedgerService
	backend   backend.OrderBackend
	opts      WorkflowOptions
	logger    *zap.Logger

	notifier Notifier

	mu       sync.Mutex
	sessions map[int64]*session
}

// NewWorkflow creates a new workflow
func NewWorkflow(
	auth *AuthService,
	employees *EmployeeService,
	window *WindowService,
	ledger *LedgerService,
	orderBackend backend.OrderBackend,
	opts WorkflowOptions,
	logger *zap.Logger,
) *Workflow {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Minute
	}
	if opts.CommitPolicy == "" {
		opts.CommitPolicy = config.CommitOnUnknown
	}
	return &Workflow{
		auth:      auth,
		employees: employees,
		window:    window,
		ledger:    ledger,
		backend:   orderBackend,
		opts:      opts,
		logger:    logger,
		sessions:  make(map[int64]*session),
	}
}

// SetNotifier registers the UI callback for background state changes
func (w *Workflow) SetNotifier(n Notifier) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notifier = n
}

// Start (re)starts the session of a device from Loading
func (w *Workflow) Start(ctx context.Context, deviceID int64) (domain.Session, error) {
	w.End(deviceID)

	now := w.window.Now()
	s := &session{data: domain.Session{
		ID:        uuid.NewString(),
		DeviceID:  deviceID,
		State:     domain.StateLoading,
		Locale:    w.employees.DefaultLocale(),
		StartedAt: now,
		LastSeen:  now,
	}}

	s.mu.Lock()
	defer s.mu.Unlock()

	device, err := w.auth.LoadDevice(deviceID)
	if err != nil {
		return s.data, err
	}
	if device.Language != "" {
		s.data.Locale = device.Language
	}
	s.data.Window = w.window.Current()

	switch {
	case !device.Verified:
		w.transition(s, domain.StateAuthGate)
	case device.EmployeeID != "":
		id, err := w.employees.Restore(device.EmployeeID)
		if err != nil {
			w.logger.Warn("Dropping stale cached employee id",
				zap.Int64("device_id", deviceID),
				zap.String("employee_id", device.EmployeeID),
				zap.Error(err),
			)
			if s.data.Locale, err = w.employees.Forget(deviceID); err != nil {
				return s.data, err
			}
			w.transition(s, domain.StateIdentifyEmployee)
			break
		}
		s.data.EmployeeID = id.String()
		if device.Language == "" {
			s.data.Locale = w.employees.LocaleFor(id)
		}
		if err := w.resolve(s); err != nil {
			return s.data, err
		}
	default:
		w.transition(s, domain.StateIdentifyEmployee)
	}

	s.poller = startPoller(w.opts.PollInterval, func() { w.tick(s) })

	w.mu.Lock()
	prev := w.sessions[deviceID]
	w.sessions[deviceID] = s
	w.mu.Unlock()

	// a concurrent Start for the same device may have registered first
	if prev != nil {
		w.shutdown(prev)
	}

	return s.data, nil
}

// EnterPIN handles a code typed on the PIN gate
func (w *Workflow) EnterPIN(ctx context.Context, deviceID int64, code string) (domain.Session, error) {
	s, err := w.acquire(deviceID)
	if err != nil {
		return domain.Session{}, err
	}
	defer s.mu.Unlock()

	if s.data.State != domain.StateAuthGate {
		return s.data, w.invalid(s, "enter_pin")
	}

	if err := w.auth.Verify(deviceID, code); err != nil {
		s.data.Input = ""
		if errors.Is(err, domain.ErrInvalidPIN) {
			s.data.Notice = domain.NoticeInvalidPIN
			w.logger.Info("Invalid PIN entered", zap.Int64("device_id", deviceID))
		}
		return s.data, err
	}

	s.data.Notice = domain.NoticeNone
	w.logger.Info("Device verified", zap.Int64("device_id", deviceID))
	w.transition(s, domain.StateIdentifyEmployee)
	return s.data, nil
}

// EnterEmployeeID identifies the employee using the kiosk
func (w *Workflow) EnterEmployeeID(ctx context.Context, deviceID int64, raw string) (domain.Session, error) {
	s, err := w.acquire(deviceID)
	if err != nil {
		return domain.Session{}, err
	}
	defer s.mu.Unlock()

	if s.data.State != domain.StateIdentifyEmployee {
		return s.data, w.invalid(s, "enter_employee_id")
	}

	s.data.Input = raw
	s.data.Notice = domain.NoticeNone

	id, err := w.employees.Identify(ctx, raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFormat) {
			s.data.Notice = domain.NoticeInvalidFormat
		} else {
			s.data.Notice = domain.NoticeEmployeeNotFound
		}
		w.logger.Info("Employee id rejected",
			zap.Int64("device_id", deviceID),
			zap.String("input", raw),
			zap.Error(err),
		)
		w.scheduleNoticeReset(s)
		return s.data, err
	}

	locale, err := w.employees.Remember(deviceID, id)
	if err != nil {
		return s.data, err
	}

	w.stopNoticeTimer(s)
	s.data.EmployeeID = id.String()
	s.data.Locale = locale
	s.data.Input = ""
	s.data.Window = w.window.Current()

	return s.data, w.resolve(s)
}

// ToggleVegetarian flips the vegetarian modifier while choosing
func (w *Workflow) ToggleVegetarian(ctx context.Context, deviceID int64) (domain.Session, error) {
	return w.updateDraft(deviceID, "toggle_vegetarian", func(d *domain.Draft) { d.Vegetarian = !d.Vegetarian })
}

// ToggleSetAsDefault flips the set-as-default hint while choosing
func (w *Workflow) ToggleSetAsDefault(ctx context.Context, deviceID int64) (domain.Session, error) {
	return w.updateDraft(deviceID, "toggle_set_as_default", func(d *domain.Draft) { d.SetAsDefault = !d.SetAsDefault })
}

func (w *Workflow) updateDraft(deviceID int64, event string, apply func(*domain.Draft)) (domain.Session, error) {
	s, err := w.acquire(deviceID)
	if err != nil {
		return domain.Session{}, err
	}
	defer s.mu.Unlock()

	if s.data.State != domain.StateChoosingOrder || s.data.Submitting {
		return s.data, w.invalid(s, event)
	}
	apply(&s.data.Draft)
	return s.data, nil
}

// Submit sends the choice to the backend and records it in the ledger.
// A second call while a submission is in flight is dropped.
func (w *Workflow) Submit(ctx context.Context, deviceID int64, choice domain.Choice) (domain.Session, error) {
	s, err := w.acquire(deviceID)
	if err != nil {
		return domain.Session{}, err
	}

	if s.data.Submitting {
		w.logger.Info("Dropping submission while another is in flight", zap.Int64("device_id", deviceID))
		defer s.mu.Unlock()
		return s.data, domain.ErrSubmissionInProgress
	}
	if s.data.State != domain.StateChoosingOrder {
		defer s.mu.Unlock()
		return s.data, w.invalid(s, "submit")
	}
	if !choice.IsValid() {
		defer s.mu.Unlock()
		s.data.Notice = domain.NoticeSubmitFailed
		return s.data, fmt.Errorf("unknown choice %q", choice)
	}

	s.data.Window = w.window.Current()
	if !s.data.Window.Open {
		defer s.mu.Unlock()
		w.transition(s, domain.StateOutOfWindow)
		return s.data, domain.ErrWindowClosed
	}

	target := s.data.Window.TargetDate
	existing, err := w.ledger.Has(s.data.EmployeeID, target)
	if err != nil {
		defer s.mu.Unlock()
		s.data.Notice = domain.NoticeSubmitFailed
		return s.data, err
	}
	if existing != nil {
		defer s.mu.Unlock()
		s.data.Choice = existing.Choice
		w.transition(s, domain.StateAlreadySubmitted)
		return s.data, fmt.Errorf("%w: %s on %s", domain.ErrAlreadyExists, existing.EmployeeID, target)
	}

	sub := domain.NewSubmission(s.data.EmployeeID, target, choice, s.data.Draft)
	s.data.Submitting = true
	s.data.Notice = domain.NoticeNone
	s.mu.Unlock()

	outcome, sendErr := w.backend.SubmitOrder(ctx, backend.NewOrderRequest(sub))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Submitting = false
	s.data.LastSeen = w.window.Now()

	logger := w.logger.With(
		zap.Int64("device_id", deviceID),
		zap.String("employee_id", sub.EmployeeID),
		zap.String("target_date", target.String()),
		zap.String("outcome", string(outcome)),
	)

	switch {
	case sendErr != nil:
		logger.Error("Order submission failed", zap.Error(sendErr))
		s.data.Notice = domain.NoticeSubmitFailed
		return s.data, sendErr
	case outcome == backend.Rejected:
		logger.Warn("Order rejected by backend")
		s.data.Notice = domain.NoticeSubmitFailed
		return s.data, domain.ErrOrderRejected
	case outcome == backend.Unknown && w.opts.CommitPolicy == config.RequireAcknowledged:
		logger.Warn("Order not acknowledged, ledger left untouched")
		s.data.Notice = domain.NoticeSubmitFailed
		return s.data, domain.ErrUnconfirmed
	}

	if outcome == backend.Unknown {
		logger.Warn("Committing unacknowledged order")
	}

	if err := w.ledger.Record(sub); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			if stored, getErr := w.ledger.Has(sub.EmployeeID, target); getErr == nil && stored != nil {
				s.data.Choice = stored.Choice
			}
			w.transition(s, domain.StateAlreadySubmitted)
			return s.data, err
		}
		logger.Error("Failed to record submission", zap.Error(err))
		s.data.Notice = domain.NoticeSubmitFailed
		return s.data, err
	}

	s.data.Choice = choice
	w.transition(s, domain.StateSubmitted)
	return s.data, nil
}

// SelectAgain returns from a display state to ChoosingOrder
func (w *Workflow) SelectAgain(ctx context.Context, deviceID int64) (domain.Session, error) {
	s, err := w.acquire(deviceID)
	if err != nil {
		return domain.Session{}, err
	}
	defer s.mu.Unlock()

	if s.data.State != domain.StateSubmitted && s.data.State != domain.StateAlreadySubmitted {
		return s.data, w.invalid(s, "select_again")
	}

	s.data.Window = w.window.Current()
	s.data.Notice = domain.NoticeNone
	if !s.data.Window.Open {
		w.transition(s, domain.StateOutOfWindow)
		return s.data, nil
	}

	s.data.Draft = domain.Draft{}
	w.transition(s, domain.StateChoosingOrder)
	return s.data, nil
}

// ChangeEmployee clears the active identity; the ledger is untouched
func (w *Workflow) ChangeEmployee(ctx context.Context, deviceID int64) (domain.Session, error) {
	s, err := w.acquire(deviceID)
	if err != nil {
		return domain.Session{}, err
	}
	defer s.mu.Unlock()

	if s.data.State == domain.StateLoading || s.data.State == domain.StateAuthGate {
		return s.data, w.invalid(s, "change_employee")
	}
	if s.data.Submitting {
		return s.data, domain.ErrSubmissionInProgress
	}

	locale, err := w.employees.Forget(deviceID)
	if err != nil {
		return s.data, err
	}

	w.stopNoticeTimer(s)
	s.data.EmployeeID = ""
	s.data.Input = ""
	s.data.Notice = domain.NoticeNone
	s.data.Draft = domain.Draft{}
	s.data.Choice = ""
	s.data.Locale = locale
	w.transition(s, domain.StateIdentifyEmployee)
	return s.data, nil
}

// Snapshot returns a copy of the device's session
func (w *Workflow) Snapshot(deviceID int64) (domain.Session, bool) {
	s := w.lookup(deviceID)
	if s == nil {
		return domain.Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, true
}

// End tears down a session, stopping its poller and timers
func (w *Workflow) End(deviceID int64) {
	w.mu.Lock()
	s, ok := w.sessions[deviceID]
	delete(w.sessions, deviceID)
	w.mu.Unlock()

	if ok {
		w.shutdown(s)
	}
}

// endIfCurrent ends s only if it is still the device's registered session
func (w *Workflow) endIfCurrent(deviceID int64, s *session) bool {
	w.mu.Lock()
	if w.sessions[deviceID] != s {
		w.mu.Unlock()
		return false
	}
	delete(w.sessions, deviceID)
	w.mu.Unlock()

	w.shutdown(s)
	return true
}

// shutdown stops a session's poller and timers; s.mu must not be held
func (w *Workflow) shutdown(s *session) {
	s.mu.Lock()
	s.ended = true
	w.stopNoticeTimer(s)
	p := s.poller
	s.poller = nil
	deviceID, sessionID := s.data.DeviceID, s.data.ID
	s.mu.Unlock()

	if p != nil {
		p.stop()
	}
	w.logger.Info("Session ended", zap.Int64("device_id", deviceID), zap.String("session_id", sessionID))
}

// EndAll tears down every session
func (w *Workflow) EndAll() {
	for _, id := range w.deviceIDs() {
		w.End(id)
	}
}

// ReapIdle ends sessions not used for longer than maxIdle and returns how many were ended
func (w *Workflow) ReapIdle(maxIdle time.Duration) int {
	cutoff := w.window.Now().Add(-maxIdle)
	reaped := 0

	for _, id := range w.deviceIDs() {
		s := w.lookup(id)
		if s == nil {
			continue
		}
		s.mu.Lock()
		idle := s.data.LastSeen.Before(cutoff) && !s.data.Submitting
		s.mu.Unlock()

		if idle && w.endIfCurrent(id, s) {
			reaped++
		}
	}
	return reaped
}

// ActiveSessions returns the number of live sessions
func (w *Workflow) ActiveSessions() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sessions)
}

// tick re-evaluates the window and moves post-identification states in or out of OutOfWindow
func (w *Workflow) tick(s *session) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}

	prev := s.data.Window
	prevState := s.data.State
	s.data.Window = w.window.Current()

	if !s.data.Submitting && s.data.State.IsPostIdentification() {
		switch {
		case !s.data.Window.Open:
			if s.data.State != domain.StateOutOfWindow {
				w.transition(s, domain.StateOutOfWindow)
			}
		case s.data.State == domain.StateOutOfWindow || s.data.Window.TargetDate != prev.TargetDate:
			if err := w.resolve(s); err != nil {
				w.logger.Error("Failed to resolve state after window change",
					zap.Int64("device_id", s.data.DeviceID),
					zap.Error(err),
				)
			}
		}
	}

	// window changes only matter once an employee is on screen
	changed := s.data.State != prevState ||
		(s.data.Window != prev && s.data.State.IsPostIdentification())
	snap := s.data
	s.mu.Unlock()

	if changed {
		w.notify(snap)
	}
}

// resolve picks the post-identification state for the current window; s.mu must be held
func (w *Workflow) resolve(s *session) error {
	if !s.data.Window.Open {
		w.transition(s, domain.StateOutOfWindow)
		return nil
	}

	sub, err := w.ledger.Has(s.data.EmployeeID, s.data.Window.TargetDate)
	if err != nil {
		return err
	}
	if sub != nil {
		s.data.Choice = sub.Choice
		w.transition(s, domain.StateAlreadySubmitted)
		return nil
	}

	s.data.Choice = ""
	s.data.Draft = domain.Draft{}
	w.transition(s, domain.StateChoosingOrder)
	return nil
}

func (w *Workflow) transition(s *session, to domain.WorkflowState) {
	from := s.data.State
	s.data.State = to
	if from == to {
		return
	}
	w.logger.Info("State transition",
		zap.Int64("device_id", s.data.DeviceID),
		zap.String("employee_id", s.data.EmployeeID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("target_date", s.data.Window.TargetDate.String()),
	)
}

func (w *Workflow) invalid(s *session, event string) error {
	w.logger.Debug("Event ignored",
		zap.Int64("device_id", s.data.DeviceID),
		zap.String("event", event),
		zap.String("state", string(s.data.State)),
	)
	return fmt.Errorf("%w: %s in %s", domain.ErrInvalidTransition, event, s.data.State)
}

// scheduleNoticeReset clears the rejected input after the notice delay; s.mu must be held
func (w *Workflow) scheduleNoticeReset(s *session) {
	w.stopNoticeTimer(s)
	s.noticeTimer = time.AfterFunc(w.opts.NoticeDelay, func() {
		s.mu.Lock()
		if s.ended || s.data.Notice == domain.NoticeNone {
			s.mu.Unlock()
			return
		}
		s.data.Input = ""
		s.data.Notice = domain.NoticeNone
		s.noticeTimer = nil
		snap := s.data
		s.mu.Unlock()

		w.notify(snap)
	})
}

func (w *Workflow) stopNoticeTimer(s *session) {
	if s.noticeTimer != nil {
		s.noticeTimer.Stop()
		s.noticeTimer = nil
	}
}

func (w *Workflow) notify(snap domain.Session) {
	w.mu.Lock()
	n := w.notifier
	w.mu.Unlock()

	if n != nil {
		n.Notify(snap)
	}
}

// acquire returns the device's session with s.mu held
func (w *Workflow) acquire(deviceID int64) (*session, error) {
	s := w.lookup(deviceID)
	if s == nil {
		return nil, fmt.Errorf("%w: device %d", domain.ErrNoSession, deviceID)
	}
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: device %d", domain.ErrNoSession, deviceID)
	}
	s.data.LastSeen = w.window.Now()
	return s, nil
}

func (w *Workflow) lookup(deviceID int64) *session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessions[deviceID]
}

func (w *Workflow) deviceIDs() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]int64, 0, len(w.sessions))
	for id := range w.sessions {
		ids = append(ids, id)
	}
	return ids
}
