// Package reminder runs the recurring day-ahead expiry check. The
// scheduler arms a one-shot timer for today's configured wall-clock time,
// fires the check, then re-arms on a fixed 24 hour period.
package reminder

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bjo163/expiryexpert/internal/domain"
	"github.com/bjo163/expiryexpert/internal/notify"
	"github.com/bjo163/expiryexpert/pkg/metrics"
)

type State string

const (
	StateIdle   State = "idle"
	StateArmed  State = "armed"
	StateFiring State = "firing"
)

// DefaultPeriod is the re-arm interval after the first firing.
const DefaultPeriod = 24 * time.Hour

// Loader supplies the product set snapshot; satisfied by store.Store.
type Loader interface {
	Load() []domain.Product
}

type Config struct {
	// Wall-clock trigger time for the first firing of each session. If
	// that instant is already past at Start, the timer delay is negative
	// and the check fires immediately; there is no roll-over to tomorrow.
	Hour   int
	Minute int
	Second int
	Period time.Duration
	Title  string
	// Body is a format string; %s receives the product name
	Body string
}

type Status struct {
	State        State     `json:"state"`
	NextFire     time.Time `json:"next_fire"`
	LastFired    time.Time `json:"last_fired"`
	SnapshotSize int       `json:"snapshot_size"`
	Notified     int64     `json:"notified"`
}

// Scheduler walks Idle -> Armed -> Firing -> Armed. The product snapshot
// is taken once at Start and reused across every cycle; Restart is the
// way to pick up records added since.
type Scheduler struct {
	cfg      Config
	loader   Loader
	notifier notify.Notifier
	toaster  notify.Toaster
	clock    Clock

	mu        sync.Mutex
	state     State
	snapshot  []domain.Product
	stopCh    chan struct{}
	nextFire  time.Time
	lastFired time.Time
	notified  int64
}

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func New(cfg Config, loader Loader, notifier notify.Notifier, toaster notify.Toaster, opts ...Option) *Scheduler {
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.Title == "" {
		cfg.Title = "Expiry Reminder"
	}
	if cfg.Body == "" {
		cfg.Body = "Product %s is about to expire tomorrow"
	}
	s := &Scheduler{
		cfg:      cfg,
		loader:   loader,
		notifier: notifier,
		toaster:  toaster,
		clock:    SystemClock(),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start snapshots the product set and arms the first firing. Calling
// Start on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	s.snapshot = s.loader.Load()

	now := s.clock.Now()
	target := time.Date(now.Year(), now.Month(), now.Day(),
		s.cfg.Hour, s.cfg.Minute, s.cfg.Second, 0, now.Location())
	delay := target.Sub(now)

	s.nextFire = target
	s.state = StateArmed
	s.stopCh = make(chan struct{})
	go s.run(s.stopCh, delay)

	zap.L().Info("reminder scheduler armed",
		zap.Time("target", target),
		zap.Duration("delay", delay),
		zap.Int("snapshot", len(s.snapshot)))
}

func (s *Scheduler) run(stop chan struct{}, delay time.Duration) {
	timer := s.clock.NewTimer(delay)
	for {
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C():
			s.fire()
			timer = s.clock.NewTimer(s.cfg.Period)
			s.mu.Lock()
			s.nextFire = s.clock.Now().Add(s.cfg.Period)
			s.mu.Unlock()
		}
	}
}

// fire runs one day-ahead expiry check against the session snapshot and
// returns to the state it entered from, so a RunNow on an idle scheduler
// does not report itself armed.
func (s *Scheduler) fire() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	s.mu.Lock()
	prev := s.state
	s.state = StateFiring
	snapshot := s.snapshot
	s.mu.Unlock()

	ref := domain.DateOf(s.clock.Now())
	target := ref.AddDays(1)

	matched := 0
	for _, p := range snapshot {
		if p.ExpiryDate.Equal(target) {
			s.requestNotification(p)
			matched++
		}
	}
	metrics.SetGauge("reminder_last_matched", int64(matched))

	s.mu.Lock()
	s.lastFired = s.clock.Now()
	s.state = prev
	s.mu.Unlock()

	zap.L().Info("reminder check fired",
		zap.String("target_date", target.String()), zap.Int("matched", matched))
}

// requestNotification never raises and never blocks the cycle; denied
// permission or delivery failure falls back to the toast hub.
func (s *Scheduler) requestNotification(p domain.Product) {
	body := fmt.Sprintf(s.cfg.Body, p.Name)

	if s.notifier == nil || s.notifier.RequestPermission() != notify.PermissionGranted {
		zap.L().Warn("notification permission not granted, falling back to toast",
			zap.String("product", p.Name))
		s.toast(body)
		return
	}
	if err := s.notifier.Show(s.cfg.Title, body); err != nil {
		zap.L().Warn("notification delivery failed, falling back to toast",
			zap.String("product", p.Name), zap.Error(err))
		s.toast(body)
		return
	}

	s.mu.Lock()
	s.notified++
	s.mu.Unlock()
	metrics.IncrCounter("reminders_sent", 1)
}

func (s *Scheduler) toast(message string) {
	if s.toaster != nil {
		s.toaster.Show(message)
	}
}

// RunNow executes the expiry check immediately, snapshotting first when
// the scheduler is idle. The state machine is left where it was: idle
// stays idle, armed stays armed.
func (s *Scheduler) RunNow() {
	s.mu.Lock()
	if s.stopCh == nil {
		s.snapshot = s.loader.Load()
	}
	s.mu.Unlock()
	s.fire()
}

// Stop cancels the pending one-shot and the recurring timer. Stopping an
// unarmed scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh == nil {
		return
	}
	close(s.stopCh)
	s.stopCh = nil
	s.state = StateIdle
	zap.L().Info("reminder scheduler stopped")
}

// Restart re-snapshots the product set and re-arms.
func (s *Scheduler) Restart() {
	s.Stop()
	s.Start()
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:        s.state,
		NextFire:     s.nextFire,
		LastFired:    s.lastFired,
		SnapshotSize: len(s.snapshot),
		Notified:     s.notified,
	}
}
