package reminder

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjo163/expiryexpert/internal/domain"
	"github.com/bjo163/expiryexpert/internal/notify"
)

type fakeTimer struct {
	ch chan time.Time
}

func (f *fakeTimer) C() <-chan time.Time { return f.ch }
func (f *fakeTimer) Stop() bool          { return true }

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	delays []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{ch: make(chan time.Time, 1)}
	c.timers = append(c.timers, t)
	c.delays = append(c.delays, d)
	return t
}

func (c *fakeClock) timerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *fakeClock) fireTimer(i int) {
	c.mu.Lock()
	t := c.timers[i]
	now := c.now
	c.mu.Unlock()
	t.ch <- now
}

type fakeLoader struct {
	mu       sync.Mutex
	products []domain.Product
}

func (l *fakeLoader) Load() []domain.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Product, len(l.products))
	copy(out, l.products)
	return out
}

func (l *fakeLoader) set(products []domain.Product) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.products = products
}

type fakeNotifier struct {
	mu         sync.Mutex
	permission notify.Permission
	showErr    error
	shown      []string
}

func (n *fakeNotifier) RequestPermission() notify.Permission { return n.permission }

func (n *fakeNotifier) Show(title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.showErr != nil {
		return n.showErr
	}
	n.shown = append(n.shown, body)
	return nil
}

func (n *fakeNotifier) bodies() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.shown))
	copy(out, n.shown)
	return out
}

type fakeToaster struct {
	mu       sync.Mutex
	messages []string
}

func (t *fakeToaster) Show(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, message)
}

func (t *fakeToaster) all() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.messages))
	copy(out, t.messages)
	return out
}

func testConfig() Config {
	return Config{Hour: 16, Minute: 18, Second: 0}
}

func TestRunNowNotifiesDayAheadMatchOnly(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)}
	loader := &fakeLoader{products: []domain.Product{
		{ID: 1, Name: "milk", ExpiryDate: domain.NewDate(2024, time.June, 2)},
		{ID: 2, Name: "bread", ExpiryDate: domain.NewDate(2024, time.June, 3)},
	}}
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	toaster := &fakeToaster{}

	s := New(testConfig(), loader, notifier, toaster, WithClock(clock))
	s.RunNow()

	bodies := notifier.bodies()
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], "milk")
	assert.Empty(t, toaster.all())
	assert.Equal(t, int64(1), s.Status().Notified)
}

func TestPermissionDeniedFallsBackToToast(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)}
	loader := &fakeLoader{products: []domain.Product{
		{ID: 1, Name: "milk", ExpiryDate: domain.NewDate(2024, time.June, 2)},
	}}
	notifier := &fakeNotifier{permission: notify.PermissionDenied}
	toaster := &fakeToaster{}

	s := New(testConfig(), loader, notifier, toaster, WithClock(clock))
	s.RunNow()

	assert.Empty(t, notifier.bodies())
	messages := toaster.all()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "milk")
}

func TestDeliveryFailureFallsBackToToast(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)}
	loader := &fakeLoader{products: []domain.Product{
		{ID: 1, Name: "milk", ExpiryDate: domain.NewDate(2024, time.June, 2)},
	}}
	notifier := &fakeNotifier{permission: notify.PermissionGranted, showErr: assert.AnError}
	toaster := &fakeToaster{}

	s := New(testConfig(), loader, notifier, toaster, WithClock(clock))
	s.RunNow()

	require.Len(t, toaster.all(), 1)
	assert.Equal(t, int64(0), s.Status().Notified)
}

func TestStartArmsTodayTargetEvenWhenPast(t *testing.T) {
	// 17:30 is already past the 16:18 target; the delay must stay
	// negative so the first check fires immediately, not tomorrow.
	clock := &fakeClock{now: time.Date(2024, time.June, 1, 17, 30, 0, 0, time.UTC)}
	loader := &fakeLoader{}
	s := New(testConfig(), loader, &fakeNotifier{permission: notify.PermissionGranted}, &fakeToaster{}, WithClock(clock))

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return clock.timerCount() == 1 },
		time.Second, 5*time.Millisecond)
	clock.mu.Lock()
	delay := clock.delays[0]
	clock.mu.Unlock()
	assert.True(t, delay < 0, "delay should be negative, got %v", delay)
	assert.Equal(t, StateArmed, s.Status().State)
}

func TestFiringRearmsOnFixedPeriod(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)}
	loader := &fakeLoader{products: []domain.Product{
		{ID: 1, Name: "milk", ExpiryDate: domain.NewDate(2024, time.June, 2)},
	}}
	notifier := &fakeNotifier{permission: notify.PermissionGranted}

	s := New(testConfig(), loader, notifier, &fakeToaster{}, WithClock(clock))
	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return clock.timerCount() == 1 },
		time.Second, 5*time.Millisecond)
	clock.fireTimer(0)

	// after firing, a 24h period timer replaces the one-shot
	require.Eventually(t, func() bool { return clock.timerCount() == 2 },
		time.Second, 5*time.Millisecond)
	clock.mu.Lock()
	period := clock.delays[1]
	clock.mu.Unlock()
	assert.Equal(t, DefaultPeriod, period)
	require.Eventually(t, func() bool { return len(notifier.bodies()) == 1 },
		time.Second, 5*time.Millisecond)
}

func TestSnapshotIsTakenOnceAtStart(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)}
	loader := &fakeLoader{}
	notifier := &fakeNotifier{permission: notify.PermissionGranted}

	s := New(testConfig(), loader, notifier, &fakeToaster{}, WithClock(clock))
	s.Start()
	defer s.Stop()

	// a product added after arming is invisible to the running snapshot
	loader.set([]domain.Product{
		{ID: 1, Name: "milk", ExpiryDate: domain.NewDate(2024, time.June, 2)},
	})
	s.RunNow()
	assert.Empty(t, notifier.bodies())

	// restart re-snapshots and picks it up
	s.Restart()
	s.RunNow()
	assert.Len(t, notifier.bodies(), 1)
}

func TestRunNowOnIdleSchedulerStaysIdle(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)}
	loader := &fakeLoader{products: []domain.Product{
		{ID: 1, Name: "milk", ExpiryDate: domain.NewDate(2024, time.June, 2)},
	}}
	notifier := &fakeNotifier{permission: notify.PermissionGranted}

	s := New(testConfig(), loader, notifier, &fakeToaster{}, WithClock(clock))
	s.RunNow()

	// no timer is pending, so the status must not claim an armed machine
	assert.Equal(t, StateIdle, s.Status().State)
	assert.Len(t, notifier.bodies(), 1)
}

func TestStopIsIdempotent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)}
	s := New(testConfig(), &fakeLoader{}, &fakeNotifier{permission: notify.PermissionGranted}, &fakeToaster{}, WithClock(clock))

	// stopping an unarmed scheduler is a no-op
	s.Stop()

	s.Start()
	s.Stop()
	s.Stop()
	assert.Equal(t, StateIdle, s.Status().State)
}
