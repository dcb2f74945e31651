// Package locator drives the map screen: permission, first fix, continuous
// tracking, reverse geocoding of the pin and submission of the chosen address.
package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"opta/geocode"
	"opta/logutil"
	"opta/model"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type State int

const (
	AwaitingPermission State = iota
	AcquiringLocation
	Tracking
	Resolving
	Idle
	Submitting
	Done
	PermissionDenied
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingPermission:
		return "awaiting-permission"
	case AcquiringLocation:
		return "acquiring-location"
	case Tracking:
		return "tracking"
	case Resolving:
		return "resolving"
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Done:
		return "done"
	case PermissionDenied:
		return "permission-denied"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

const (
	MsgPermissionDenied      = "Location permission denied"
	MsgPermissionFailed      = "Failed to request location permission"
	MsgCurrentLocationFailed = "Failed to get current location. Make sure location services are enabled."
	MsgWatchFailed           = "Failed to get location. Make sure location services are enabled."
	MsgResolveFailed         = "Unable to fetch address"
)

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrClosed           = errors.New("location flow closed")
	ErrNotReady         = errors.New("location flow is not tracking")
)

// Snapshot is the view state of a flow.
type Snapshot struct {
	State    State
	Location *model.Coordinate
	Resolved model.ResolvedAddress
	// Error replaces the map when set.
	Error string
	// ResolveError is shown next to the still-visible previous address.
	ResolveError string
	SubmitError  string
}

type Config struct {
	Permissions Permissions
	Positions   Positions
	Resolver    geocode.Resolver
	Submitter   AddressSubmitter
	Users       UserSource

	Clock        clockwork.Clock
	DebounceWait time.Duration
	Logger       *slog.Logger
	// OnChange receives every state change. It must not call Close.
	OnChange func(Snapshot)
	// NewKey generates idempotency keys; defaults to random UUIDs.
	NewKey func() string
}

type Flow struct {
	cfg      Config
	log      *slog.Logger
	scope    *Scope
	debounce *Debouncer

	mu           sync.Mutex
	closed       bool
	started      bool
	state        State
	location     *model.Coordinate
	lastResolved *model.Coordinate
	resolved     model.ResolvedAddress
	errMsg       string
	resolveErr   string
	submitErr    string
	seq          uint64
	appliedSeq   uint64
	inflight     int
	watch        Watch
	pendingKey   string
	pendingAddr  model.AddressRecord

	notifyMu sync.Mutex
}

func New(cfg Config) *Flow {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.DebounceWait <= 0 {
		cfg.DebounceWait = DragDebounce
	}
	if cfg.NewKey == nil {
		cfg.NewKey = uuid.NewString
	}
	return &Flow{
		cfg:      cfg,
		log:      logutil.OrDefault(cfg.Logger).With("component", "locator"),
		scope:    NewScope(context.Background()),
		debounce: NewDebouncer(cfg.Clock, cfg.DebounceWait),
		state:    AwaitingPermission,
	}
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Flow) snapshotLocked() Snapshot {
	s := Snapshot{
		State:        f.state,
		Resolved:     f.resolved,
		Error:        f.errMsg,
		ResolveError: f.resolveErr,
		SubmitError:  f.submitErr,
	}
	if f.location != nil {
		loc := *f.location
		s.Location = &loc
	}
	return s
}

func (f *Flow) notify() {
	if f.cfg.OnChange == nil {
		return
	}
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.cfg.OnChange(snap)
}

// Start asks for permission, takes a first fix and subscribes to updates.
// It returns once tracking has begun or the flow reached a terminal state.
func (f *Flow) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	if f.started {
		f.mu.Unlock()
		return errors.New("location flow already started")
	}
	f.started = true
	f.mu.Unlock()
	f.notify()

	ctx, cancel := f.scope.Bind(ctx)
	defer cancel()

	granted, err := f.cfg.Permissions.Request(ctx)
	if err != nil {
		f.fail(Failed, MsgPermissionFailed)
		return logutil.LogAndWrapErr(f.log, "request location permission", err)
	}
	if !granted {
		f.fail(PermissionDenied, MsgPermissionDenied)
		f.log.Info("location permission denied")
		return ErrPermissionDenied
	}

	if !f.transition(AcquiringLocation) {
		return ErrClosed
	}

	first, err := f.cfg.Positions.CurrentPosition(ctx, CurrentPositionOptions)
	if err != nil {
		f.fail(Failed, MsgCurrentLocationFailed)
		return logutil.LogAndWrapErr(f.log, "get current position", err)
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	f.state = Tracking
	f.location = &first
	f.errMsg = ""
	f.mu.Unlock()
	f.notify()
	f.resolve(first, TriggerContinuous)

	watch, err := f.cfg.Positions.Watch(f.scope.Context(), TrackingOptions, f.onPosition, f.onWatchError)
	if err != nil {
		f.setError(MsgWatchFailed)
		return logutil.LogAndWrapErr(f.log, "watch position", err)
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		watch.Stop()
		return ErrClosed
	}
	f.watch = watch
	f.mu.Unlock()

	return nil
}

func (f *Flow) transition(s State) bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	f.state = s
	f.mu.Unlock()
	f.notify()
	return true
}

func (f *Flow) fail(s State, msg string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.state = s
	f.errMsg = msg
	f.mu.Unlock()
	f.notify()
}

func (f *Flow) setError(msg string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.errMsg = msg
	f.mu.Unlock()
	f.notify()
}

func (f *Flow) onPosition(c model.Coordinate) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.location = &c
	f.errMsg = ""
	f.mu.Unlock()
	f.notify()

	f.resolve(c, TriggerContinuous)
}

func (f *Flow) onWatchError(err error) {
	f.log.Warn("position watch error", "err", err)
	f.setError(MsgWatchFailed)
}

// Drag moves the pin. The address is looked up once the pin has rested for
// the debounce period.
func (f *Flow) Drag(c model.Coordinate) {
	if !c.Valid() {
		return
	}

	f.mu.Lock()
	if f.closed || !f.tracking() {
		f.mu.Unlock()
		return
	}
	f.location = &c
	f.mu.Unlock()
	f.notify()

	f.debounce.Trigger(func() { f.resolve(c, TriggerDrag) })
}

func (f *Flow) tracking() bool {
	switch f.state {
	case Tracking, Resolving, Idle, Submitting:
		return true
	}
	return false
}

func (f *Flow) resolve(c model.Coordinate, trigger Trigger) {
	f.mu.Lock()
	if f.closed || !ShouldResolve(f.lastResolved, c, trigger) {
		f.mu.Unlock()
		return
	}
	f.seq++
	seq := f.seq
	f.inflight++
	if f.state == Tracking || f.state == Idle {
		f.state = Resolving
	}
	f.mu.Unlock()
	f.notify()

	started := f.scope.Go(func(ctx context.Context) {
		done := logutil.NewTimingLogger(f.log, time.Now(), "reverse geocode", "trigger", trigger.String(), "seq", seq)
		formatted, err := f.cfg.Resolver.Resolve(ctx, c)
		done()
		f.finishResolve(seq, c, formatted, err)
	})
	if !started {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}
}

func (f *Flow) finishResolve(seq uint64, c model.Coordinate, formatted string, err error) {
	f.mu.Lock()
	f.inflight--
	if f.closed {
		f.mu.Unlock()
		return
	}
	if f.inflight == 0 && f.state == Resolving {
		f.state = Idle
	}
	if seq <= f.appliedSeq {
		// a newer lookup already answered; never step back
		f.mu.Unlock()
		f.log.Debug("discarding stale geocode result", "seq", seq, "applied", f.appliedSeq)
		f.notify()
		return
	}
	if err != nil {
		f.resolveErr = MsgResolveFailed
		f.mu.Unlock()
		f.log.Warn("reverse geocode failed", "lat", c.Latitude, "lng", c.Longitude, "err", err)
		f.notify()
		return
	}
	f.appliedSeq = seq
	f.lastResolved = &c
	f.resolved = geocode.Split(formatted)
	f.resolveErr = ""
	f.mu.Unlock()
	f.notify()
}

// Submit stores the pinned address for the signed-in user. On failure the
// flow stays in Submitting with SubmitError set; calling Submit again with
// the same form reuses the idempotency key.
func (f *Flow) Submit(ctx context.Context, form Form) error {
	if err := form.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	if !f.tracking() {
		f.mu.Unlock()
		return ErrNotReady
	}
	if f.resolved.MainLocation == "" {
		f.mu.Unlock()
		return ErrNoAddress
	}
	uid := f.cfg.Users.UserID()
	if uid == nil || *uid <= 0 {
		f.mu.Unlock()
		return ErrNotAuthenticated
	}

	record := model.AddressRecord{
		UserId:  uint(*uid),
		Address: ComposeAddress(form.HouseNumber, form.ApartmentDetails, f.resolved),
		Tag:     string(form.Tag),
	}
	if f.pendingKey == "" || f.pendingAddr != record {
		f.pendingKey = f.cfg.NewKey()
		f.pendingAddr = record
	}
	key := f.pendingKey
	f.state = Submitting
	f.submitErr = ""
	f.mu.Unlock()
	f.notify()

	ctx, cancel := f.scope.Bind(ctx)
	defer cancel()

	_, err := f.cfg.Submitter.SubmitAddress(ctx, record, key)

	f.mu.Lock()
	if err != nil {
		f.submitErr = submitMessage(err)
		f.mu.Unlock()
		f.notify()
		return logutil.LogAndWrapErr(f.log, "submit address", err, "user_id", record.UserId, "tag", record.Tag)
	}
	f.state = Done
	f.pendingKey = ""
	f.mu.Unlock()
	f.notify()

	f.log.Info("address submitted", "user_id", record.UserId, "tag", record.Tag)
	return nil
}

// Wait blocks until lookups already in flight have finished. Drags still
// inside the debounce period are not waited for.
func (f *Flow) Wait() {
	f.scope.Wait()
}

// Close stops the position watch, drops pending drags and cancels in-flight
// lookups. No OnChange call or position update happens after it returns.
func (f *Flow) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	watch := f.watch
	f.watch = nil
	f.mu.Unlock()

	if watch != nil {
		watch.Stop()
	}
	f.debounce.Stop()
	f.scope.Close()

	// wait out a notification that was already running
	f.notifyMu.Lock()
	f.notifyMu.Unlock()
}
