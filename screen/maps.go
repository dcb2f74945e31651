package screen

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"opta/geocode"
	"opta/locator"
	"opta/logutil"
	"opta/model"
	"opta/session"

	"github.com/jonboulle/clockwork"
)

const (
	MsgLoadingMap = "Loading map..."
	MarkerTitle   = "Your order will be delivered here"
)

type MapsDeps struct {
	Permissions locator.Permissions
	Positions   locator.Positions
	Resolver    geocode.Resolver
	Submitter   locator.AddressSubmitter
	Session     session.Context
	Navigator   Navigator

	Clock        clockwork.Clock
	DebounceWait time.Duration
	Logger       *slog.Logger
	// OnChange is forwarded every view change while mounted.
	OnChange func(MapsView)
}

// MapsView is what the screen renders: an error, a loading placeholder or
// the map with the pin and the address under it.
type MapsView struct {
	Error   string
	Loading string
	Marker  string
	Flow    locator.Snapshot
}

func mapsView(s locator.Snapshot) MapsView {
	v := MapsView{Flow: s}
	switch {
	case s.Error != "":
		v.Error = s.Error
	case s.Location == nil:
		v.Loading = MsgLoadingMap
	default:
		v.Marker = MarkerTitle
	}
	return v
}

type Maps struct {
	deps MapsDeps
	log  *slog.Logger

	mu   sync.Mutex
	flow *locator.Flow
}

func NewMaps(deps MapsDeps) *Maps {
	return &Maps{deps: deps, log: logutil.OrDefault(deps.Logger).With("screen", RouteMaps)}
}

// Mount starts location tracking. It returns once the first fix has been
// taken or the flow failed; the error is also visible in View.
func (m *Maps) Mount(ctx context.Context) error {
	m.mu.Lock()
	if m.flow != nil {
		m.mu.Unlock()
		return errors.New("maps screen already mounted")
	}
	cfg := locator.Config{
		Permissions:  m.deps.Permissions,
		Positions:    m.deps.Positions,
		Resolver:     m.deps.Resolver,
		Submitter:    m.deps.Submitter,
		Users:        m.deps.Session,
		Clock:        m.deps.Clock,
		DebounceWait: m.deps.DebounceWait,
		Logger:       m.deps.Logger,
	}
	if onChange := m.deps.OnChange; onChange != nil {
		cfg.OnChange = func(s locator.Snapshot) { onChange(mapsView(s)) }
	}
	flow := locator.New(cfg)
	m.flow = flow
	m.mu.Unlock()

	return flow.Start(ctx)
}

func (m *Maps) current() *locator.Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flow
}

func (m *Maps) View() MapsView {
	flow := m.current()
	if flow == nil {
		return mapsView(locator.Snapshot{})
	}
	return mapsView(flow.Snapshot())
}

func (m *Maps) Drag(c model.Coordinate) {
	if flow := m.current(); flow != nil {
		flow.Drag(c)
	}
}

// Submit saves the address under the pin and opens the saved locations.
func (m *Maps) Submit(ctx context.Context, form locator.Form) error {
	flow := m.current()
	if flow == nil {
		return locator.ErrNotReady
	}
	if err := flow.Submit(ctx, form); err != nil {
		return err
	}
	m.deps.Navigator.Navigate(RouteLocations, "")
	return nil
}

// Wait blocks until address lookups already started have finished.
func (m *Maps) Wait() {
	if flow := m.current(); flow != nil {
		flow.Wait()
	}
}

// Unmount stops tracking. No view change is delivered after it returns.
func (m *Maps) Unmount() {
	m.mu.Lock()
	flow := m.flow
	m.flow = nil
	m.mu.Unlock()

	if flow != nil {
		flow.Close()
		m.log.Debug("maps unmounted")
	}
}
