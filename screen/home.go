package screen

import (
	"context"
	"log/slog"
	"sync"

	"opta/locator"
	"opta/logutil"
	"opta/session"
)

type HomeView struct {
	Welcome string
	// Notice is set when the location prompt was refused.
	Notice string
}

type Home struct {
	session session.Context
	perms   locator.Permissions
	nav     Navigator
	log     *slog.Logger

	mu   sync.Mutex
	view HomeView
}

func NewHome(sess session.Context, perms locator.Permissions, nav Navigator, logger *slog.Logger) *Home {
	return &Home{
		session: sess,
		perms:   perms,
		nav:     nav,
		log:     logutil.OrDefault(logger).With("screen", RouteHome),
	}
}

// Mount sends an anonymous user to Login and reports whether Home may show.
func (h *Home) Mount() bool {
	if !h.session.Authenticated() {
		h.nav.Navigate(RouteLogin, "")
		return false
	}

	name := ""
	if n := h.session.UserName(); n != nil {
		name = *n
	}
	h.mu.Lock()
	h.view = HomeView{Welcome: "Welcome, " + name}
	h.mu.Unlock()
	return true
}

func (h *Home) View() HomeView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view
}

// SelectLocation opens Maps once location access is granted, prompting for
// it if needed. It reports whether Maps was opened.
func (h *Home) SelectLocation(ctx context.Context) (bool, error) {
	granted, err := h.perms.Check(ctx)
	if err != nil {
		return false, logutil.LogAndWrapErr(h.log, "check location permission", err)
	}
	if !granted {
		granted, err = h.perms.Request(ctx)
		if err != nil {
			return false, logutil.LogAndWrapErr(h.log, "request location permission", err)
		}
	}
	if !granted {
		h.mu.Lock()
		h.view.Notice = locator.MsgPermissionDenied
		h.mu.Unlock()
		return false, nil
	}

	h.mu.Lock()
	h.view.Notice = ""
	h.mu.Unlock()
	h.nav.Navigate(RouteMaps, "")
	return true, nil
}

// EnterManually opens Maps without touching permissions.
func (h *Home) EnterManually() {
	h.nav.Navigate(RouteMaps, "")
}

func (h *Home) ViewLocations() {
	h.nav.Navigate(RouteLocations, "")
}
