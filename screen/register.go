package screen

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"opta/gateway"
	"opta/logutil"
)

const (
	MsgFieldsRequired    = "All fields are required"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgRegisterFailed    = "Registration failed"
)

var ErrInvalidRegistration = errors.New("invalid registration form")

type RegisterForm struct {
	UserName        string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
}

type RegisterView struct {
	Form  RegisterForm
	Error string
	Busy  bool
}

type Register struct {
	api Authenticator
	nav Navigator
	log *slog.Logger

	mu   sync.Mutex
	view RegisterView
}

func NewRegister(api Authenticator, nav Navigator, logger *slog.Logger) *Register {
	return &Register{api: api, nav: nav, log: logutil.OrDefault(logger).With("screen", RouteRegister)}
}

func (r *Register) View() RegisterView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// Submit creates the account and, on success, returns to Login with the
// server's confirmation as its notice.
func (r *Register) Submit(ctx context.Context, form RegisterForm) error {
	form.UserName = strings.TrimSpace(form.UserName)
	form.PhoneNumber = strings.TrimSpace(form.PhoneNumber)

	r.mu.Lock()
	r.view = RegisterView{Form: form}
	switch {
	case form.UserName == "" || form.PhoneNumber == "" || form.Password == "" || form.ConfirmPassword == "":
		r.view.Error = MsgFieldsRequired
	case form.Password != form.ConfirmPassword:
		r.view.Error = MsgPasswordsMismatch
	}
	if r.view.Error != "" {
		r.mu.Unlock()
		return ErrInvalidRegistration
	}
	r.view.Busy = true
	r.mu.Unlock()

	msg, err := r.api.Register(ctx, form.UserName, form.PhoneNumber, form.Password)

	r.mu.Lock()
	r.view.Busy = false
	if err != nil {
		var authErr *gateway.AuthError
		switch {
		case errors.As(err, &authErr) && authErr.Detail != "":
			r.view.Error = authErr.Detail
		case errors.As(err, &authErr):
			r.view.Error = MsgRegisterFailed
		default:
			r.view.Error = MsgNetworkFailed
		}
		r.mu.Unlock()
		return logutil.DebugAndWrapErr(r.log, "register", err)
	}
	r.mu.Unlock()

	r.nav.Navigate(RouteLogin, msg)
	return nil
}
