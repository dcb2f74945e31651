package screen

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"opta/gateway"
	"opta/logutil"
	"opta/model"
	"opta/session"
)

const (
	MsgLoginFailed   = "Invalid mobile number or password"
	MsgNetworkFailed = "Failed to connect to the server. Please try again later."
)

// Authenticator is the part of the API gateway the auth screens use.
type Authenticator interface {
	Login(ctx context.Context, phoneNumber, password string) (model.LoginResponse, error)
	Register(ctx context.Context, userName, phoneNumber, password string) (string, error)
}

type LoginView struct {
	PhoneNumber string
	Password    string
	Error       string
	Busy        bool
}

type Login struct {
	api     Authenticator
	session session.Context
	nav     Navigator
	log     *slog.Logger

	mu   sync.Mutex
	view LoginView
}

func NewLogin(api Authenticator, sess session.Context, nav Navigator, logger *slog.Logger) *Login {
	return &Login{
		api:     api,
		session: sess,
		nav:     nav,
		log:     logutil.OrDefault(logger).With("screen", RouteLogin),
	}
}

func (l *Login) View() LoginView {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view
}

// Submit signs in. On success the session is filled and Home is shown; on
// failure the form keeps its values and View().Error explains why.
func (l *Login) Submit(ctx context.Context, phoneNumber, password string) error {
	phoneNumber = strings.TrimSpace(phoneNumber)

	l.mu.Lock()
	l.view = LoginView{PhoneNumber: phoneNumber, Password: password, Busy: true}
	l.mu.Unlock()

	resp, err := l.api.Login(ctx, phoneNumber, password)

	l.mu.Lock()
	l.view.Busy = false
	if err != nil {
		l.view.Error = loginMessage(err)
		l.mu.Unlock()
		return logutil.DebugAndWrapErr(l.log, "login", err)
	}
	l.mu.Unlock()

	id := int(resp.UserId)
	l.session.SetToken(&resp.AccessToken)
	l.session.SetUserName(&resp.UserName)
	l.session.SetUserID(&id)

	l.log.Info("signed in", "user_id", id)
	l.nav.Navigate(RouteHome, "")
	return nil
}

func loginMessage(err error) string {
	var authErr *gateway.AuthError
	if errors.As(err, &authErr) {
		if authErr.Detail != "" {
			return authErr.Detail
		}
		return MsgLoginFailed
	}
	return MsgNetworkFailed
}
