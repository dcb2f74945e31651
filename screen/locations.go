package screen

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"opta/logutil"
	"opta/model"
	"opta/session"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MsgLocationsHeader = "Saved Location"
	MsgLocationsFailed = "Could not load saved locations"
)

type AddressBook interface {
	FetchAddresses(ctx context.Context, userID int) ([]model.SavedAddress, error)
}

type LocationItem struct {
	Address string
	Tag     string
	Title   string
	Icon    string
}

type LocationsView struct {
	Items   []LocationItem
	Loading bool
	Error   string
}

// TagIcon maps a tag to its FontAwesome icon name.
func TagIcon(tag string) string {
	switch model.Tag(tag) {
	case model.TagHome:
		return "home"
	case model.TagWork:
		return "briefcase"
	case model.TagUsers:
		return "users"
	}
	return "map-marker"
}

var titleCaser = cases.Title(language.Und)

func TagTitle(tag string) string {
	return titleCaser.String(tag)
}

type Locations struct {
	api     AddressBook
	session session.Context
	log     *slog.Logger

	mu      sync.Mutex
	fetched bool
	view    LocationsView
}

func NewLocations(api AddressBook, sess session.Context, logger *slog.Logger) *Locations {
	return &Locations{
		api:     api,
		session: sess,
		log:     logutil.OrDefault(logger).With("screen", RouteLocations),
		view:    LocationsView{Items: []LocationItem{}},
	}
}

func (l *Locations) View() LocationsView {
	l.mu.Lock()
	defer l.mu.Unlock()
	v := l.view
	v.Items = slices.Clone(l.view.Items)
	return v
}

// Mount loads the signed-in user's addresses. Later calls are no-ops.
func (l *Locations) Mount(ctx context.Context) error {
	l.mu.Lock()
	if l.fetched {
		l.mu.Unlock()
		return nil
	}
	l.fetched = true
	l.view.Loading = true
	l.mu.Unlock()

	uid := l.session.UserID()
	if uid == nil {
		l.mu.Lock()
		l.view.Loading = false
		l.mu.Unlock()
		return nil
	}

	saved, err := l.api.FetchAddresses(ctx, *uid)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.view.Loading = false
	if err != nil {
		l.view.Error = MsgLocationsFailed
		return logutil.LogAndWrapErr(l.log, "fetch addresses", err, "user_id", *uid)
	}

	items := make([]LocationItem, 0, len(saved))
	for _, a := range saved {
		items = append(items, LocationItem{
			Address: a.Address,
			Tag:     a.Tag,
			Title:   TagTitle(a.Tag),
			Icon:    TagIcon(a.Tag),
		})
	}
	l.view.Items = items
	return nil
}
