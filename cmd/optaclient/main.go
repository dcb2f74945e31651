package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"opta/config"
	"opta/device"
	"opta/gateway"
	"opta/geocode"
	"opta/locator"
	"opta/model"
	"opta/screen"
	"opta/session"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: optaclient <command> [flags]

commands:
  login      sign in and print the session
  register   create an account
  addresses  list saved addresses
  pick       replay a GPS track, resolve the pin and save it as an address`)
}

type app struct {
	cfg     config.ClientConfig
	log     *slog.Logger
	session *session.Store
	api     *gateway.Client
	nav     *screen.Stack
}

func newApp(verbose bool) (*app, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sess := session.New()
	api := gateway.New(cfg.BaseURL,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		gateway.WithTokenSource(sess),
		gateway.WithLogger(logger),
	)
	nav := screen.NewStack(screen.RouteLogin)
	nav.OnChange(func(e screen.Entry) {
		logger.Debug("navigate", "route", e.Route, "notice", e.Notice)
	})

	return &app{cfg: cfg, log: logger, session: sess, api: api, nav: nav}, nil
}

func (a *app) login(ctx context.Context, phone, password string) error {
	l := screen.NewLogin(a.api, a.session, a.nav, a.log)
	if err := l.Submit(ctx, phone, password); err != nil {
		return errors.New(l.View().Error)
	}
	return nil
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, os.Args[2:])
	case "register":
		err = runRegister(ctx, os.Args[2:])
	case "addresses":
		err = runAddresses(ctx, os.Args[2:])
	case "pick":
		err = runPick(ctx, os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

type credentials struct {
	phone    *string
	password *string
	verbose  *bool
}

func credentialFlags(fs *flag.FlagSet) credentials {
	return credentials{
		phone:    fs.String("phone", "", "Mobile number"),
		password: fs.String("password", "", "Password"),
		verbose:  fs.Bool("v", false, "Debug logging"),
	}
}

func runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	creds := credentialFlags(fs)
	_ = fs.Parse(args)

	a, err := newApp(*creds.verbose)
	if err != nil {
		return err
	}
	if err := a.login(ctx, *creds.phone, *creds.password); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (user %d)\n", *a.session.UserName(), *a.session.UserID())
	return nil
}

func runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	creds := credentialFlags(fs)
	name := fs.String("name", "", "Display name")
	confirm := fs.String("confirm", "", "Password again (defaults to -password)")
	_ = fs.Parse(args)

	a, err := newApp(*creds.verbose)
	if err != nil {
		return err
	}
	if *confirm == "" {
		*confirm = *creds.password
	}

	r := screen.NewRegister(a.api, a.nav, a.log)
	if err := r.Submit(ctx, screen.RegisterForm{
		UserName:        *name,
		PhoneNumber:     *creds.phone,
		Password:        *creds.password,
		ConfirmPassword: *confirm,
	}); err != nil {
		return errors.New(r.View().Error)
	}
	fmt.Println(a.nav.Current().Notice)
	return nil
}

func runAddresses(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("addresses", flag.ExitOnError)
	creds := credentialFlags(fs)
	_ = fs.Parse(args)

	a, err := newApp(*creds.verbose)
	if err != nil {
		return err
	}
	if err := a.login(ctx, *creds.phone, *creds.password); err != nil {
		return err
	}
	return a.printLocations(ctx)
}

func (a *app) printLocations(ctx context.Context) error {
	l := screen.NewLocations(a.api, a.session, a.log)
	if err := l.Mount(ctx); err != nil {
		return errors.New(l.View().Error)
	}

	items := l.View().Items
	fmt.Println(screen.MsgLocationsHeader)
	if len(items) == 0 {
		fmt.Println("  (none)")
	}
	for _, it := range items {
		fmt.Printf("  [%s] %s: %s\n", it.Icon, it.Title, it.Address)
	}
	return nil
}

func runPick(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pick", flag.ExitOnError)
	creds := credentialFlags(fs)
	trackFlag := fs.String("track", "", "GPS track as lat,lng;lat,lng;... (first point is the initial fix)")
	interval := fs.Duration("interval", time.Second, "Time between replayed fixes")
	house := fs.String("house", "", "House / flat number")
	apartment := fs.String("apartment", "", "Apartment, road or area")
	tag := fs.String("tag", string(model.TagHome), "home|work|users|marker")
	_ = fs.Parse(args)

	track, err := parseTrack(*trackFlag)
	if err != nil {
		return err
	}

	a, err := newApp(*creds.verbose)
	if err != nil {
		return err
	}
	resolver, err := geocode.New(a.cfg)
	if err != nil {
		return err
	}
	if err := a.login(ctx, *creds.phone, *creds.password); err != nil {
		return err
	}

	replay := device.NewReplay(track, *interval, nil)
	home := screen.NewHome(a.session, replay, a.nav, a.log)
	if !home.Mount() {
		return errors.New("not signed in")
	}
	fmt.Println(home.View().Welcome)
	opened, err := home.SelectLocation(ctx)
	if err != nil {
		return err
	}
	if !opened {
		return errors.New(home.View().Notice)
	}

	maps := screen.NewMaps(screen.MapsDeps{
		Permissions: replay,
		Positions:   replay,
		Resolver:    resolver,
		Submitter:   a.api,
		Session:     a.session,
		Navigator:   a.nav,
		Logger:      a.log,
		OnChange: func(v screen.MapsView) {
			if loc := v.Flow.Location; loc != nil {
				a.log.Info("pin", "lat", loc.Latitude, "lng", loc.Longitude, "address", v.Flow.Resolved.MainLocation, "state", v.Flow.State)
			}
		},
	})
	defer maps.Unmount()

	if err := maps.Mount(ctx); err != nil {
		if msg := maps.View().Error; msg != "" {
			return errors.New(msg)
		}
		return err
	}

	select {
	case <-replay.Finished():
	case <-ctx.Done():
		return ctx.Err()
	}
	maps.Wait()

	view := maps.View()
	if view.Flow.ResolveError != "" && view.Flow.Resolved.MainLocation == "" {
		return errors.New(view.Flow.ResolveError)
	}
	fmt.Printf("%s: %s, %s\n", view.Marker, view.Flow.Resolved.MainLocation, view.Flow.Resolved.SubLocation)

	form := locator.Form{HouseNumber: *house, ApartmentDetails: *apartment, Tag: model.Tag(*tag)}
	if err := maps.Submit(ctx, form); err != nil {
		if msg := maps.View().Flow.SubmitError; msg != "" {
			return errors.New(msg)
		}
		return err
	}
	return a.printLocations(ctx)
}

// parseTrack reads "lat,lng;lat,lng".
func parseTrack(s string) ([]model.Coordinate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("-track is required")
	}

	var track []model.Coordinate
	for i, pair := range strings.Split(s, ";") {
		latStr, lngStr, ok := strings.Cut(strings.TrimSpace(pair), ",")
		if !ok {
			return nil, fmt.Errorf("track point %d: want lat,lng, got %q", i, pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil {
			return nil, fmt.Errorf("track point %d latitude: %w", i, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
		if err != nil {
			return nil, fmt.Errorf("track point %d longitude: %w", i, err)
		}
		c := model.Coordinate{Latitude: lat, Longitude: lng}
		if !c.Valid() {
			return nil, fmt.Errorf("track point %d out of range: %v,%v", i, lat, lng)
		}
		track = append(track, c)
	}
	return track, nil
}
