package locator

import (
	"context"
	"time"

	"opta/model"
)

// Permissions is the platform location-permission prompt.
type Permissions interface {
	Check(ctx context.Context) (bool, error)
	Request(ctx context.Context) (bool, error)
}

type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	// MaximumAge is how old a cached fix may be and still be returned.
	MaximumAge time.Duration
}

type WatchOptions struct {
	HighAccuracy bool
	// DistanceFilter is the minimum movement in metres between callbacks.
	DistanceFilter float64
}

// Watch is a running position subscription. Stop must not return while a
// callback is still executing, and no callback may start afterwards.
type Watch interface {
	Stop()
}

type Positions interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (model.Coordinate, error)
	Watch(ctx context.Context, opts WatchOptions, onPosition func(model.Coordinate), onError func(error)) (Watch, error)
}

var (
	// CurrentPositionOptions is used for the first fix: coarse, slow to give up.
	CurrentPositionOptions = PositionOptions{
		HighAccuracy: false,
		Timeout:      60 * time.Second,
		MaximumAge:   time.Second,
	}

	TrackingOptions = WatchOptions{
		HighAccuracy:   true,
		DistanceFilter: 10,
	}
)
