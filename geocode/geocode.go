// Package geocode turns coordinates into formatted address strings.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"opta/model"
)

// ErrResolution is wrapped by every failed lookup, whether the provider had no
// result or could not be reached.
var ErrResolution = errors.New("unable to fetch address")

// ErrNoResults means the provider answered but had nothing for the coordinate.
var ErrNoResults = fmt.Errorf("%w: no results", ErrResolution)

type Resolver interface {
	Resolve(ctx context.Context, c model.Coordinate) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, c model.Coordinate) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, c model.Coordinate) (string, error) {
	return f(ctx, c)
}

// Split cuts a formatted address on its first comma.
func Split(formatted string) model.ResolvedAddress {
	main, sub, _ := strings.Cut(formatted, ",")
	return model.ResolvedAddress{
		MainLocation: strings.TrimSpace(main),
		SubLocation:  strings.TrimSpace(sub),
	}
}
