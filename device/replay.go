// Package device provides a location source that replays a recorded track.
// The CLI uses it in place of a phone's GPS.
package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"opta/locator"
	"opta/model"

	"github.com/jonboulle/clockwork"
)

var ErrNoFix = errors.New("no position available")

// Replay answers permission prompts with a fixed value and plays Points back
// as position updates, one every Interval.
type Replay struct {
	Points   []model.Coordinate
	Interval time.Duration
	Granted  bool
	Clock    clockwork.Clock

	mu        sync.Mutex
	requests  int
	finished  chan struct{}
	finishOne sync.Once
}

func NewReplay(points []model.Coordinate, interval time.Duration, clock clockwork.Clock) *Replay {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Replay{
		Points:   points,
		Interval: interval,
		Granted:  true,
		Clock:    clock,
		finished: make(chan struct{}),
	}
}

var (
	_ locator.Permissions = (*Replay)(nil)
	_ locator.Positions   = (*Replay)(nil)
)

func (r *Replay) Check(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Granted && r.requests > 0, nil
}

func (r *Replay) Request(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests++
	return r.Granted, nil
}

// CurrentPosition returns the first point of the track.
func (r *Replay) CurrentPosition(ctx context.Context, _ locator.PositionOptions) (model.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinate{}, err
	}
	if len(r.Points) == 0 {
		return model.Coordinate{}, ErrNoFix
	}
	return r.Points[0], nil
}

// Watch plays the rest of the track. A point closer than opts.DistanceFilter
// metres to the last delivered one is skipped; an invalid point is reported
// through onError. The callbacks run on the playback goroutine and must not
// call Stop.
func (r *Replay) Watch(ctx context.Context, opts locator.WatchOptions, onPosition func(model.Coordinate), onError func(error)) (locator.Watch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Interval <= 0 {
		return nil, fmt.Errorf("replay interval must be positive, got %s", r.Interval)
	}

	p := &playback{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	ticker := r.Clock.NewTicker(r.Interval)
	go func() {
		defer close(p.done)
		defer ticker.Stop()

		var last *model.Coordinate
		if len(r.Points) > 0 {
			first := r.Points[0]
			last = &first
		}
		for i := 1; i < len(r.Points); i++ {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.Chan():
			}

			next := r.Points[i]
			if !next.Valid() {
				if onError != nil {
					onError(fmt.Errorf("replay point %d out of range: %v", i, next))
				}
				continue
			}
			if last != nil && Distance(*last, next) < opts.DistanceFilter {
				continue
			}
			last = &next
			onPosition(next)
		}
		r.finish()
	}()
	return p, nil
}

// Finished is closed once a playback has delivered the whole track.
func (r *Replay) Finished() <-chan struct{} {
	return r.finishedChan()
}

func (r *Replay) finishedChan() chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished == nil {
		r.finished = make(chan struct{})
	}
	return r.finished
}

func (r *Replay) finish() {
	r.finishOne.Do(func() {
		close(r.finishedChan())
	})
}

type playback struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Stop ends the playback and returns after its goroutine has exited.
func (p *playback) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}
