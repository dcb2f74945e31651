package locator

import (
	"math"
	"time"

	"opta/model"
)

// Trigger says what produced a coordinate.
type Trigger int

const (
	// TriggerContinuous is a position update from the tracking watch.
	TriggerContinuous Trigger = iota
	// TriggerDrag is the user moving the map pin.
	TriggerDrag
)

func (t Trigger) String() string {
	switch t {
	case TriggerContinuous:
		return "continuous"
	case TriggerDrag:
		return "drag"
	}
	return "unknown"
}

const (
	// ResolveThreshold is the per-axis change in degrees (about 11m) below
	// which a coordinate counts as unchanged.
	ResolveThreshold = 0.0001

	DragDebounce = 1000 * time.Millisecond
)

// ShouldResolve reports whether next needs a geocoding call given the last
// successfully resolved coordinate. Both triggers share the threshold; drags
// are additionally debounced before they get here.
func ShouldResolve(last *model.Coordinate, next model.Coordinate, trigger Trigger) bool {
	if trigger != TriggerContinuous && trigger != TriggerDrag {
		return false
	}
	if !next.Valid() {
		return false
	}
	if last == nil {
		return true
	}
	return math.Abs(last.Latitude-next.Latitude) >= ResolveThreshold ||
		math.Abs(last.Longitude-next.Longitude) >= ResolveThreshold
}
