package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackNavigate(t *testing.T) {
	s := NewStack(RouteLogin)

	var moves []Route
	s.OnChange(func(e Entry) { moves = append(moves, e.Route) })

	s.Navigate(RouteHome, "")
	s.Navigate(RouteMaps, "")
	s.Navigate(RouteLocations, "")
	assert.Equal(t, Entry{Route: RouteLocations}, s.Current())

	// going back to an open route pops everything above it
	s.Navigate(RouteHome, "hello")
	assert.Equal(t, []Entry{{Route: RouteLogin}, {Route: RouteHome, Notice: "hello"}}, s.History())

	assert.True(t, s.Back())
	assert.Equal(t, RouteLogin, s.Current().Route)
	assert.False(t, s.Back())

	assert.Equal(t, []Route{RouteHome, RouteMaps, RouteLocations, RouteHome, RouteLogin}, moves)
}
