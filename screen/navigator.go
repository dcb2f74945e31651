// Package screen holds the headless controllers behind each client screen.
// Rendering is left to the caller; controllers expose a View and react to
// user actions.
package screen

import "sync"

type Route string

const (
	RouteLogin     Route = "login"
	RouteRegister  Route = "register"
	RouteHome      Route = "home"
	RouteMaps      Route = "maps"
	RouteLocations Route = "locations"
)

type Navigator interface {
	// Navigate shows the route, carrying an optional notice for it to display.
	Navigate(to Route, notice string)
	Back() bool
}

type Entry struct {
	Route  Route
	Notice string
}

// Stack is an in-memory Navigator. Navigating to a route already on the
// stack pops back to it instead of pushing a duplicate.
type Stack struct {
	mu       sync.Mutex
	entries  []Entry
	onChange func(Entry)
}

var _ Navigator = (*Stack)(nil)

func NewStack(initial Route) *Stack {
	return &Stack{entries: []Entry{{Route: initial}}}
}

// OnChange registers fn to be called with the new top entry after every move.
func (s *Stack) OnChange(fn func(Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Stack) Navigate(to Route, notice string) {
	s.mu.Lock()
	entry := Entry{Route: to, Notice: notice}
	popped := false
	for i, e := range s.entries {
		if e.Route == to {
			s.entries = append(s.entries[:i], entry)
			popped = true
			break
		}
	}
	if !popped {
		s.entries = append(s.entries, entry)
	}
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(entry)
	}
}

func (s *Stack) Back() bool {
	s.mu.Lock()
	if len(s.entries) <= 1 {
		s.mu.Unlock()
		return false
	}
	s.entries = s.entries[:len(s.entries)-1]
	top := s.entries[len(s.entries)-1]
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(top)
	}
	return true
}

func (s *Stack) Current() Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[len(s.entries)-1]
}

func (s *Stack) History() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}
