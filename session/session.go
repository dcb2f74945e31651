// Package session holds the signed-in user's token and identity for the
// lifetime of the client process.
package session

import "sync"

// Snapshot is a copy of the session fields at one point in time.
type Snapshot struct {
	Token    *string
	UserName *string
	UserID   *int
}

// Context is what screens depend on; tests pass a fake.
type Context interface {
	Token() *string
	UserName() *string
	UserID() *int
	Authenticated() bool
	SetToken(token *string)
	SetUserName(name *string)
	SetUserID(id *int)
}

// Store is the in-memory Context. The zero value is an empty session.
type Store struct {
	mu          sync.RWMutex
	snap        Snapshot
	subscribers []func(Snapshot)
}

var _ Context = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Token() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyPtr(s.snap.Token)
}

func (s *Store) UserName() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyPtr(s.snap.UserName)
}

func (s *Store) UserID() *int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyPtr(s.snap.UserID)
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Token != nil && *s.snap.Token != ""
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copySnap()
}

func (s *Store) SetToken(token *string) {
	s.update(func(snap *Snapshot) { snap.Token = copyPtr(token) })
}

func (s *Store) SetUserName(name *string) {
	s.update(func(snap *Snapshot) { snap.UserName = copyPtr(name) })
}

func (s *Store) SetUserID(id *int) {
	s.update(func(snap *Snapshot) { snap.UserID = copyPtr(id) })
}

// Subscribe registers fn to be called after every change. The returned
// function removes it.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, fn)
	idx := len(s.subscribers) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.subscribers) {
			s.subscribers[idx] = nil
		}
	}
}

func (s *Store) update(apply func(*Snapshot)) {
	s.mu.Lock()
	apply(&s.snap)
	snap := s.copySnap()
	subs := make([]func(Snapshot), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	// called outside the lock so subscribers may read the store
	for _, fn := range subs {
		if fn != nil {
			fn(snap)
		}
	}
}

func (s *Store) copySnap() Snapshot {
	return Snapshot{
		Token:    copyPtr(s.snap.Token),
		UserName: copyPtr(s.snap.UserName),
		UserID:   copyPtr(s.snap.UserID),
	}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
