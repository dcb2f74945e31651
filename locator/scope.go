package locator

import (
	"context"
	"sync"
)

// Scope owns the goroutines a flow starts. Close cancels them and waits, and
// nothing new starts once it is closed.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	// active counts running goroutines; idle is signalled when it drops to zero.
	mu     sync.Mutex
	idle   *sync.Cond
	active int
	closed bool
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{ctx: ctx, cancel: cancel}
	s.idle = sync.NewCond(&s.mu)
	return s
}

func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go runs fn in a goroutine under the scope context. It returns false without
// running fn if the scope is closed.
func (s *Scope) Go(fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.active++
	s.mu.Unlock()

	go func() {
		defer s.done()
		fn(s.ctx)
	}()
	return true
}

// Bind derives a context from ctx that is also cancelled when the scope closes.
func (s *Scope) Bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Scope) done() {
	s.mu.Lock()
	s.active--
	if s.active == 0 {
		s.idle.Broadcast()
	}
	s.mu.Unlock()
}

// Wait blocks until no goroutine is running. It is safe to call while other
// goroutines are still calling Go.
func (s *Scope) Wait() {
	s.mu.Lock()
	for s.active > 0 {
		s.idle.Wait()
	}
	s.mu.Unlock()
}

func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.Wait()
}
