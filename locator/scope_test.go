package locator

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeCloseCancelsAndWaits(t *testing.T) {
	s := NewScope(context.Background())

	var finished atomic.Bool
	started := make(chan struct{})
	require.True(t, s.Go(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		finished.Store(true)
	}))
	<-started

	s.Close()
	assert.True(t, finished.Load())
	assert.True(t, s.Closed())
	assert.ErrorIs(t, s.Context().Err(), context.Canceled)

	assert.False(t, s.Go(func(context.Context) { t.Error("ran after close") }))
	s.Close()
}

func TestScopeBind(t *testing.T) {
	s := NewScope(context.Background())

	ctx, cancel := s.Bind(context.Background())
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.NoError(t, s.Context().Err(), "releasing a bound context leaves the scope running")

	ctx, cancel = s.Bind(context.Background())
	defer cancel()
	s.Close()
	require.Eventually(t, func() bool { return ctx.Err() != nil }, time.Second, time.Millisecond)
}

func TestScopeWaitWhileStarting(t *testing.T) {
	s := NewScope(context.Background())
	defer s.Close()

	var started, finished atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if s.Go(func(context.Context) {
					time.Sleep(time.Microsecond)
					finished.Add(1)
				}) {
					started.Add(1)
				}
				if j%10 == 0 {
					s.Wait()
				}
			}
		}()
	}
	wg.Wait()

	s.Wait()
	assert.Equal(t, int32(400), started.Load())
	assert.Equal(t, started.Load(), finished.Load())
}
