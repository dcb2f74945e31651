package helper

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"opta/geocode"
	"opta/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = RedisClient.Close()
		RedisClient = nil
	})
	return mr
}

func TestCacheDisabledWithoutRedis(t *testing.T) {
	RedisClient = nil
	ctx := context.Background()

	cacheSet(ctx, "k", "v", time.Minute)
	var out string
	assert.False(t, cacheGet(ctx, "k", &out))
	cacheDel(ctx, "k")
}

func TestCacheRoundTrip(t *testing.T) {
	mr := withRedis(t)
	ctx := context.Background()

	want := []model.SavedAddress{{Address: "12B, Oak Rd", Tag: "home"}}
	cacheSet(ctx, addressCacheKey(7), want, time.Minute)
	assert.True(t, mr.Exists("addresses:7"))

	var got []model.SavedAddress
	require.True(t, cacheGet(ctx, addressCacheKey(7), &got))
	assert.Equal(t, want, got)

	mr.FastForward(2 * time.Minute)
	assert.False(t, cacheGet(ctx, addressCacheKey(7), &got))

	cacheSet(ctx, "x", 1, time.Minute)
	cacheDel(ctx, "x")
	assert.False(t, mr.Exists("x"))
}

func TestReverseGeocodeCaches(t *testing.T) {
	mr := withRedis(t)

	var calls atomic.Int32
	Geocoder = geocode.ResolverFunc(func(_ context.Context, c model.Coordinate) (string, error) {
		calls.Add(1)
		return "123 Main St, Springfield, IL", nil
	})
	t.Cleanup(func() { Geocoder = nil })

	c := model.Coordinate{Latitude: 39.781721, Longitude: -89.650148}
	for i := 0; i < 3; i++ {
		got, err := ReverseGeocode(context.Background(), c)
		require.NoError(t, err)
		assert.Equal(t, "123 Main St, Springfield, IL", got)
	}
	assert.EqualValues(t, 1, calls.Load())
	assert.True(t, mr.Exists("geocode:39.7817:-89.6501"))
}

func TestReverseGeocodeSurvivesCancelledCaller(t *testing.T) {
	RedisClient = nil

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	var lookupErr atomic.Value
	Geocoder = geocode.ResolverFunc(func(ctx context.Context, c model.Coordinate) (string, error) {
		calls.Add(1)
		close(started)
		<-release
		lookupErr.Store(fmt.Sprint(ctx.Err()))
		return "9 Elm St, Decatur, IL", nil
	})
	t.Cleanup(func() { Geocoder = nil })

	c := model.Coordinate{Latitude: 39.8403, Longitude: -88.9548}
	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := ReverseGeocode(firstCtx, c)
		firstErr <- err
	}()
	<-started

	type result struct {
		addr string
		err  error
	}
	second := make(chan result, 1)
	go func() {
		addr, err := ReverseGeocode(context.Background(), c)
		second <- result{addr, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	time.Sleep(50 * time.Millisecond)
	close(release)

	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "9 Elm St, Decatur, IL", res.addr)
	assert.Equal(t, "<nil>", lookupErr.Load())
	assert.EqualValues(t, 1, calls.Load())
}

func TestReverseGeocodeWithoutProvider(t *testing.T) {
	RedisClient = nil
	Geocoder = nil
	_, err := ReverseGeocode(context.Background(), model.Coordinate{})
	assert.ErrorIs(t, err, geocode.ErrResolution)
}
