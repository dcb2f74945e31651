package helper

import (
	"context"
	"fmt"
	"log"
	"time"

	"opta/config"
	"opta/geocode"
	"opta/model"

	"golang.org/x/sync/singleflight"
)

const (
	GeocodeCacheTTL = 24 * time.Hour
	// GeocodeLookupTimeout bounds a shared upstream lookup once it is detached from its caller.
	GeocodeLookupTimeout = 15 * time.Second
)

// Geocoder is the upstream provider behind /geocode/reverse.
var Geocoder geocode.Resolver

var geocodeGroup singleflight.Group

// SetupGeocoder picks the upstream provider from GEOCODER (google, nominatim or vietmap).
func SetupGeocoder() error {
	cfg := config.ClientConfig{
		Geocoder:         config.ConfigOr("GEOCODER", config.GeocoderNominatim),
		GoogleMapsAPIKey: config.Config("GOOGLE_MAPS_API_KEY"),
		NominatimURL:     config.ConfigOr("NOMINATIM_URL", geocode.DefaultNominatimURL),
		VietmapAPIKey:    config.Config("VIETMAP_API_KEY"),
		VietmapURL:       config.ConfigOr("VIETMAP_URL", geocode.DefaultVietmapURL),
		HTTPTimeout:      15 * time.Second,
	}
	if cfg.Geocoder == config.GeocoderProxy {
		return fmt.Errorf("GEOCODER=proxy would point the server at itself")
	}

	r, err := geocode.New(cfg)
	if err != nil {
		return err
	}
	Geocoder = r
	log.Printf("Reverse geocoder: %s", cfg.Geocoder)
	return nil
}

func geocodeCacheKey(c model.Coordinate) string {
	return fmt.Sprintf("geocode:%.4f:%.4f", c.Latitude, c.Longitude)
}

// ReverseGeocode resolves through the cache, collapsing identical concurrent lookups.
func ReverseGeocode(ctx context.Context, c model.Coordinate) (string, error) {
	if Geocoder == nil {
		return "", fmt.Errorf("%w: no geocoder configured", geocode.ErrResolution)
	}

	key := geocodeCacheKey(c)
	var formatted string
	if cacheGet(ctx, key, &formatted) {
		return formatted, nil
	}

	// The lookup outlives any one caller so a cancelled request cannot fail the others waiting on it.
	ch := geocodeGroup.DoChan(key, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), GeocodeLookupTimeout)
		defer cancel()
		addr, err := Geocoder.Resolve(lookupCtx, c)
		if err != nil {
			return "", err
		}
		cacheSet(lookupCtx, key, addr, GeocodeCacheTTL)
		return addr, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			log.Printf("geocode %s served from in-flight lookup", key)
		}
		return res.Val.(string), nil
	}
}
