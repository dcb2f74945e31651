package geocode

import (
	"context"
	"fmt"
	"strings"

	"opta/model"

	"googlemaps.github.io/maps"
)

// Google resolves through the Google Maps Geocoding API.
type Google struct {
	client *maps.Client
}

func NewGoogle(apiKey string, opts ...maps.ClientOption) (*Google, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("google geocoder: %w", err)
	}
	return &Google{client: client}, nil
}

func (g *Google) Resolve(ctx context.Context, c model.Coordinate) (string, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: c.Latitude, Lng: c.Longitude},
	})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return "", fmt.Errorf("%w for %f,%f", ErrNoResults, c.Latitude, c.Longitude)
		}
		return "", fmt.Errorf("%w: %v", ErrResolution, err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("%w for %f,%f", ErrNoResults, c.Latitude, c.Longitude)
	}
	return results[0].FormattedAddress, nil
}
