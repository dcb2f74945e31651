package geocode

import (
	"fmt"
	"net/http"

	"opta/config"

	"googlemaps.github.io/maps"
)

// New builds the resolver selected by cfg.Geocoder.
func New(cfg config.ClientConfig) (Resolver, error) {
	client := &http.Client{Timeout: cfg.HTTPTimeout}

	switch cfg.Geocoder {
	case config.GeocoderGoogle:
		return NewGoogle(cfg.GoogleMapsAPIKey, maps.WithHTTPClient(client))
	case config.GeocoderNominatim:
		return NewNominatim(cfg.NominatimURL, client), nil
	case config.GeocoderVietmap:
		return NewVietmap(cfg.VietmapURL, cfg.VietmapAPIKey, client), nil
	case config.GeocoderProxy:
		return NewProxy(cfg.BaseURL, client), nil
	}
	return nil, fmt.Errorf("unknown geocoder %q", cfg.Geocoder)
}
