package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// Config returns the value of an environment variable, loading .env on first use.
func Config(key string) string {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using process environment")
		}
	})
	return os.Getenv(key)
}

// ConfigOr returns Config(key) or def when the key is unset.
func ConfigOr(key, def string) string {
	if v := Config(key); v != "" {
		return v
	}
	return def
}

type ClientConfig struct {
	BaseURL          string
	Geocoder         string // google | nominatim | vietmap | proxy
	GoogleMapsAPIKey string
	NominatimURL     string
	VietmapAPIKey    string
	VietmapURL       string
	HTTPTimeout      time.Duration
}

const (
	GeocoderGoogle    = "google"
	GeocoderNominatim = "nominatim"
	GeocoderVietmap   = "vietmap"
	GeocoderProxy     = "proxy"
)

// LoadClient reads the client-side settings.
func LoadClient() (ClientConfig, error) {
	cfg := ClientConfig{
		BaseURL:          ConfigOr("API_BASE_URL", "http://localhost:8000"),
		Geocoder:         ConfigOr("GEOCODER", GeocoderProxy),
		GoogleMapsAPIKey: Config("GOOGLE_MAPS_API_KEY"),
		NominatimURL:     ConfigOr("NOMINATIM_URL", "https://nominatim.openstreetmap.org/reverse"),
		VietmapAPIKey:    Config("VIETMAP_API_KEY"),
		VietmapURL:       Config("VIETMAP_URL"),
		HTTPTimeout:      30 * time.Second,
	}

	if t := Config("HTTP_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", t, err)
		}
		cfg.HTTPTimeout = d
	}

	switch cfg.Geocoder {
	case GeocoderGoogle:
		if cfg.GoogleMapsAPIKey == "" {
			return ClientConfig{}, fmt.Errorf("GOOGLE_MAPS_API_KEY is required for the google geocoder")
		}
	case GeocoderVietmap:
		if cfg.VietmapAPIKey == "" {
			return ClientConfig{}, fmt.Errorf("VIETMAP_API_KEY is required for the vietmap geocoder")
		}
	case GeocoderNominatim, GeocoderProxy:
	default:
		return ClientConfig{}, fmt.Errorf("unknown GEOCODER %q", cfg.Geocoder)
	}

	return cfg, nil
}

// Port parses PORT, defaulting to 8000.
func Port() (int, error) {
	p := ConfigOr("PORT", "8000")
	port, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("invalid PORT %q: %w", p, err)
	}
	return port, nil
}
