package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadClientDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("GEOCODER", "")
	t.Setenv("HTTP_TIMEOUT", "")

	cfg, err := LoadClient()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.BaseURL)
	require.Equal(t, GeocoderProxy, cfg.Geocoder)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoadClientGoogleNeedsKey(t *testing.T) {
	t.Setenv("GEOCODER", GeocoderGoogle)
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	_, err := LoadClient()
	require.Error(t, err)
}

func TestLoadClientVietmap(t *testing.T) {
	t.Setenv("GEOCODER", GeocoderVietmap)
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("VIETMAP_API_KEY", "")

	_, err := LoadClient()
	require.ErrorContains(t, err, "VIETMAP_API_KEY")

	t.Setenv("VIETMAP_API_KEY", "vm-key")
	cfg, err := LoadClient()
	require.NoError(t, err)
	require.Equal(t, "vm-key", cfg.VietmapAPIKey)
}

func TestLoadClientUnknownGeocoder(t *testing.T) {
	t.Setenv("GEOCODER", "carrier-pigeon")
	t.Setenv("HTTP_TIMEOUT", "")

	_, err := LoadClient()
	require.ErrorContains(t, err, "carrier-pigeon")
}

func TestLoadClientBadTimeout(t *testing.T) {
	t.Setenv("GEOCODER", "")
	t.Setenv("HTTP_TIMEOUT", "soon")

	_, err := LoadClient()
	require.ErrorContains(t, err, "HTTP_TIMEOUT")
}

func TestPort(t *testing.T) {
	t.Setenv("PORT", "9001")
	p, err := Port()
	require.NoError(t, err)
	require.Equal(t, 9001, p)

	t.Setenv("PORT", "x")
	_, err = Port()
	require.Error(t, err)
}
