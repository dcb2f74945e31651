package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"opta/model"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org/reverse"

// Nominatim resolves through an OpenStreetMap Nominatim reverse endpoint.
type Nominatim struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewNominatim(baseURL string, client *http.Client) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Nominatim{
		BaseURL:   baseURL,
		UserAgent: "OptaDelivery/1.0",
		Client:    client,
	}
}

func (n *Nominatim) Resolve(ctx context.Context, c model.Coordinate) (string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResolution, err)
	}
	req.Header.Set("User-Agent", n.UserAgent)

	resp, err := n.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: nominatim status %d", ErrResolution, resp.StatusCode)
	}

	var result struct {
		DisplayName string `json:"display_name"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrResolution, err)
	}
	if result.Error != "" || result.DisplayName == "" {
		return "", fmt.Errorf("%w for %f,%f", ErrNoResults, c.Latitude, c.Longitude)
	}
	return result.DisplayName, nil
}
