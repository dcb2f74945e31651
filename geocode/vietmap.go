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

const DefaultVietmapURL = "https://maps.vietmap.vn/api/reverse/v3"

// Vietmap resolves through the Vietmap reverse geocoding API.
type Vietmap struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewVietmap(baseURL, apiKey string, client *http.Client) *Vietmap {
	if baseURL == "" {
		baseURL = DefaultVietmapURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Vietmap{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

type vietmapPlace struct {
	Display string `json:"display"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (v *Vietmap) Resolve(ctx context.Context, c model.Coordinate) (string, error) {
	q := url.Values{}
	q.Set("apikey", v.APIKey)
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(c.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResolution, err)
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: vietmap status %d", ErrResolution, resp.StatusCode)
	}

	var places []vietmapPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrResolution, err)
	}
	for _, p := range places {
		if p.Display != "" {
			return p.Display, nil
		}
		if p.Name != "" && p.Address != "" {
			return p.Name + ", " + p.Address, nil
		}
	}
	return "", fmt.Errorf("%w for %f,%f", ErrNoResults, c.Latitude, c.Longitude)
}
