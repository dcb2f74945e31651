package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"opta/model"
)

// Proxy resolves through the backend's /geocode/reverse endpoint.
type Proxy struct {
	BaseURL string
	Client  *http.Client
}

func NewProxy(baseURL string, client *http.Client) *Proxy {
	if client == nil {
		client = http.DefaultClient
	}
	return &Proxy{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

func (p *Proxy) Resolve(ctx context.Context, c model.Coordinate) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(c.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/geocode/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResolution, err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body model.ErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: %s", ErrNoResults, body.Detail)
		}
		return "", fmt.Errorf("%w: status %d %s", ErrResolution, resp.StatusCode, body.Detail)
	}

	var out model.ReverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrResolution, err)
	}
	if out.FormattedAddress == "" {
		return "", fmt.Errorf("%w: empty address", ErrNoResults)
	}
	return out.FormattedAddress, nil
}
