// Package geocode resolves addresses to coordinates through LocationIQ.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oksasatya/go-places-api/internal/application"
	"github.com/oksasatya/go-places-api/internal/domain/entity"
)

const DefaultURL = "https://us1.locationiq.com/v1/search"

// LocationIQ implements application.Geocoder using the LocationIQ search API.
type LocationIQ struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewLocationIQ(apiKey, baseURL string, timeout time.Duration) *LocationIQ {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LocationIQ{APIKey: apiKey, BaseURL: baseURL, Client: &http.Client{Timeout: timeout}}
}

var _ application.Geocoder = (*LocationIQ)(nil)

func (g *LocationIQ) Geocode(ctx context.Context, address string) (entity.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return entity.Location{}, application.ErrNoLocation
	}
	if g.APIKey == "" {
		return entity.Location{}, errors.New("geocoder api key not configured")
	}

	q := url.Values{}
	q.Set("key", g.APIKey)
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return entity.Location{}, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return entity.Location{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	// LocationIQ answers 404 when nothing matches.
	if resp.StatusCode == http.StatusNotFound {
		return entity.Location{}, application.ErrNoLocation
	}
	if resp.StatusCode != http.StatusOK {
		return entity.Location{}, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	var body []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entity.Location{}, err
	}
	if len(body) == 0 {
		return entity.Location{}, application.ErrNoLocation
	}
	lat, err := strconv.ParseFloat(body[0].Lat, 64)
	if err != nil {
		return entity.Location{}, fmt.Errorf("bad latitude %q: %w", body[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(body[0].Lon, 64)
	if err != nil {
		return entity.Location{}, fmt.Errorf("bad longitude %q: %w", body[0].Lon, err)
	}
	return entity.Location{Lat: lat, Long: lon}, nil
}
