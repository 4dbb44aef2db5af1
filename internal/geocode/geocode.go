package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultBaseURL is the Maps.co geocoding search endpoint.
const DefaultBaseURL = "https://geocode.maps.co/search"

var (
	// ErrNoResults is returned when the geocoding service finds nothing for
	// the requested postal code.
	ErrNoResults = errors.New("no geocoding results")

	errBadStatus     = errors.New("unexpected geocoder status")
	errMissingCoords = errors.New("latitude or longitude missing in geocoding response")
)

// Coordinates is a latitude/longitude pair resolved from a postal code.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Client looks up coordinates for US ZIP codes via the Maps.co search API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a geocoding client. An empty baseURL selects the
// production endpoint.
func NewClient(client *http.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "geocoder",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: cb,
	}
}

// Geocode resolves a ZIP code to the first result's coordinate pair.
// A single request is issued; there is no retry.
func (c *Client) Geocode(ctx context.Context, zip string) (Coordinates, error) {
	if zip == "" {
		return Coordinates{}, fmt.Errorf("%w: empty zip code", ErrNoResults)
	}
	if c.apiKey == "" {
		return Coordinates{}, fmt.Errorf("geocoder api key is not configured")
	}

	values := url.Values{}
	values.Set("q", zip)
	values.Set("api_key", c.apiKey)

	u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Coordinates{}, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errBadStatus, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoding %q: %w", zip, err)
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	// Maps.co returns a JSON array of candidate places, best match first,
	// with lat/lon encoded as strings.
	var payload []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Coordinates{}, fmt.Errorf("decoding geocoding response: %w", err)
	}

	if len(payload) == 0 {
		return Coordinates{}, fmt.Errorf("%w for %q", ErrNoResults, zip)
	}

	best := payload[0]
	if best.Lat == "" || best.Lon == "" {
		return Coordinates{}, errMissingCoords
	}

	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", errMissingCoords, err)
	}
	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", errMissingCoords, err)
	}

	return Coordinates{Lat: lat, Lon: lon}, nil
}
