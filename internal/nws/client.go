package nws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Default endpoints for the National Weather Service feeds.
const (
	DefaultAPIBaseURL = "https://api.weather.gov"
	DefaultObsBaseURL = "https://forecast.weather.gov/xml/current_obs"

	// NWS rejects requests without an identifying User-Agent.
	userAgent = "weather-fetch (github.com/mgrady78/weather-fetch)"
)

var (
	// ErrBadStatus is matched (via errors.Is) by any StatusError.
	ErrBadStatus = errors.New("unexpected status code")

	// ErrMissingField is returned when a response parses but lacks a field
	// the caller cannot proceed without.
	ErrMissingField = errors.New("missing expected field")

	// ErrGridResolution is returned when the points lookup cannot map
	// coordinates to a forecast grid (outside NWS coverage).
	ErrGridResolution = errors.New("cannot resolve coordinates to a forecast grid")
)

// StatusError reports a non-2xx answer from a feed.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrBadStatus
}

// Client talks to the NWS JSON API and the current-observations XML feed.
type Client struct {
	apiBaseURL string
	obsBaseURL string
	client     *http.Client
	circuit    *gobreaker.CircuitBreaker
}

// NewClient creates an NWS client. Empty base URLs select the production
// endpoints.
func NewClient(client *http.Client, apiBaseURL, obsBaseURL string) *Client {
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}
	if obsBaseURL == "" {
		obsBaseURL = DefaultObsBaseURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nws",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiBaseURL: apiBaseURL,
		obsBaseURL: obsBaseURL,
		client:     client,
		circuit:    cb,
	}
}

// get issues a single GET through the circuit breaker. Every outbound NWS
// call goes through here; there is deliberately no retry loop.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/geo+json, application/json, application/xml, text/xml")

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &StatusError{Code: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*http.Response), nil
}
