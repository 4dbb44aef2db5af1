package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Default alert filters, matching the query the legacy consumers expect.
const (
	AlertUrgency   = "Immediate,Expected,Future"
	AlertSeverity  = "Extreme,Severe,Moderate"
	AlertCertainty = "Observed,Likely"
)

// Alert is one active hazard for a forecast zone.
type Alert struct {
	ID       string `json:"id"`
	Event    string `json:"event"`
	Headline string `json:"headline"`
	Severity string `json:"severity"`
}

// FetchActiveAlerts returns the active hazards for a forecast zone,
// filtered to the urgency/severity/certainty classes worth surfacing.
// An empty slice means no active hazards.
func (c *Client) FetchActiveAlerts(ctx context.Context, zone string) ([]Alert, error) {
	if zone == "" {
		return nil, fmt.Errorf("%w: forecast zone", ErrMissingField)
	}

	values := url.Values{}
	values.Set("zone", zone)
	values.Set("urgency", AlertUrgency)
	values.Set("severity", AlertSeverity)
	values.Set("certainty", AlertCertainty)
	values.Set("limit", "500")

	u := fmt.Sprintf("%s/alerts/active?%s", c.apiBaseURL, values.Encode())

	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("alerts fetch for %s: %w", zone, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Features []struct {
			ID         string `json:"id"`
			Properties struct {
				Event    string `json:"event"`
				Headline string `json:"headline"`
				Severity string `json:"severity"`
			} `json:"properties"`
		} `json:"features"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding alerts for %s: %w", zone, err)
	}

	alerts := make([]Alert, 0, len(payload.Features))
	for _, f := range payload.Features {
		alerts = append(alerts, Alert{
			ID:       f.ID,
			Event:    f.Properties.Event,
			Headline: f.Properties.Headline,
			Severity: f.Properties.Severity,
		})
	}

	return alerts, nil
}
