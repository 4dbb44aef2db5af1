// Package report runs one fetch cycle: geocoding and forecast for a ZIP
// code, and the latest observation for an airport station. The two
// sections are independent; one failing never aborts the other.
package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mgrady78/weather-fetch/internal/format"
	"github.com/mgrady78/weather-fetch/internal/geocode"
	"github.com/mgrady78/weather-fetch/internal/nws"
)

// Params selects which sections a cycle fetches.
type Params struct {
	ZIP          string
	Airport      string
	ForecastOnly bool
}

// ForecastRequested reports whether the cycle should fetch a forecast.
func (p Params) ForecastRequested() bool {
	return p.ZIP != ""
}

// ConditionsRequested reports whether the cycle should fetch current
// conditions.
func (p Params) ConditionsRequested() bool {
	return p.Airport != "" && !p.ForecastOnly
}

// Report is the outcome of one fetch cycle. Section pointers are nil when
// the section was not requested or failed; per-section errors live in
// ForecastErr and ConditionsErr.
type Report struct {
	FetchedAt time.Time `json:"fetchedAt"`

	Forecast    *nws.Forecast    `json:"forecast,omitempty"`
	Place       format.Place     `json:"place"`
	Observation *nws.Observation `json:"observation,omitempty"`
	Alert       *nws.Alert       `json:"alert,omitempty"`

	ForecastErr   error `json:"-"`
	ConditionsErr error `json:"-"`
}

// Err joins the per-section errors; nil when every requested section
// succeeded.
func (r *Report) Err() error {
	return errors.Join(r.ForecastErr, r.ConditionsErr)
}

// ForecastString renders the delimited forecast record, or "" when the
// forecast section is absent.
func (r *Report) ForecastString() string {
	if r.Forecast == nil {
		return ""
	}
	return format.BuildForecastString(r.Forecast.Periods)
}

// ConditionString renders the delimited conditions record, or "" when the
// conditions section is absent.
func (r *Report) ConditionString() string {
	if r.Observation == nil {
		return ""
	}
	return format.BuildConditionString(r.Place, *r.Observation, r.Alert, r.ForecastString())
}

// Service wires the geocoder and the NWS client into fetch cycles.
type Service struct {
	geocoder *geocode.Client
	nws      *nws.Client
}

// NewService creates a new Service.
func NewService(geocoder *geocode.Client, nwsClient *nws.Client) *Service {
	return &Service{
		geocoder: geocoder,
		nws:      nwsClient,
	}
}

// Run executes one strictly sequential fetch cycle for the given params:
// geocode then forecast (then active alerts for the resolved zone), then
// the station observation. No call is retried; each section's failure is
// recorded on the report and the cycle moves on.
func (s *Service) Run(ctx context.Context, params Params) *Report {
	r := &Report{FetchedAt: time.Now().UTC()}

	if params.ForecastRequested() {
		s.runForecastSection(ctx, params.ZIP, r)
	}

	if params.ConditionsRequested() {
		s.runConditionsSection(ctx, params.Airport, r)
	}

	return r
}

func (s *Service) runForecastSection(ctx context.Context, zip string, r *Report) {
	coords, err := s.geocoder.Geocode(ctx, zip)
	if err != nil {
		r.ForecastErr = fmt.Errorf("geocoding: %w", err)
		return
	}

	forecast, err := s.nws.FetchForecast(ctx, coords)
	if err != nil {
		r.ForecastErr = fmt.Errorf("forecast: %w", err)
		return
	}

	r.Forecast = &forecast
	r.Place = format.Place{City: forecast.Grid.City, State: forecast.Grid.State}

	// Hazards ride along with the forecast section but are best effort: a
	// failed alerts call degrades the hazard fields to NA.
	if forecast.Grid.Zone != "" {
		alerts, err := s.nws.FetchActiveAlerts(ctx, forecast.Grid.Zone)
		if err != nil {
			log.Printf("alerts fetch failed for zone %s: %v", forecast.Grid.Zone, err)
		} else if len(alerts) > 0 {
			r.Alert = &alerts[0]
		}
	}
}

func (s *Service) runConditionsSection(ctx context.Context, airport string, r *Report) {
	obs, err := s.nws.FetchObservation(ctx, airport)
	if err != nil {
		r.ConditionsErr = fmt.Errorf("current conditions: %w", err)
		return
	}
	r.Observation = &obs
}
