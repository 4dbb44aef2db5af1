package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mgrady78/weather-fetch/internal/geocode"
)

// Period is one entry of the NWS multi-period forecast, usually half a day.
// Order and content follow the provider document.
type Period struct {
	Number           int      `json:"number"`
	Name             string   `json:"name"`
	StartTime        string   `json:"startTime"`
	EndTime          string   `json:"endTime"`
	IsDaytime        bool     `json:"isDaytime"`
	Temperature      float64  `json:"temperature"`
	TemperatureUnit  string   `json:"temperatureUnit"`
	TemperatureTrend string   `json:"temperatureTrend"`
	PrecipChance     *float64 `json:"precipChance,omitempty"`
	WindSpeed        string   `json:"windSpeed"`
	WindDirection    string   `json:"windDirection"`
	Icon             string   `json:"icon"`
	ShortForecast    string   `json:"shortForecast"`
	DetailedForecast string   `json:"detailedForecast"`
}

// GridPoint is what the points lookup resolves a coordinate pair to: the
// forecast document URL plus the forecast zone and nearest named place.
type GridPoint struct {
	ForecastURL     string `json:"forecastUrl"`
	ForecastZoneURL string `json:"forecastZoneUrl"`
	Zone            string `json:"zone"`
	City            string `json:"city"`
	State           string `json:"state"`
}

// Forecast is an ordered multi-period forecast for one grid point.
type Forecast struct {
	Grid       GridPoint `json:"grid"`
	UpdateTime time.Time `json:"updateTime"`
	Periods    []Period  `json:"periods"`
}

// ResolveGrid maps coordinates to a forecast grid via the points endpoint.
func (c *Client) ResolveGrid(ctx context.Context, coords geocode.Coordinates) (GridPoint, error) {
	u := fmt.Sprintf("%s/points/%.4f,%.4f", c.apiBaseURL, coords.Lat, coords.Lon)

	resp, err := c.get(ctx, u)
	if err != nil {
		// A 404 from the points endpoint means the coordinates fall outside
		// NWS coverage, not a transient failure.
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return GridPoint{}, fmt.Errorf("%w: %.4f,%.4f", ErrGridResolution, coords.Lat, coords.Lon)
		}
		return GridPoint{}, fmt.Errorf("points lookup: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			Forecast         string `json:"forecast"`
			ForecastZone     string `json:"forecastZone"`
			RelativeLocation struct {
				Properties struct {
					City  string `json:"city"`
					State string `json:"state"`
				} `json:"properties"`
			} `json:"relativeLocation"`
		} `json:"properties"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return GridPoint{}, fmt.Errorf("decoding points response: %w", err)
	}

	if payload.Properties.Forecast == "" {
		return GridPoint{}, fmt.Errorf("%w: no forecast URL for %.4f,%.4f", ErrGridResolution, coords.Lat, coords.Lon)
	}

	grid := GridPoint{
		ForecastURL:     payload.Properties.Forecast,
		ForecastZoneURL: payload.Properties.ForecastZone,
		City:            payload.Properties.RelativeLocation.Properties.City,
		State:           payload.Properties.RelativeLocation.Properties.State,
	}

	// The zone id is the last segment of a URL like
	// https://api.weather.gov/zones/forecast/CAZ063.
	if grid.ForecastZoneURL != "" {
		parts := strings.Split(grid.ForecastZoneURL, "/")
		grid.Zone = parts[len(parts)-1]
	}

	return grid, nil
}

// FetchForecast resolves the grid for the given coordinates and retrieves
// the multi-period forecast document, preserving the provider's period
// order.
func (c *Client) FetchForecast(ctx context.Context, coords geocode.Coordinates) (Forecast, error) {
	grid, err := c.ResolveGrid(ctx, coords)
	if err != nil {
		return Forecast{}, err
	}

	resp, err := c.get(ctx, grid.ForecastURL)
	if err != nil {
		return Forecast{}, fmt.Errorf("forecast fetch: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			UpdateTime string `json:"updateTime"`
			Periods    []struct {
				Number                     int     `json:"number"`
				Name                       string  `json:"name"`
				StartTime                  string  `json:"startTime"`
				EndTime                    string  `json:"endTime"`
				IsDaytime                  bool    `json:"isDaytime"`
				Temperature                float64 `json:"temperature"`
				TemperatureUnit            string  `json:"temperatureUnit"`
				TemperatureTrend           string  `json:"temperatureTrend"`
				ProbabilityOfPrecipitation struct {
					Value *float64 `json:"value"`
				} `json:"probabilityOfPrecipitation"`
				WindSpeed        string `json:"windSpeed"`
				WindDirection    string `json:"windDirection"`
				Icon             string `json:"icon"`
				ShortForecast    string `json:"shortForecast"`
				DetailedForecast string `json:"detailedForecast"`
			} `json:"periods"`
		} `json:"properties"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Forecast{}, fmt.Errorf("decoding forecast response: %w", err)
	}

	if len(payload.Properties.Periods) == 0 {
		return Forecast{}, fmt.Errorf("%w: periods", ErrMissingField)
	}

	updateTime, err := time.Parse(time.RFC3339, payload.Properties.UpdateTime)
	if err != nil {
		updateTime = time.Now().UTC()
	}

	periods := make([]Period, 0, len(payload.Properties.Periods))
	for _, p := range payload.Properties.Periods {
		periods = append(periods, Period{
			Number:           p.Number,
			Name:             p.Name,
			StartTime:        p.StartTime,
			EndTime:          p.EndTime,
			IsDaytime:        p.IsDaytime,
			Temperature:      p.Temperature,
			TemperatureUnit:  p.TemperatureUnit,
			TemperatureTrend: p.TemperatureTrend,
			PrecipChance:     p.ProbabilityOfPrecipitation.Value,
			WindSpeed:        p.WindSpeed,
			WindDirection:    p.WindDirection,
			Icon:             p.Icon,
			ShortForecast:    p.ShortForecast,
			DetailedForecast: p.DetailedForecast,
		})
	}

	return Forecast{
		Grid:       grid,
		UpdateTime: updateTime,
		Periods:    periods,
	}, nil
}
