package nws

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"

	"golang.org/x/net/html/charset"
)

// Observation is the latest report from one weather-observing station.
// Pointer fields are optional in the feed; nil means the station did not
// report them, which downstream rendering degrades to "unavailable" rather
// than failing the whole fetch.
type Observation struct {
	XMLName xml.Name `xml:"current_observation" json:"-"`

	Location  string `xml:"location" json:"location"`
	StationID string `xml:"station_id" json:"stationId"`
	Weather   string `xml:"weather" json:"weather"`

	TempF *float64 `xml:"temp_f" json:"tempF"`
	TempC *float64 `xml:"temp_c" json:"tempC"`

	TemperatureString *string  `xml:"temperature_string" json:"temperatureString,omitempty"`
	ObservationTime   *string  `xml:"observation_time" json:"observationTime,omitempty"`
	RelativeHumidity  *float64 `xml:"relative_humidity" json:"relativeHumidity,omitempty"`
	WindString        *string  `xml:"wind_string" json:"windString,omitempty"`
	WindDir           *string  `xml:"wind_dir" json:"windDir,omitempty"`
	WindMph           *float64 `xml:"wind_mph" json:"windMph,omitempty"`
	PressureString    *string  `xml:"pressure_string" json:"pressureString,omitempty"`
	PressureIn        *float64 `xml:"pressure_in" json:"pressureIn,omitempty"`
	DewpointF         *float64 `xml:"dewpoint_f" json:"dewpointF,omitempty"`
	DewpointC         *float64 `xml:"dewpoint_c" json:"dewpointC,omitempty"`
	VisibilityMi      *float64 `xml:"visibility_mi" json:"visibilityMi,omitempty"`
}

// FetchObservation retrieves and parses the latest observation for an
// airport station identifier (e.g. KSFO).
//
// Current conditions are not available at arbitrary coordinates from the
// forecast API, so the nearest observing airport's last report stands in
// for a live point reading.
func (c *Client) FetchObservation(ctx context.Context, station string) (Observation, error) {
	u := fmt.Sprintf("%s/display.php?stid=%s", c.obsBaseURL, url.QueryEscape(station))

	resp, err := c.get(ctx, u)
	if err != nil {
		return Observation{}, fmt.Errorf("observation fetch for %s: %w", station, err)
	}
	defer resp.Body.Close()

	// The feed declares ISO-8859-1, which encoding/xml does not handle on
	// its own.
	dec := xml.NewDecoder(resp.Body)
	dec.CharsetReader = charset.NewReaderLabel

	var obs Observation
	if err := dec.Decode(&obs); err != nil {
		return Observation{}, fmt.Errorf("decoding observation for %s: %w", station, err)
	}

	// Without a location, a condition text, and a temperature there is
	// nothing useful to report; the station is likely offline.
	if obs.Location == "" || obs.Weather == "" {
		return Observation{}, fmt.Errorf("%w: location or weather for %s", ErrMissingField, station)
	}
	if obs.TempF == nil {
		return Observation{}, fmt.Errorf("%w: temp_f for %s", ErrMissingField, station)
	}

	return obs, nil
}
