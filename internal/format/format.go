// Package format renders forecasts and observations into the two output
// shapes the program produces: human-readable multi-line text, and a flat
// delimited record consumed by a legacy mobile client. All functions are
// pure rendering; nothing here fetches or mutates data.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mgrady78/weather-fetch/internal/common"
	"github.com/mgrady78/weather-fetch/internal/metrics"
	"github.com/mgrady78/weather-fetch/internal/nws"
)

// Delimiters of the mobile-client record format. The client splits
// positionally on RecordSep, so FieldSep has to be a sequence that never
// occurs inside forecast text. Both are part of the wire contract; do not
// change them without changing the client.
const (
	FieldSep  = "__,.,__"
	RecordSep = ";"

	// Unavailable marks a field the station or feed did not report.
	Unavailable = "NA"
)

// Place is the named location a forecast grid resolved to.
type Place struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// BuildForecastString renders forecast periods into the delimited record
// format: one "Name:Short__,.,__High|Low:temp__,.,__Detailed" entry per
// period, joined by RecordSep, in input order.
//
// Whether a period's temperature is a high or a low follows the detailed
// text; the last seen wording sticks across periods since the feed
// alternates day and night entries.
func BuildForecastString(periods []nws.Period) string {
	if len(periods) == 0 {
		return ""
	}

	entries := make([]string, 0, len(periods))
	highOrLow := "High"

	for _, p := range periods {
		if common.HasAny(p.DetailedForecast, "with a low", "low around") {
			highOrLow = "Low"
		} else if common.HasAny(p.DetailedForecast, "with a high", "high near") {
			highOrLow = "High"
		}

		entries = append(entries, fmt.Sprintf("%s:%s%s%s:%d%s%s",
			p.Name, p.ShortForecast,
			FieldSep, highOrLow, int(p.Temperature),
			FieldSep, p.DetailedForecast))
	}

	return strings.Join(entries, RecordSep)
}

// BuildConditionString renders one observation (plus derived metrics and
// any active hazard) into a single delimited record. Field order is fixed:
//
//	loc, temp, dew, cond, wdir, speed, humid, obstime, chill, humidx,
//	gust, srise, sset, mrise, mset, hazard, hazardurl, :FCAST:, <forecast>
//
// Every field is always present; unavailable values render as NA so the
// client can split positionally. The trailing forecast segment is the
// BuildForecastString output for the same location, or empty when only
// conditions were fetched.
func BuildConditionString(place Place, obs nws.Observation, alert *nws.Alert, forecastString string) string {
	pairs := []string{
		fmt.Sprintf("loc:%s,%s", place.City, place.State),
		"temp:" + naInt(obs.TempF),
		"dew:" + naInt(obs.DewpointF),
		"cond:" + obs.Weather,
		"wdir:" + naString(obs.WindDir),
		"speed:" + naFloat(obs.WindMph),
		"humid:" + naFloat(obs.RelativeHumidity),
		"obstime:" + naString(obs.ObservationTime),
	}

	chill := Unavailable
	if obs.TempF != nil && obs.WindMph != nil {
		if v, ok := metrics.WindChill(*obs.TempF, *obs.WindMph); ok {
			chill = formatMetric(v)
		}
	}
	pairs = append(pairs, "chill:"+chill)

	humidex := Unavailable
	if obs.TempC != nil && obs.RelativeHumidity != nil {
		if v, ok := metrics.Humidex(*obs.TempC, *obs.RelativeHumidity); ok {
			humidex = formatMetric(v)
		}
	}
	pairs = append(pairs, "humidx:"+humidex)

	// Fields the observation feed never carries; the client still expects
	// the slots (lowercase na for the astronomical ones, historically).
	pairs = append(pairs,
		"gust:NA",
		"srise:na",
		"sset:na",
		"mrise:na",
		"mset:na",
	)

	hazard, hazardURL := Unavailable, Unavailable
	if alert != nil {
		if alert.Headline != "" {
			hazard = alert.Headline
		} else if alert.Event != "" {
			hazard = alert.Event
		}
		if alert.ID != "" {
			hazardURL = alert.ID
		}
	}
	pairs = append(pairs, "hazard:"+hazard, "hazardurl:"+hazardURL)

	pairs = append(pairs, ":FCAST:", forecastString)

	return strings.Join(pairs, RecordSep)
}

// RenderForecast renders a forecast as the human-readable multi-line
// block: header with update time and zone, then one block per period in
// input order.
func RenderForecast(f nws.Forecast) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Update Time: %s\n", f.UpdateTime.Format(time.RFC3339))
	if f.Grid.Zone != "" {
		fmt.Fprintf(&b, "Forecast Zone: %s\n", f.Grid.Zone)
	}
	if f.Grid.City != "" {
		fmt.Fprintf(&b, "Location: %s, %s\n", f.Grid.City, f.Grid.State)
	}
	b.WriteString("Weather Forecast:\n")

	for _, p := range f.Periods {
		fmt.Fprintf(&b, "\n%s (%s to %s)\n", p.Name, p.StartTime, p.EndTime)
		fmt.Fprintf(&b, "  Temperature: %d %s", int(p.Temperature), p.TemperatureUnit)
		if p.TemperatureTrend != "" {
			fmt.Fprintf(&b, " (%s)", p.TemperatureTrend)
		}
		b.WriteString("\n")
		if p.PrecipChance != nil {
			fmt.Fprintf(&b, "  Chance of Precipitation: %d%%\n", int(*p.PrecipChance))
		}
		fmt.Fprintf(&b, "  Wind: %s %s\n", p.WindSpeed, p.WindDirection)
		fmt.Fprintf(&b, "  %s\n", p.ShortForecast)
		if p.DetailedForecast != "" {
			fmt.Fprintf(&b, "  %s\n", p.DetailedForecast)
		}
	}

	return b.String()
}

// RenderObservation renders an observation and its derived metrics as the
// human-readable current-conditions block.
func RenderObservation(obs nws.Observation) string {
	var b strings.Builder

	b.WriteString("Current Conditions:\n")
	fmt.Fprintf(&b, "  Location: %s\n", obs.Location)
	fmt.Fprintf(&b, "  Weather: %s\n", obs.Weather)

	if obs.TemperatureString != nil {
		fmt.Fprintf(&b, "  Temperature: %s\n", *obs.TemperatureString)
	} else {
		fmt.Fprintf(&b, "  Temperature: %s F\n", naFloat(obs.TempF))
	}
	if obs.WindString != nil {
		fmt.Fprintf(&b, "  Wind: %s\n", *obs.WindString)
	} else {
		fmt.Fprintf(&b, "  Wind: %s at %s mph\n", naString(obs.WindDir), naFloat(obs.WindMph))
	}
	fmt.Fprintf(&b, "  Pressure: %s\n", naString(obs.PressureString))
	fmt.Fprintf(&b, "  Humidity: %s%%\n", naFloat(obs.RelativeHumidity))
	fmt.Fprintf(&b, "  Dew Point: %s F\n", naFloat(obs.DewpointF))

	if obs.TempF != nil && obs.WindMph != nil {
		if v, ok := metrics.WindChill(*obs.TempF, *obs.WindMph); ok {
			fmt.Fprintf(&b, "  Wind Chill: %s F\n", formatMetric(v))
		}
	}
	if obs.TempC != nil && obs.RelativeHumidity != nil {
		if v, ok := metrics.Humidex(*obs.TempC, *obs.RelativeHumidity); ok {
			fmt.Fprintf(&b, "  Humidex: %s C\n", formatMetric(v))
		}
	}

	if obs.ObservationTime != nil {
		fmt.Fprintf(&b, "  Observed: %s\n", *obs.ObservationTime)
	}

	return b.String()
}

func naString(p *string) string {
	if p == nil || *p == "" {
		return Unavailable
	}
	return *p
}

func naFloat(p *float64) string {
	if p == nil {
		return Unavailable
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func naInt(p *float64) string {
	if p == nil {
		return Unavailable
	}
	return strconv.Itoa(int(*p))
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
