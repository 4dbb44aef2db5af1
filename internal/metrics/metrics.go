// Package metrics derives perceived-temperature values from observed
// temperature, wind and humidity. All functions are pure.
package metrics

import "math"

// Magnus approximation constants for dew point.
const (
	magnusA = 17.27
	magnusB = 237.7
)

// WindChill computes the perceived temperature in Fahrenheit for the given
// air temperature (F) and wind speed (mph), rounded to one decimal.
//
// The standard formula is only defined at or below 50F with wind above
// 3 mph; outside that range ok is false rather than reporting an
// extrapolated number.
func WindChill(tempF, windMph float64) (float64, bool) {
	if tempF > 50 || windMph <= 3 {
		return 0, false
	}

	v := math.Pow(windMph, 0.16)
	chill := 35.74 + 0.6215*tempF - 35.75*v + 0.4275*tempF*v

	return math.Round(chill*10) / 10, true
}

// Humidex computes the perceived temperature in Celsius for the given air
// temperature (C) and relative humidity (percent), rounded to one decimal.
// The vapor pressure term comes from the Magnus dew-point approximation, so
// the result is only defined for humidity in (0, 100].
//
// Whenever humidity contributes positively the result is at or above the
// air temperature.
func Humidex(tempC, relHumidityPct float64) (float64, bool) {
	if relHumidityPct <= 0 || relHumidityPct > 100 {
		return 0, false
	}

	alpha := (magnusA*tempC)/(magnusB+tempC) + math.Log(relHumidityPct/100.0)
	dewpoint := (magnusB * alpha) / (magnusA - alpha)

	e := 6.11 * math.Exp(5417.7530*((1/273.16)-(1/(dewpoint+273.15))))
	humidex := tempC + 0.5555*(e-10.0)

	return math.Round(humidex*10) / 10, true
}
