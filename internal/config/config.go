package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var (
	// ErrMissingInput is returned when an input or credential required for
	// a requested section is absent.
	ErrMissingInput = errors.New("missing required input")

	// ErrInvalidInput is returned when a supplied input fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

var validate = validator.New()

// AppConfig is the explicit configuration assembled once at startup and
// passed into each component; nothing else reads the process environment.
type AppConfig struct {
	// ZIP selects the forecast section; empty means no forecast.
	ZIP string `validate:"omitempty,len=5,numeric"`

	// GeocoderAPIKey is the Maps.co credential, required with ZIP.
	GeocoderAPIKey string

	// Airport selects the current-conditions section; empty means no
	// conditions. Station identifiers are ICAO-style, e.g. KSFO.
	Airport string `validate:"omitempty,alphanum,min=3,max=4"`

	// ForecastOnly skips current-conditions fetching entirely.
	ForecastOnly bool

	// Serve runs the HTTP endpoint instead of a one-shot fetch.
	Serve           bool
	Port            string
	RefreshInterval time.Duration

	HTTPTimeout time.Duration
}

// Flags carries explicit command-line values. An explicit flag always wins
// over its environment variable.
type Flags struct {
	ZIP            string
	GeocoderAPIKey string
	Airport        string
	ForecastOnly   bool
	Serve          bool
	Port           string
	Refresh        time.Duration
}

// Load assembles the configuration from flags and environment (flag wins)
// and validates that every requested section has the inputs it needs. All
// checks happen here, before any network call.
func Load(flags Flags) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		ZIP:             firstNonEmpty(flags.ZIP, os.Getenv("ZIP")),
		GeocoderAPIKey:  firstNonEmpty(flags.GeocoderAPIKey, os.Getenv("GC_API_KEY")),
		Airport:         firstNonEmpty(flags.Airport, os.Getenv("AIRPORT")),
		ForecastOnly:    flags.ForecastOnly,
		Serve:           flags.Serve,
		Port:            firstNonEmpty(flags.Port, getenvDefault("PORT", "8080")),
		RefreshInterval: flags.Refresh,
		HTTPTimeout:     10 * time.Second,
	}

	if cfg.RefreshInterval <= 0 {
		interval, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "15m"))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid REFRESH_INTERVAL: %v", ErrInvalidInput, err)
		}
		cfg.RefreshInterval = interval
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Section requirements. The forecast section is requested by a ZIP (or
	// forced by forecast-only mode); conditions by an airport identifier.
	if cfg.ForecastOnly && cfg.ZIP == "" {
		return nil, fmt.Errorf("%w: ZIP is required in forecast-only mode (flag --zip or env ZIP)", ErrMissingInput)
	}
	if cfg.ZIP != "" && cfg.GeocoderAPIKey == "" {
		return nil, fmt.Errorf("%w: geocoder API key is required with a ZIP (flag --gc_api_key or env GC_API_KEY)", ErrMissingInput)
	}
	if cfg.ZIP == "" && (cfg.ForecastOnly || cfg.Airport == "") {
		return nil, fmt.Errorf("%w: nothing to fetch; supply --zip and/or --airport", ErrMissingInput)
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
