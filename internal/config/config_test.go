package config

import (
	"errors"
	"testing"
	"time"
)

func baseFlags() Flags {
	return Flags{
		ZIP:            "93142",
		GeocoderAPIKey: "key",
		Airport:        "KSFO",
		Refresh:        15 * time.Minute,
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ZIP", "GC_API_KEY", "AIRPORT", "PORT", "REFRESH_INTERVAL"} {
		t.Setenv(key, "")
	}
}

func TestLoadMissingGeocoderKey(t *testing.T) {
	clearEnv(t)

	flags := baseFlags()
	flags.GeocoderAPIKey = ""

	_, err := Load(flags)
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("error = %v, want ErrMissingInput", err)
	}
}

func TestLoadFlagOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ZIP", "11111")
	t.Setenv("GC_API_KEY", "env-key")

	flags := baseFlags()
	flags.ZIP = "93142"

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ZIP != "93142" {
		t.Errorf("ZIP = %q, want the flag value", cfg.ZIP)
	}
	if cfg.GeocoderAPIKey != "key" {
		t.Errorf("GeocoderAPIKey = %q, want the flag value", cfg.GeocoderAPIKey)
	}
}

func TestLoadEnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("AIRPORT", "KOAK")

	flags := baseFlags()
	flags.Airport = ""

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Airport != "KOAK" {
		t.Errorf("Airport = %q, want env fallback KOAK", cfg.Airport)
	}
}

func TestLoadConditionsOnly(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Flags{Airport: "KSFO", Refresh: time.Minute})
	if err != nil {
		t.Fatalf("conditions-only run should not need a geocoder key: %v", err)
	}
	if cfg.ZIP != "" || cfg.Airport != "KSFO" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadForecastOnlyNeedsZIP(t *testing.T) {
	clearEnv(t)

	_, err := Load(Flags{ForecastOnly: true, Airport: "KSFO"})
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("error = %v, want ErrMissingInput", err)
	}
}

func TestLoadNothingRequested(t *testing.T) {
	clearEnv(t)

	_, err := Load(Flags{})
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("error = %v, want ErrMissingInput", err)
	}
}

func TestLoadInvalidZIP(t *testing.T) {
	clearEnv(t)

	flags := baseFlags()
	flags.ZIP = "9314"

	_, err := Load(flags)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}

	flags.ZIP = "93x42"
	if _, err := Load(flags); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}
