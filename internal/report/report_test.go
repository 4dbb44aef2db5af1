package report

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mgrady78/weather-fetch/internal/format"
	"github.com/mgrady78/weather-fetch/internal/geocode"
	"github.com/mgrady78/weather-fetch/internal/nws"
)

func newGeocodeServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "37.4218", "lon": "-119.7725"}]`))
	}))
}

// newNWSServer serves points, forecast, alerts and the observation feed
// from one mux. conditionsCalled, when non-nil, is set on any observation
// request.
func newNWSServer(t *testing.T, conditionsCalled *bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		fmt.Fprintf(w, `{
			"properties": {
				"forecast": "%s/gridpoints/HNX/66,88/forecast",
				"forecastZone": "%s/zones/forecast/CAZ063",
				"relativeLocation": {"properties": {"city": "Oakhurst", "state": "CA"}}
			}
		}`, srv.URL, srv.URL)
	})

	mux.HandleFunc("/gridpoints/HNX/66,88/forecast", func(w http.ResponseWriter, r *http.Request) {
		var periods []string
		for i := 1; i <= 14; i++ {
			periods = append(periods, fmt.Sprintf(`{
				"number": %d,
				"name": "Period %d",
				"temperature": 70,
				"temperatureUnit": "F",
				"windSpeed": "5 mph",
				"windDirection": "NW",
				"shortForecast": "Sunny",
				"detailedForecast": "Sunny, with a high near 70."
			}`, i, i))
		}
		w.Header().Set("Content-Type", "application/geo+json")
		fmt.Fprintf(w, `{"properties": {"updateTime": "2024-06-01T10:00:00+00:00", "periods": [%s]}}`,
			strings.Join(periods, ","))
	})

	mux.HandleFunc("/alerts/active", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write([]byte(`{"features": []}`))
	})

	mux.HandleFunc("/display.php", func(w http.ResponseWriter, r *http.Request) {
		if conditionsCalled != nil {
			*conditionsCalled = true
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<current_observation>
			<location>Oakhurst Area, CA</location>
			<weather>Fair</weather>
			<temp_f>70.0</temp_f>
			<temp_c>21.1</temp_c>
			<relative_humidity>40</relative_humidity>
			<wind_mph>5.0</wind_mph>
		</current_observation>`))
	})

	srv = httptest.NewServer(mux)
	return srv
}

func newTestService(t *testing.T, geoURL, nwsURL string) *Service {
	t.Helper()
	geocoder := geocode.NewClient(http.DefaultClient, geoURL, "test-key")
	nwsClient := nws.NewClient(http.DefaultClient, nwsURL, nwsURL)
	return NewService(geocoder, nwsClient)
}

func TestRunBothSections(t *testing.T) {
	geoSrv := newGeocodeServer(t)
	defer geoSrv.Close()
	nwsSrv := newNWSServer(t, nil)
	defer nwsSrv.Close()

	svc := newTestService(t, geoSrv.URL, nwsSrv.URL)

	rep := svc.Run(context.Background(), Params{ZIP: "93142", Airport: "KMAE"})
	if err := rep.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.Forecast == nil || len(rep.Forecast.Periods) != 14 {
		t.Fatalf("forecast not populated: %+v", rep.Forecast)
	}
	if rep.Observation == nil {
		t.Fatal("observation not populated")
	}
	if rep.Place != (format.Place{City: "Oakhurst", State: "CA"}) {
		t.Errorf("place = %+v", rep.Place)
	}

	if n := len(strings.Split(rep.ForecastString(), format.RecordSep)); n != 14 {
		t.Errorf("forecast string has %d entries, want 14", n)
	}
	if cond := rep.ConditionString(); !strings.Contains(cond, "loc:Oakhurst,CA") {
		t.Errorf("condition string missing resolved place: %s", cond)
	}
}

func TestForecastFailureLeavesConditions(t *testing.T) {
	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer geoSrv.Close()
	nwsSrv := newNWSServer(t, nil)
	defer nwsSrv.Close()

	svc := newTestService(t, geoSrv.URL, nwsSrv.URL)

	rep := svc.Run(context.Background(), Params{ZIP: "93142", Airport: "KMAE"})

	if rep.ForecastErr == nil {
		t.Fatal("expected a forecast section error")
	}
	if rep.ConditionsErr != nil {
		t.Fatalf("conditions section should have succeeded: %v", rep.ConditionsErr)
	}
	if rep.Observation == nil {
		t.Fatal("observation should be populated despite the forecast failure")
	}
}

func TestForecastOnlySkipsConditions(t *testing.T) {
	geoSrv := newGeocodeServer(t)
	defer geoSrv.Close()

	conditionsCalled := false
	nwsSrv := newNWSServer(t, &conditionsCalled)
	defer nwsSrv.Close()

	svc := newTestService(t, geoSrv.URL, nwsSrv.URL)

	rep := svc.Run(context.Background(), Params{ZIP: "93142", Airport: "KMAE", ForecastOnly: true})
	if err := rep.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conditionsCalled {
		t.Fatal("forecast-only mode must not fetch current conditions")
	}
	if rep.Observation != nil {
		t.Fatal("observation should be nil in forecast-only mode")
	}
}

func TestConditionStringEmptyWithoutObservation(t *testing.T) {
	rep := &Report{}
	if got := rep.ConditionString(); got != "" {
		t.Fatalf("ConditionString() = %q, want empty", got)
	}
}
