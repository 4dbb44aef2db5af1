package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/mgrady78/weather-fetch/internal/api/http"
	"github.com/mgrady78/weather-fetch/internal/config"
	"github.com/mgrady78/weather-fetch/internal/format"
	"github.com/mgrady78/weather-fetch/internal/geocode"
	"github.com/mgrady78/weather-fetch/internal/nws"
	"github.com/mgrady78/weather-fetch/internal/report"
	"github.com/mgrady78/weather-fetch/internal/scheduler"
	"github.com/mgrady78/weather-fetch/internal/store"
)

func main() {
	zip := flag.String("zip", "", "ZIP code of the location")
	gcAPIKey := flag.String("gc_api_key", "", "API key for the Maps.co geocoding API")
	airport := flag.String("airport", "", "Airport identifier for current conditions (e.g. KSFO)")
	forecastOnly := flag.Bool("forecast_only", false, "Only fetch and print the forecast")
	serve := flag.Bool("serve", false, "Run an HTTP endpoint instead of a one-shot fetch")
	port := flag.String("port", "", "Port for the HTTP endpoint")
	refresh := flag.Duration("refresh", 0, "Refresh interval for the HTTP endpoint")
	flag.Parse()

	cfg, err := config.Load(config.Flags{
		ZIP:            *zip,
		GeocoderAPIKey: *gcAPIKey,
		Airport:        *airport,
		ForecastOnly:   *forecastOnly,
		Serve:          *serve,
		Port:           *port,
		Refresh:        *refresh,
	})
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for all outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	geocoder := geocode.NewClient(httpClient, "", cfg.GeocoderAPIKey)
	nwsClient := nws.NewClient(httpClient, "", "")
	service := report.NewService(geocoder, nwsClient)

	params := report.Params{
		ZIP:          cfg.ZIP,
		Airport:      cfg.Airport,
		ForecastOnly: cfg.ForecastOnly,
	}

	if cfg.Serve {
		runServer(cfg, service, params)
		return
	}

	os.Exit(runOnce(service, params, cfg.ForecastOnly))
}

// runOnce executes a single fetch cycle and prints both output shapes for
// every section that succeeded. A failed section is reported and turns the
// exit code non-zero without suppressing the other section's output.
func runOnce(service *report.Service, params report.Params, forecastOnly bool) int {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	rep := service.Run(ctx, params)

	exitCode := 0

	if params.ForecastRequested() {
		if rep.ForecastErr != nil {
			log.Printf("forecast section failed: %v", rep.ForecastErr)
			exitCode = 1
		} else {
			if !forecastOnly {
				fmt.Println(format.RenderForecast(*rep.Forecast))
			}
			fmt.Println(rep.ForecastString())
		}
	}

	if params.ConditionsRequested() {
		if rep.ConditionsErr != nil {
			log.Printf("current-conditions section failed: %v", rep.ConditionsErr)
			exitCode = 1
		} else {
			fmt.Println(format.RenderObservation(*rep.Observation))
			fmt.Println(rep.ConditionString())
		}
	}

	return exitCode
}

// runServer refreshes the report on a schedule and serves the rendered
// outputs over HTTP until interrupted.
func runServer(cfg *config.AppConfig, service *report.Service, params report.Params) {
	reports := store.NewReportStore()

	sched := scheduler.New(service, reports, params, cfg.RefreshInterval)

	// Fill the store before the first tick so the endpoint can answer
	// right away.
	startupCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	sched.RunOnce(startupCtx)
	cancel()

	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-fetch",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-fetch",
		})
	})

	httpapi.RegisterRoutes(app, reports)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
