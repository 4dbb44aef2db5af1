package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mgrady78/weather-fetch/internal/report"
	"github.com/mgrady78/weather-fetch/internal/store"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app. The text
// endpoints serve exactly the delimited records the mobile client and the
// query scripts poll for; /report exposes the structured form.
func RegisterRoutes(app *fiber.App, reports *store.ReportStore) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		rep, err := latest(reports)
		if err != nil {
			return err
		}
		if rep.Forecast == nil {
			return fiber.NewError(fiber.StatusNotFound, "no forecast in latest report")
		}
		return c.Type("txt").SendString(rep.ForecastString())
	})

	v1.Get("/conditions", func(c *fiber.Ctx) error {
		rep, err := latest(reports)
		if err != nil {
			return err
		}
		if rep.Observation == nil {
			return fiber.NewError(fiber.StatusNotFound, "no observation in latest report")
		}
		return c.Type("txt").SendString(rep.ConditionString())
	})

	v1.Get("/report", func(c *fiber.Ctx) error {
		rep, err := latest(reports)
		if err != nil {
			return err
		}
		return c.JSON(rep)
	})
}

func latest(reports *store.ReportStore) (*report.Report, error) {
	rep, err := reports.Latest()
	if err != nil {
		if errors.Is(err, store.ErrNotReady) {
			return nil, fiber.NewError(fiber.StatusServiceUnavailable, "no report fetched yet")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load latest report")
	}
	return rep, nil
}
