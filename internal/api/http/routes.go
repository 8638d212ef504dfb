package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/smart-insole-relay/internal/sensor"
	"github.com/i474232898/smart-insole-relay/internal/store"
)

// ServiceName identifies this relay in health responses and logs.
const ServiceName = "smart-insole-relay"

// StatusSource reports the background upstream checks.
type StatusSource interface {
	Status() (store.Status, error)
}

// BreakerSource reports the upstream circuit breaker state.
type BreakerSource interface {
	BreakerState() string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// Both data endpoints always answer 200; upstream failures produce fallback data.
func RegisterRoutes(app *fiber.App, service *sensor.Service) {
	api := app.Group("/api")

	api.Get("/health-data", func(c *fiber.Ctx) error {
		return c.JSON(service.Current(c.UserContext()))
	})

	api.Get("/historical-data", func(c *fiber.Ctx) error {
		return c.JSON(service.History(c.UserContext()))
	})
}

// RegisterHealth exposes the service health endpoint. Either source may be nil.
func RegisterHealth(app *fiber.App, status StatusSource, breaker BreakerSource) {
	app.Get("/health", func(c *fiber.Ctx) error {
		upstream := fiber.Map{}

		if breaker != nil {
			upstream["breaker"] = breaker.BreakerState()
		}

		if status != nil {
			st, err := status.Status()
			switch {
			case errors.Is(err, store.ErrNotFound):
				upstream["checked"] = false
			case err != nil:
				return fiber.NewError(fiber.StatusInternalServerError, "failed to read upstream status")
			default:
				upstream["checked"] = true
				upstream["reachable"] = st.LastCheck.OK
				upstream["lastCheck"] = st.LastCheck
				upstream["lastSuccess"] = st.LastSuccess
				upstream["consecutiveFailures"] = st.ConsecutiveFailures
			}
		}

		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  ServiceName,
			"upstream": upstream,
		})
	})
}
