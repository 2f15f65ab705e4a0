package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/location-weather/internal/lookup"
)

var validate = validator.New()

// Orchestrator is the command/snapshot surface the handlers need.
type Orchestrator interface {
	Run(ctx context.Context) (lookup.Snapshot, error)
	Trigger(ctx context.Context) (lookup.Snapshot, error)
	Snapshot() lookup.Snapshot
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, orch Orchestrator) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "location-weather",
		})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(orch.Snapshot())
	})

	v1.Post("/fetch", func(c *fiber.Ctx) error {
		var q fetchQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if q.wait() {
			snap, err := orch.Run(c.UserContext())
			if err != nil {
				return fetchError(err)
			}
			return c.JSON(snap)
		}

		snap, err := orch.Trigger(c.UserContext())
		if err != nil {
			return fetchError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(snap)
	})
}

// ErrorHandler renders errors as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func fetchError(err error) error {
	if errors.Is(err, lookup.ErrInFlight) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to start lookup")
}

// fetchQuery holds query parameters for the fetch endpoint.
type fetchQuery struct {
	Wait string `validate:"omitempty,boolean"`
}

func (q *fetchQuery) bind(c *fiber.Ctx) error {
	q.Wait = c.Query("wait")
	return validate.Struct(q)
}

func (q fetchQuery) wait() bool {
	b, _ := strconv.ParseBool(q.Wait)
	return b
}
