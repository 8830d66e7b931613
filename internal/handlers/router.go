package handlers

import (
	"errors"
	"upkeep/internal/app"
	"upkeep/internal/handlers/middleware"
	"upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	api.Use(app.Middleware.TraceID())

	HealthHandler(api, app.Config)
	NewBusinessHandler(*app, api).Register()
	NewClientHandler(*app, api).Register()
	NewSiteHandler(*app, api).Register()
	NewEquipmentTypeHandler(*app, api).Register()
	NewEquipmentRecordHandler(*app, api).Register()
	NewCompletionHandler(*app, api).Register()
	NewReportHandler(*app, api).Register()

	return nil
}

// caller pulls the authenticated caller set by RequireAuth.
func caller(c *fiber.Ctx) (models.Caller, error) {
	requestCaller, ok := middleware.GetCaller(c)
	if !ok {
		return models.Caller{}, fiber.ErrUnauthorized
	}
	return requestCaller, nil
}

// respondError maps the core error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a 500 with no detail leaked.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, models.ErrDuplicateName):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Name already in use",
		})
	case errors.Is(err, models.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Conflict with existing data",
		})
	case errors.Is(err, models.ErrNotDeleted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Entity is not deleted",
		})
	case errors.Is(err, models.ErrCrossScope):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Reference crosses tenant or ownership boundaries",
		})
	case errors.Is(err, models.ErrRecurrencePattern):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recurrence pattern",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
