package handlers

import (
	"upkeep/internal/app"
	"upkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type CompletionHandler struct {
	Handler
	completions *services.CompletionsService
}

func NewCompletionHandler(app app.App, router fiber.Router) *CompletionHandler {
	return &CompletionHandler{
		completions: app.Services.Completions,
		Handler: Handler{
			log:        logger.New("handlers").Function("completion"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CompletionHandler) Register() {
	records := h.router.Group("/equipment-records/:recordId/completions", h.middleware.RequireAuth())
	records.Get("/", h.history)
	records.Post("/", h.record)

	completions := h.router.Group("/completions", h.middleware.RequireAuth())
	completions.Get("/", h.list)
	completions.Delete("/:id", h.middleware.RequirePrivileged(), h.delete)
}

func (h *CompletionHandler) list(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	businessID := c.QueryInt("businessId")
	if businessID == 0 {
		if requestCaller.BusinessID == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Business id is required"})
		}
		businessID = *requestCaller.BusinessID
	}

	completions, err := h.completions.ListForBusiness(c.UserContext(), requestCaller, businessID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"completions": completions})
}

func (h *CompletionHandler) history(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	recordID, err := c.ParamsInt("recordId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	completions, err := h.completions.History(c.UserContext(), requestCaller, recordID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"completions": completions})
}

func (h *CompletionHandler) record(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	recordID, err := c.ParamsInt("recordId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	var req services.CompletionRequest
	if err := c.BodyParser(&req); err != nil || req.SatisfiedDueDate.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Satisfied due date is required",
		})
	}

	completion, err := h.completions.Record(c.UserContext(), requestCaller, recordID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"completion": completion})
}

func (h *CompletionHandler) delete(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := h.completions.Delete(c.UserContext(), requestCaller, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
