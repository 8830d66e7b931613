package handlers

import (
	"upkeep/internal/app"
	"upkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type EquipmentTypeHandler struct {
	Handler
	catalog *services.CatalogService
}

func NewEquipmentTypeHandler(app app.App, router fiber.Router) *EquipmentTypeHandler {
	return &EquipmentTypeHandler{
		catalog: app.Services.Catalog,
		Handler: Handler{
			log:        logger.New("handlers").Function("equipmentType"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *EquipmentTypeHandler) Register() {
	types := h.router.Group("/equipment-types", h.middleware.RequireAuth())
	types.Get("/", h.resolve)
	types.Get("/grouped", h.middleware.RequirePrivileged(), h.grouped)
	types.Get("/:id", h.get)
	types.Post("/", h.create)
	types.Put("/:id", h.update)
	types.Delete("/:id", h.delete)
	types.Post("/:id/restore", h.middleware.RequirePrivileged(), h.restore)
}

// resolve returns the caller's effective catalog: one visible type per name
// after tenant overrides shadow global rows.
func (h *EquipmentTypeHandler) resolve(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	if requestCaller.BusinessID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Catalog resolution needs a business",
		})
	}

	catalog, err := h.catalog.Resolve(c.UserContext(), *requestCaller.BusinessID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"equipmentTypes": catalog})
}

func (h *EquipmentTypeHandler) grouped(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	groups, err := h.catalog.GroupedByName(c.UserContext(), requestCaller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"groups": groups})
}

func (h *EquipmentTypeHandler) get(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	equipmentType, err := h.catalog.GetType(c.UserContext(), requestCaller, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"equipmentType": equipmentType})
}

func (h *EquipmentTypeHandler) create(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	var req services.EquipmentTypeRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.IntervalWeeks <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and a positive interval are required",
		})
	}

	equipmentType, err := h.catalog.CreateType(c.UserContext(), requestCaller, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"equipmentType": equipmentType})
}

func (h *EquipmentTypeHandler) update(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var req services.EquipmentTypeRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.IntervalWeeks <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and a positive interval are required",
		})
	}

	equipmentType, err := h.catalog.UpdateType(c.UserContext(), requestCaller, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"equipmentType": equipmentType})
}

// delete handles ?mode=specific|from_business|from_all, defaulting to
// specific.
func (h *EquipmentTypeHandler) delete(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	mode := services.DeleteMode(c.Query("mode", string(services.DeleteSpecific)))
	switch mode {
	case services.DeleteSpecific, services.DeleteFromBusiness, services.DeleteFromAll:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid delete mode"})
	}

	if err := h.catalog.DeleteType(c.UserContext(), requestCaller, id, mode); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EquipmentTypeHandler) restore(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := h.catalog.RestoreType(c.UserContext(), requestCaller, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
