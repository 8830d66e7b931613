package handlers

import (
	"time"
	"upkeep/internal/app"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type EquipmentRecordHandler struct {
	Handler
	records *services.RecordsService
}

func NewEquipmentRecordHandler(app app.App, router fiber.Router) *EquipmentRecordHandler {
	return &EquipmentRecordHandler{
		records: app.Services.Records,
		Handler: Handler{
			log:        logger.New("handlers").Function("equipmentRecord"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *EquipmentRecordHandler) Register() {
	records := h.router.Group("/equipment-records", h.middleware.RequireAuth())
	records.Get("/", h.list)
	records.Get("/overdue", h.overdue)
	records.Get("/due-this-month", h.dueThisMonth)
	records.Get("/upcoming", h.upcoming)
	records.Get("/:id", h.get)
	records.Get("/:id/next-occurrence", h.nextOccurrence)
	records.Post("/", h.create)
	records.Put("/:id", h.update)
	records.Delete("/:id", h.delete)
	records.Post("/:id/restore", h.middleware.RequirePrivileged(), h.restore)
}

func (h *EquipmentRecordHandler) list(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	var filter repositories.RecordFilter
	if clientID := c.QueryInt("clientId"); clientID > 0 {
		filter.ClientID = &clientID
	}
	if siteID := c.QueryInt("siteId"); siteID > 0 {
		filter.SiteID = &siteID
	}
	filter.ActiveOnly = c.QueryBool("activeOnly")

	records, err := h.records.List(c.UserContext(), requestCaller, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"equipmentRecords": records})
}

func (h *EquipmentRecordHandler) get(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	record, err := h.records.Get(c.UserContext(), requestCaller, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"equipmentRecord": record})
}

func (h *EquipmentRecordHandler) overdue(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	records, err := h.records.Overdue(c.UserContext(), requestCaller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"equipmentRecords": records})
}

func (h *EquipmentRecordHandler) dueThisMonth(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	records, err := h.records.DueThisMonth(c.UserContext(), requestCaller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"equipmentRecords": records})
}

func (h *EquipmentRecordHandler) upcoming(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	var query services.UpcomingQuery
	if weeks := c.QueryInt("weeks"); weeks > 0 {
		query.Weeks = &weeks
	}
	if start, parseErr := time.Parse(time.DateOnly, c.Query("start")); parseErr == nil {
		query.Start = &start
	}
	if end, parseErr := time.Parse(time.DateOnly, c.Query("end")); parseErr == nil {
		query.End = &end
	}

	records, window, err := h.records.Upcoming(c.UserContext(), requestCaller, query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"equipmentRecords": records,
		"window":           window,
	})
}

// nextOccurrence computes the next due date after ?reference (default today)
// from the record's anchor and interval. Read-only.
func (h *EquipmentRecordHandler) nextOccurrence(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	reference := time.Now().UTC()
	if parsed, parseErr := time.Parse(time.DateOnly, c.Query("reference")); parseErr == nil {
		reference = parsed
	}

	next, err := h.records.NextOccurrence(c.UserContext(), requestCaller, id, reference)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"nextOccurrence": next.Format(time.DateOnly)})
}

func (h *EquipmentRecordHandler) create(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	var req services.EquipmentRecordRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.AnchorDate.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and anchor date are required",
		})
	}

	record, err := h.records.Create(c.UserContext(), requestCaller, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"equipmentRecord": record})
}

func (h *EquipmentRecordHandler) update(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var req services.EquipmentRecordRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.AnchorDate.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and anchor date are required",
		})
	}

	record, err := h.records.Update(c.UserContext(), requestCaller, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"equipmentRecord": record})
}

func (h *EquipmentRecordHandler) delete(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := h.records.Delete(c.UserContext(), requestCaller, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EquipmentRecordHandler) restore(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := h.records.Restore(c.UserContext(), requestCaller, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
