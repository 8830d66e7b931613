package handlers

import (
	"upkeep/internal/app"
	"upkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type SiteHandler struct {
	Handler
	tenancy *services.TenancyService
}

func NewSiteHandler(app app.App, router fiber.Router) *SiteHandler {
	return &SiteHandler{
		tenancy: app.Services.Tenancy,
		Handler: Handler{
			log:        logger.New("handlers").Function("site"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SiteHandler) Register() {
	sites := h.router.Group("/sites", h.middleware.RequireAuth())
	sites.Get("/:id", h.get)
	sites.Post("/", h.create)
	sites.Put("/:id", h.update)
	sites.Delete("/:id", h.delete)
	sites.Post("/:id/restore", h.middleware.RequirePrivileged(), h.restore)

	// Sites are always listed under their client.
	h.router.Get("/clients/:clientId/sites", h.middleware.RequireAuth(), h.listByClient)
}

func (h *SiteHandler) get(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	site, err := h.tenancy.GetSite(c.UserContext(), requestCaller, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"site": site})
}

func (h *SiteHandler) listByClient(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	clientID, err := c.ParamsInt("clientId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client id"})
	}

	sites, err := h.tenancy.ListSites(c.UserContext(), requestCaller, clientID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"sites": sites})
}

func (h *SiteHandler) create(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	var req services.SiteRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.ClientID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Client id and name are required"})
	}

	site, err := h.tenancy.CreateSite(c.UserContext(), requestCaller, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"site": site})
}

func (h *SiteHandler) update(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var req services.SiteRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.ClientID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Client id and name are required"})
	}

	site, err := h.tenancy.UpdateSite(c.UserContext(), requestCaller, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"site": site})
}

func (h *SiteHandler) delete(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := h.tenancy.DeleteSite(c.UserContext(), requestCaller, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SiteHandler) restore(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := h.tenancy.RestoreSite(c.UserContext(), requestCaller, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
