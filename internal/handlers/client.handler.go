package handlers

import (
	"upkeep/internal/app"
	"upkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type ClientHandler struct {
	Handler
	tenancy *services.TenancyService
}

func NewClientHandler(app app.App, router fiber.Router) *ClientHandler {
	return &ClientHandler{
		tenancy: app.Services.Tenancy,
		Handler: Handler{
			log:        logger.New("handlers").Function("client"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ClientHandler) Register() {
	clients := h.router.Group("/clients", h.middleware.RequireAuth())
	clients.Get("/", h.list)
	clients.Get("/:id", h.get)
	clients.Post("/", h.create)
	clients.Put("/:id", h.update)
	clients.Delete("/:id", h.delete)
	clients.Post("/:id/restore", h.middleware.RequirePrivileged(), h.restore)
}

func (h *ClientHandler) list(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	clients, err := h.tenancy.ListClients(c.UserContext(), requestCaller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"clients": clients})
}

func (h *ClientHandler) get(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	client, err := h.tenancy.GetClient(c.UserContext(), requestCaller, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"client": client})
}

func (h *ClientHandler) create(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	var req services.ClientRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	client, err := h.tenancy.CreateClient(c.UserContext(), requestCaller, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"client": client})
}

func (h *ClientHandler) update(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var req services.ClientRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	client, err := h.tenancy.UpdateClient(c.UserContext(), requestCaller, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"client": client})
}

func (h *ClientHandler) delete(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := h.tenancy.DeleteClient(c.UserContext(), requestCaller, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ClientHandler) restore(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	if err := h.tenancy.RestoreClient(c.UserContext(), requestCaller, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
