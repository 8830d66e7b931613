package handlers

import (
	"upkeep/internal/app"
	"upkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type BusinessHandler struct {
	Handler
	tenancy *services.TenancyService
}

func NewBusinessHandler(app app.App, router fiber.Router) *BusinessHandler {
	return &BusinessHandler{
		tenancy: app.Services.Tenancy,
		Handler: Handler{
			log:        logger.New("handlers").Function("business"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BusinessHandler) Register() {
	businesses := h.router.Group("/businesses", h.middleware.RequireAuth(), h.middleware.RequirePrivileged())
	businesses.Get("/", h.list)
	businesses.Get("/:id", h.get)
	businesses.Post("/", h.create)
	businesses.Put("/:id", h.update)
}

func (h *BusinessHandler) list(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	businesses, err := h.tenancy.ListBusinesses(c.UserContext(), requestCaller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"businesses": businesses})
}

func (h *BusinessHandler) get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	business, err := h.tenancy.GetBusiness(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"business": business})
}

func (h *BusinessHandler) create(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	business, err := h.tenancy.CreateBusiness(c.UserContext(), requestCaller, body.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"business": business})
}

func (h *BusinessHandler) update(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	business, err := h.tenancy.UpdateBusiness(c.UserContext(), requestCaller, id, body.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"business": business})
}
