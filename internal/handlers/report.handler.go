package handlers

import (
	"upkeep/internal/app"
	"upkeep/internal/database"
	"upkeep/internal/jobs"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	Handler
	db database.DB
}

func NewReportHandler(app app.App, router fiber.Router) *ReportHandler {
	return &ReportHandler{
		db: app.Database,
		Handler: Handler{
			log:        logger.New("handlers").Function("report"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReportHandler) Register() {
	reports := h.router.Group("/reports", h.middleware.RequireAuth())
	reports.Get("/due", h.dueReport)
}

// dueReport serves the precomputed daily schedule snapshot for the caller's
// business. 404 until the job has run for that business.
func (h *ReportHandler) dueReport(c *fiber.Ctx) error {
	requestCaller, err := caller(c)
	if err != nil {
		return err
	}
	if requestCaller.BusinessID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Due report needs a business",
		})
	}

	var report jobs.DueReport
	found, err := database.GetJSON(h.db.Cache.Reports, jobs.DueReportCacheKey(*requestCaller.BusinessID), &report)
	if err != nil {
		h.log.Warn("failed to read due report cache", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No report generated yet",
		})
	}

	return c.JSON(fiber.Map{"report": report})
}
