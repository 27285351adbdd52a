package productsync

import (
	"errors"
	"fmt"

	"epos-sync/core/logger"
	"epos-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for product syncs.
type Handler struct {
	service  *Service
	defaults reconcile.ReconcileOptions
}

// NewHandler creates a new HTTP handler. defaults apply when a trigger omits an option.
func NewHandler(service *Service, defaults reconcile.ReconcileOptions) *Handler {
	return &Handler{service: service, defaults: defaults}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/", h.HandleTriggerSync)
	group.Get("/last", h.HandleLastReport)
	group.Get("/reports/:year/:month/:day/:run_id", h.HandleGetReport)
}

// HandleTriggerSync runs a sync and returns its report.
// Query parameters dry_run and continue_on_error override the configured defaults.
func (h *Handler) HandleTriggerSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts := reconcile.ReconcileOptions{
		DryRun:          c.QueryBool("dry_run", h.defaults.DryRun),
		ContinueOnError: c.QueryBool("continue_on_error", h.defaults.ContinueOnError),
	}

	report, err := h.service.Run(c.Context(), opts)
	if errors.Is(err, ErrRunInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		l.Error("Sync run failed", zap.Error(err))
		body := fiber.Map{"error": err.Error()}
		if report != nil {
			body["report"] = report
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}

	if report.Failed() {
		return c.Status(fiber.StatusMultiStatus).JSON(report)
	}
	return c.JSON(report)
}

// HandleLastReport returns the report of the most recent run of this process.
func (h *Handler) HandleLastReport(c *fiber.Ctx) error {
	report := h.service.LastReport()
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no sync has run yet",
		})
	}
	return c.JSON(report)
}

// HandleGetReport returns an archived run report.
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	archive := h.service.Archive()
	if archive == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "report archiving is disabled",
		})
	}

	name := fmt.Sprintf("reports/sync/%s/%s/%s/%s.json", c.Params("year"), c.Params("month"), c.Params("day"), c.Params("run_id"))
	report, err := archive.Get(c.Context(), name)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Run report lookup failed", zap.String("object", name), zap.Error(err))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(report)
}
