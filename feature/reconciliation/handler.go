package reconciliation

import (
	"errors"

	"recon-manager/core/logger"
	"recon-manager/feature/reconciliation/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reconciliation runs.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reconciliations")
	group.Post("/:definitionId/run", h.HandleTriggerRun)
	group.Get("/:definitionId/runs", h.HandleListRuns)
	group.Get("/runs/:runId/analytics", h.HandleRunAnalytics)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.logger, c)
	status := fiber.StatusInternalServerError
	if errors.Is(err, ErrDefinitionNotFound) || errors.Is(err, ErrRunNotFound) {
		status = fiber.StatusNotFound
	}
	if status == fiber.StatusInternalServerError {
		l.Error("Reconciliation request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

type triggerRequest struct {
	Comments string `json:"comments"`
}

// HandleTriggerRun executes a matching run for a definition.
// @Summary Trigger Run
// @Description Load the latest staged batches, execute the matching engine and persist the detected breaks.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param definitionId path int true "Definition ID"
// @Param dryRun query bool false "Compute the result without persisting anything"
// @Param request body reconciliation.triggerRequest false "Optional run comments"
// @Success 200 {object} reconciliation.RunSummary "Run Summary"
// @Failure 404 {object} map[string]string "Definition Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reconciliations/{definitionId}/run [post]
func (h *Handler) HandleTriggerRun(c *fiber.Ctx) error {
	definitionID, err := c.ParamsInt("definitionId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid definition id"})
	}

	if c.QueryBool("dryRun") {
		result, err := h.service.Preview(c.Context(), uint64(definitionID))
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(result)
	}

	var req triggerRequest
	_ = c.BodyParser(&req)

	triggeredBy := c.Get("X-User-Dn")
	if triggeredBy == "" {
		triggeredBy = "anonymous"
	}

	summary, err := h.service.TriggerRun(c.Context(), uint64(definitionID), models.TriggerManual, triggeredBy, req.Comments)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(summary)
}

// HandleListRuns lists the latest runs of a definition.
// @Summary List Runs
// @Description List the newest matching runs of a definition.
// @Tags reconciliations
// @Produce json
// @Param definitionId path int true "Definition ID"
// @Param limit query int false "Maximum runs to return (default 20)"
// @Success 200 {array} models.Run "Runs"
// @Router /reconciliations/{definitionId}/runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	definitionID, err := c.ParamsInt("definitionId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid definition id"})
	}

	runs, err := h.service.ListRuns(c.Context(), uint64(definitionID), c.QueryInt("limit", 20))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(runs)
}

// HandleRunAnalytics returns aggregated break counts for a run.
// @Summary Run Analytics
// @Description Aggregate break counts of a run by status, type and product.
// @Tags reconciliations
// @Produce json
// @Param runId path int true "Run ID"
// @Success 200 {object} reconciliation.RunAnalytics "Analytics"
// @Failure 404 {object} map[string]string "Run Not Found"
// @Router /reconciliations/runs/{runId}/analytics [get]
func (h *Handler) HandleRunAnalytics(c *fiber.Ctx) error {
	runID, err := c.ParamsInt("runId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid run id"})
	}

	analytics, err := h.service.Analytics(c.Context(), uint64(runID))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(analytics)
}
