package activity

import (
	"recon-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the activity log.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the activity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/activity", h.HandleRecent)
}

// HandleRecent returns the most recent activity events.
// @Summary Recent Activity
// @Description List the newest system activity events, newest first.
// @Tags activity
// @Produce json
// @Param limit query int false "Maximum events to return (default 50)"
// @Success 200 {array} activity.Event "Events"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /activity [get]
func (h *Handler) HandleRecent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	events, err := h.service.Recent(c.Context(), limit)
	if err != nil {
		l := logger.WithRayID(h.logger, c)
		l.Error("Failed to list activity events", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(events)
}
