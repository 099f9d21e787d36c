package breaks

import (
	"errors"
	"strings"

	"recon-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for break workflow operations.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the break routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/breaks")
	group.Get("/queue/:definitionId", h.HandleApprovalQueue)
	group.Get("/:id", h.HandleGetBreak)
	group.Get("/:id/audit", h.HandleGetAudit)
	group.Post("/:id/comments", h.HandleAddComment)
	group.Post("/:id/status", h.HandleTransition)
	group.Post("/bulk", h.HandleBulkUpdate)
}

// actorFromCtx reads the acting principal from the gateway-injected
// headers. LDAP resolution happens upstream; we only consume the result.
// Group DNs are semicolon-separated because DNs contain commas.
func actorFromCtx(c *fiber.Ctx) Actor {
	groups := make([]string, 0)
	for _, g := range strings.Split(c.Get("X-User-Groups"), ";") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return Actor{
		Dn:          c.Get("X-User-Dn"),
		DisplayName: c.Get("X-User-Name"),
		Groups:      groups,
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrAccessDenied):
		return fiber.StatusForbidden
	case errors.Is(err, ErrCommentRequired):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.logger, c)
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		l.Error("Break request failed", zap.Error(err))
	} else {
		l.Warn("Break request denied", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleGetBreak returns one break with its audit trail, comments and the
// caller's permitted actions.
// @Summary Get Break
// @Description Get a break with classifications, audit trail, comments and allowed statuses for the caller.
// @Tags breaks
// @Accept json
// @Produce json
// @Param id path int true "Break ID"
// @Success 200 {object} breaks.BreakDetail "Break Detail"
// @Failure 403 {object} map[string]string "Access Denied"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /breaks/{id} [get]
func (h *Handler) HandleGetBreak(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid break id"})
	}

	detail, err := h.service.Get(c.Context(), uint64(id), actorFromCtx(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(detail)
}

// HandleGetAudit returns the immutable audit trail of a break.
// @Summary Get Break Audit Trail
// @Description List the workflow audit records of a break, oldest first.
// @Tags breaks
// @Produce json
// @Param id path int true "Break ID"
// @Success 200 {array} breaks.BreakWorkflowAudit "Audit Records"
// @Failure 403 {object} map[string]string "Access Denied"
// @Router /breaks/{id}/audit [get]
func (h *Handler) HandleGetAudit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid break id"})
	}

	detail, err := h.service.Get(c.Context(), uint64(id), actorFromCtx(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(detail.Break.Audits)
}

type commentRequest struct {
	Comment string `json:"comment"`
}

// HandleAddComment records a comment on a break.
// @Summary Comment on Break
// @Description Add a free-form comment. Requires maker or checker scope.
// @Tags breaks
// @Accept json
// @Produce json
// @Param id path int true "Break ID"
// @Param request body breaks.commentRequest true "Comment"
// @Success 201 {object} breaks.BreakComment "Created Comment"
// @Failure 403 {object} map[string]string "Access Denied"
// @Router /breaks/{id}/comments [post]
func (h *Handler) HandleAddComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid break id"})
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	comment, err := h.service.AddComment(c.Context(), uint64(id), actorFromCtx(c), req.Comment)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

type transitionRequest struct {
	Status  BreakStatus `json:"status"`
	Comment string      `json:"comment"`
}

// HandleTransition applies a workflow status change to a break.
// @Summary Transition Break
// @Description Apply a status change. Closing or rejecting requires a comment.
// @Tags breaks
// @Accept json
// @Produce json
// @Param id path int true "Break ID"
// @Param request body breaks.transitionRequest true "Target status and comment"
// @Success 200 {object} breaks.BreakItem "Updated Break"
// @Failure 400 {object} map[string]string "Comment Required"
// @Failure 403 {object} map[string]string "Access Denied"
// @Router /breaks/{id}/status [post]
func (h *Handler) HandleTransition(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid break id"})
	}

	var req transitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	updated, err := h.service.Transition(c.Context(), uint64(id), actorFromCtx(c), req.Status, req.Comment)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(updated)
}

type bulkRequest struct {
	BreakIDs []uint64    `json:"breakIds"`
	Status   BreakStatus `json:"status"`
	Comment  string      `json:"comment"`
}

// HandleBulkUpdate applies a status change and/or comment to many breaks.
// @Summary Bulk Update Breaks
// @Description Apply a status change and/or comment across breaks. Partial success is reported per break.
// @Tags breaks
// @Accept json
// @Produce json
// @Param request body breaks.bulkRequest true "Break IDs, target status, comment"
// @Success 200 {object} breaks.BulkResult "Bulk Result"
// @Router /breaks/bulk [post]
func (h *Handler) HandleBulkUpdate(c *fiber.Ctx) error {
	var req bulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.BreakIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "breakIds must not be empty"})
	}

	result := h.service.BulkUpdate(c.Context(), req.BreakIDs, actorFromCtx(c), req.Status, req.Comment)
	return c.JSON(result)
}

// HandleApprovalQueue lists pending breaks the caller can check.
// @Summary Approval Queue
// @Description List PENDING_APPROVAL breaks of a definition the caller can approve or reject.
// @Tags breaks
// @Produce json
// @Param definitionId path int true "Definition ID"
// @Success 200 {array} breaks.BreakItem "Pending Breaks"
// @Router /breaks/queue/{definitionId} [get]
func (h *Handler) HandleApprovalQueue(c *fiber.Ctx) error {
	definitionID, err := c.ParamsInt("definitionId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid definition id"})
	}

	queue, err := h.service.ApprovalQueue(c.Context(), uint64(definitionID), actorFromCtx(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(queue)
}
