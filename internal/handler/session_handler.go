package handler

import (
	"github.com/gin-gonic/gin"

	"hansard/internal/service"
)

// SessionHandler handles stored session endpoints.
type SessionHandler struct {
	reviewService service.ReviewService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(reviewService service.ReviewService) *SessionHandler {
	return &SessionHandler{reviewService: reviewService}
}

// List handles GET /api/v1/sessions
// @Summary List sessions
// @Description List stored sessions, newest sitting first.
// @Tags sessions
// @Produce json
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Pagination limit" default(20)
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	sessions, total, err := h.reviewService.ListSessions(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, sessions, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/sessions/:id
// @Summary Get session
// @Description Get a session with its speakers, speaking instances and attendance roster.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.reviewService.GetSession(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, detail)
}

// ListSpeakers handles GET /api/v1/sessions/:id/speakers
func (h *SessionHandler) ListSpeakers(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	speakers, err := h.reviewService.ListSpeakers(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, speakers)
}
