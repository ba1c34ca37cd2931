package handler

import (
	"github.com/gin-gonic/gin"

	"hansard/internal/service"
)

// MemberHandler handles member registry endpoints.
type MemberHandler struct {
	reviewService service.ReviewService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(reviewService service.ReviewService) *MemberHandler {
	return &MemberHandler{reviewService: reviewService}
}

// List handles GET /api/v1/members
// @Summary List members
// @Description List members with their speaking counters, most active first.
// @Tags members
// @Produce json
// @Router /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	members, total, err := h.reviewService.ListMembers(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, members, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/members/:id
func (h *MemberHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	member, err := h.reviewService.GetMember(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, member)
}
