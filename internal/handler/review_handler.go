package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hansard/internal/csvexport"
	"hansard/internal/service"
)

// exportPageSize is the page size used when streaming CSV exports.
const exportPageSize = 200

// ReviewHandler exposes attribution diagnostics for operator review.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ListUnmatched handles GET /api/v1/review/unmatched
// @Summary List unmatched speakers
// @Description Speaker introductions that resolved to no member, newest first.
// @Tags review
// @Produce json
// @Router /review/unmatched [get]
func (h *ReviewHandler) ListUnmatched(c *gin.Context) {
	offset, limit := parsePagination(c)

	rows, total, err := h.reviewService.ListUnmatched(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, rows, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListReconciliations handles GET /api/v1/review/reconciliations
// @Summary List reconciliation events
// @Description Member ids corrected or kept at persist time. flagged=true limits the list to fallbacks.
// @Tags review
// @Produce json
// @Param flagged query bool false "Only flagged fallbacks"
// @Router /review/reconciliations [get]
func (h *ReviewHandler) ListReconciliations(c *gin.Context) {
	offset, limit := parsePagination(c)
	flagged, _ := strconv.ParseBool(c.DefaultQuery("flagged", "false"))

	events, total, err := h.reviewService.ListReconciliations(c.Request.Context(), flagged, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, events, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ExportUnmatched handles GET /api/v1/review/unmatched/export
// @Summary Export unmatched speakers as CSV
// @Tags review
// @Produce text/csv
// @Router /review/unmatched/export [get]
func (h *ReviewHandler) ExportUnmatched(c *gin.Context) {
	ctx := c.Request.Context()
	rows, total, err := h.reviewService.ListUnmatched(ctx, 0, exportPageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	w := startCSV(c, "unmatched speakers", csvexport.UnmatchedColumns)
	for offset := 0; ; {
		if err := w.WriteUnmatched(rows); err != nil {
			break
		}
		offset += len(rows)
		if len(rows) == 0 || offset >= total {
			break
		}
		if rows, _, err = h.reviewService.ListUnmatched(ctx, offset, exportPageSize); err != nil {
			slog.Error("handler: unmatched export aborted", "offset", offset, "error", err)
			break
		}
	}
	finishCSV(w)
}

// ExportReconciliations handles GET /api/v1/review/reconciliations/export
// @Summary Export reconciliation events as CSV
// @Tags review
// @Produce text/csv
// @Param flagged query bool false "Only flagged fallbacks"
// @Router /review/reconciliations/export [get]
func (h *ReviewHandler) ExportReconciliations(c *gin.Context) {
	ctx := c.Request.Context()
	flagged, _ := strconv.ParseBool(c.DefaultQuery("flagged", "false"))

	events, total, err := h.reviewService.ListReconciliations(ctx, flagged, 0, exportPageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	w := startCSV(c, "reconciliations", csvexport.ReconciliationColumns)
	for offset := 0; ; {
		if err := w.WriteReconciliations(events); err != nil {
			break
		}
		offset += len(events)
		if len(events) == 0 || offset >= total {
			break
		}
		if events, _, err = h.reviewService.ListReconciliations(ctx, flagged, offset, exportPageSize); err != nil {
			slog.Error("handler: reconciliation export aborted", "offset", offset, "error", err)
			break
		}
	}
	finishCSV(w)
}

func startCSV(c *gin.Context, name string, columns []string) *csvexport.Writer {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, csvexport.BuildFilename(name, time.Now().UTC())))
	c.Status(http.StatusOK)
	_, _ = c.Writer.Write(csvexport.BOM)

	w := csvexport.NewWriter(c.Writer)
	_ = w.WriteHeader(columns)
	return w
}

func finishCSV(w *csvexport.Writer) {
	w.Flush()
	if err := w.Error(); err != nil {
		slog.Error("handler: csv export write failed", "error", err)
	}
}
