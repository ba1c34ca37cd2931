package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hansard/internal/handler"
	"hansard/internal/middleware"
	"hansard/internal/observe"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Health  *handler.HealthHandler
	Session *handler.SessionHandler
	Member  *handler.MemberHandler
	Review  *handler.ReviewHandler
	// Metrics serves the Prometheus scrape endpoint. Optional.
	Metrics http.Handler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, m *observe.Metrics, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(m))
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	v1 := r.Group("/api/v1")

	sessions := v1.Group("/sessions")
	sessions.GET("", h.Session.List)
	sessions.GET("/:id", h.Session.GetByID)
	sessions.GET("/:id/speakers", h.Session.ListSpeakers)

	members := v1.Group("/members")
	members.GET("", h.Member.List)
	members.GET("/:id", h.Member.GetByID)

	review := v1.Group("/review")
	review.GET("/unmatched", h.Review.ListUnmatched)
	review.GET("/unmatched/export", h.Review.ExportUnmatched)
	review.GET("/reconciliations", h.Review.ListReconciliations)
	review.GET("/reconciliations/export", h.Review.ExportReconciliations)

	return r
}
