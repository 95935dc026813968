package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/andrino-academy/andrino-api/internal/middleware"
	"github.com/andrino-academy/andrino-api/internal/models"
)

// Handlers groups the HTTP handlers mounted under the API prefix.
type Handlers struct {
	Auth         *AuthHandler
	Availability *AvailabilityHandler
	Tracks       *TrackHandler
	Settings     *SettingsHandler
	Metrics      *MetricsHandler
}

// RouteOptions carries the middleware shared by the API routes. Limit and
// Audit are optional.
type RouteOptions struct {
	Authenticate gin.HandlerFunc
	Limit        gin.HandlerFunc
	Audit        middleware.AuditRecorder
}

var overseers = []models.UserRole{models.RoleCoordinator, models.RoleManager, models.RoleCEO}

// RegisterRoutes mounts the API on group.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, opts RouteOptions) {
	group.POST("/auth/login", chain(opts.Limit, h.Auth.Login)...)

	authed := group.Group("", opts.Authenticate)
	authed.GET("/auth/me", h.Auth.Me)

	authed.GET("/tracks", h.Tracks.List)
	authed.GET("/tracks/:id", h.Tracks.Get)

	authed.GET("/settings/schedule", h.Settings.Get)
	authed.PUT("/settings/schedule", chain(middleware.RequireRoles(models.RoleCEO, models.RoleManager), opts.Limit, h.Settings.Update)...)

	instructor := middleware.RequireRoles(models.RoleInstructor)
	availability := authed.Group("/instructor/availability")
	availability.GET("", instructor, h.Availability.List)
	availability.POST("", chain(instructor, opts.Limit, h.Availability.Save)...)
	availability.PUT("/confirm", chain(instructor, opts.Limit, h.Availability.Confirm)...)
	availability.PUT("/:id/booking", chain(middleware.RequireRoles(overseers...), opts.Limit, h.Availability.SetBooking)...)

	oversight := authed.Group("/availability", middleware.RequireRoles(overseers...))
	oversight.GET("", h.Availability.ListForTrack)
	var audit gin.HandlerFunc
	if opts.Audit != nil {
		audit = middleware.Audit(opts.Audit, models.AuditActionAvailabilityExport, "availability")
	}
	oversight.GET("/export", chain(audit, h.Availability.Export)...)

	if h.Metrics != nil {
		authed.GET("/metrics/summary", middleware.RequireRoles(models.RoleCEO, models.RoleManager), h.Metrics.Snapshot)
	}
}

// RegisterOperational mounts the unauthenticated probes and the Prometheus
// endpoint on the root router.
func RegisterOperational(r gin.IRouter, h *MetricsHandler) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
