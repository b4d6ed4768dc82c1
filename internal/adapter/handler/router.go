package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thecyberprinciples/meetingmind/internal/infrastructure/storage"
	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	storageClient  *storage.MinIOClient
	webhookHandler *Webhook
	actionHandler  *Action
	meetingHandler *Meeting
	adminHandler   *Admin
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	storageClient *storage.MinIOClient,
	webhookHandler *Webhook,
	actionHandler *Action,
	meetingHandler *Meeting,
	adminHandler *Admin,
) *Router {
	return &Router{
		cfg:            cfg,
		storageClient:  storageClient,
		webhookHandler: webhookHandler,
		actionHandler:  actionHandler,
		meetingHandler: meetingHandler,
		adminHandler:   adminHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupWebhookRoutes(v1)
	rt.setupActionRoutes(v1)
	rt.setupMeetingRoutes(v1)
	rt.setupAdminRoutes(v1)
}

// setupWebhookRoutes configures upload and dead-letter notification routes
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhookGroup := g.Group("/webhooks")

	if rt.webhookHandler != nil {
		webhookGroup.POST("/storage", rt.webhookHandler.StorageEvent)
		webhookGroup.POST("/dead-letter", rt.webhookHandler.DeadLetter)
	} else {
		webhookGroup.POST("/storage", rt.notImplemented)
		webhookGroup.POST("/dead-letter", rt.notImplemented)
	}
}

// setupActionRoutes configures action-item routes
func (rt *Router) setupActionRoutes(g *echo.Group) {
	actionGroup := g.Group("/actions")

	if rt.actionHandler != nil {
		actionGroup.POST("/check-duplicate", rt.actionHandler.CheckDuplicate)
	} else {
		actionGroup.POST("/check-duplicate", rt.notImplemented)
	}
}

// setupMeetingRoutes configures meeting read routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")

	if rt.meetingHandler != nil {
		meetingGroup.GET("/:ownerId", rt.meetingHandler.List)
		meetingGroup.GET("/:ownerId/:meetingId", rt.meetingHandler.Get)
	} else {
		meetingGroup.GET("/:ownerId", rt.notImplemented)
		meetingGroup.GET("/:ownerId/:meetingId", rt.notImplemented)
	}
}

// setupAdminRoutes configures operational routes
func (rt *Router) setupAdminRoutes(g *echo.Group) {
	adminGroup := g.Group("/admin")

	if rt.adminHandler != nil {
		adminGroup.POST("/epitaphs/run", rt.adminHandler.RunEpitaphs)
	} else {
		adminGroup.POST("/epitaphs/run", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status including storage connectivity
func (rt *Router) healthCheck(c echo.Context) error {
	resp := map[string]interface{}{
		"status": "ok",
	}
	if rt.cfg != nil {
		resp["environment"] = rt.cfg.Server.Environment
	}

	if rt.storageClient != nil {
		info, err := rt.storageClient.GetBucketInfo(c.Request().Context())
		if err != nil {
			resp["storage"] = map[string]interface{}{"error": err.Error()}
		} else {
			resp["storage"] = info
		}
	}

	return c.JSON(http.StatusOK, resp)
}
