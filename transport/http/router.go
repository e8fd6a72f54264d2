package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/rangda/ports"
	"github.com/layer-3/rangda/service"
)

// SetupRouter sets up the Gin router for the approval surface and the
// administrative origin-management surface.
func SetupRouter(host *service.ConnectHost, store ports.ApprovalStore, events ports.EventPublisher) *gin.Engine {
	router := gin.Default()

	handlers := NewConnectHandlers(host, store, events)

	// Resolution API consumed by the approval UI
	connect := router.Group("/connect")
	{
		connect.GET("/approval", handlers.PeekApproval)
		connect.POST("/approval/resolve", handlers.ResolveApproval)
		connect.GET("/intent", handlers.PeekIntent)
		connect.POST("/intent/resolve", handlers.ResolveIntent)
	}

	// Administrative surface; safe to call Active or Inactive
	admin := router.Group("/admin")
	{
		admin.GET("/origins", handlers.ListOrigins)
		admin.DELETE("/origins", handlers.RevokeOrigin)
	}

	return router
}
