package routes

import (
	"net/http"

	"number-cruncher/internal/handlers"
	"number-cruncher/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the cruncher API. metrics may be nil.
func SetupRoutes(h *handlers.Handler, metrics http.Handler) *gin.Engine {
	ginRouter := gin.Default()

	// CORS middleware (for dashboard integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Number cruncher is hungry",
		})
	})

	if metrics != nil {
		ginRouter.GET("/metrics", gin.WrapH(metrics))
	}

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/login", h.Login)
		api.GET("/tummy", h.GetTummy)
		api.GET("/log", h.GetLog)
		api.GET("/audit", h.GetAudit)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		protectedRoutes.POST("/crunch", h.Crunch)
		protectedRoutes.GET("/ws", h.Subscribe)
	}

	return ginRouter
}
