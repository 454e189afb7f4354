package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sammies/handlers"
	"sammies/utils"
)

// RegisterReceptionistRoutes registers the JSON conversation endpoints.
func RegisterReceptionistRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/receptionist")
	{
		api.POST("", hb.HandleTurnHandler)
		api.POST("/session", hb.NewSessionHandler)
		api.DELETE("/session/:sessionID", hb.ClearSessionHandler)
	}
}

// RegisterVoiceRoutes registers the Twilio webhook endpoints.
func RegisterVoiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/twilio")
	{
		api.POST("/voice", hb.VoiceHandler)
		api.POST("/after-transfer", hb.AfterTransferHandler)
		api.POST("/take-message", hb.TakeMessageHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterReceptionistRoutes(r, hb)
	RegisterVoiceRoutes(r, hb)
	RegisterHealthRoute(r)
}
