package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/immersio/meet-relay/internal/config"
)

func SetupRouter(roomController *RoomController, cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/room/:roomID", roomController.CheckRoom)
	router.GET("/ws", roomController.Signaling)

	api := router.Group("/api")

	meet := api.Group("/meet")
	meet.GET("/health", roomController.Health)
	meet.GET("/test", roomController.Test)

	api.GET("/webrtc/config", roomController.WebRTCConfig)

	return router
}
