package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/famcare-dev/famcare/internal/config"
	"github.com/famcare-dev/famcare/internal/handlers"
	"github.com/famcare-dev/famcare/internal/identity"
	"github.com/famcare-dev/famcare/internal/middleware"
	"github.com/famcare-dev/famcare/internal/store"
)

func New(cfg *config.Config, records store.RecordStore, provider identity.Provider) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authMiddleware := middleware.NewAuth(provider, records)

	authHandler := handlers.NewAuthHandler(provider, records)
	familyHandler := handlers.NewFamilyHandler(records)
	memberHandler := handlers.NewMemberHandler(records)
	healthCheckHandler := handlers.NewHealthCheckHandler(records)
	noteHandler := handlers.NewNoteHandler(records)
	dashboardHandler := handlers.NewDashboardHandler(records)
	wsHandler := handlers.NewWSHandler(cfg.AllowedOrigins)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.ServiceHealth)
		api.GET("/ws", authMiddleware.RequireAuth(), wsHandler.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		protected := api.Group("", authMiddleware.RequireAuth())
		{
			protected.GET("/me", authHandler.Me)
			protected.GET("/family", familyHandler.GetFamily)
			protected.GET("/dashboard", dashboardHandler.GetDashboard)

			protected.GET("/members", memberHandler.ListMembers)
			protected.POST("/members", memberHandler.AddMember)
			protected.DELETE("/members/:member_id", memberHandler.DeleteMember)
			protected.GET("/members/:member_id/calendar", memberHandler.GetCalendar)

			protected.POST("/health-checks", healthCheckHandler.CreateHealthCheck)
			protected.GET("/health-checks/:member_id", healthCheckHandler.ListHealthChecks)

			protected.POST("/notes", noteHandler.CreateNote)
			protected.GET("/notes", noteHandler.ListNotes)
		}
	}

	return r
}
