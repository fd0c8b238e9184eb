package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/churchflow/churchflow-backend/config"
	"github.com/churchflow/churchflow-backend/database"
	"github.com/churchflow/churchflow-backend/internal/auditlog"
	"github.com/churchflow/churchflow-backend/internal/auth"
	"github.com/churchflow/churchflow-backend/internal/availability"
	"github.com/churchflow/churchflow-backend/internal/blockout"
	"github.com/churchflow/churchflow-backend/internal/calendar"
	"github.com/churchflow/churchflow-backend/internal/event"
	"github.com/churchflow/churchflow-backend/internal/reports"
	"github.com/churchflow/churchflow-backend/internal/song"
	"github.com/churchflow/churchflow-backend/middleware"

	_ "github.com/churchflow/churchflow-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Setup(r *gin.Engine, cfg *config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.AuditMiddleware())

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)

		// Logout requires Auth Middleware
		authGroup.POST("/logout", middleware.AuthMiddleware(cfg, authSvc), authHandler.Logout)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	protected.GET("/auth/me", authHandler.Me)

	// ========== Audit Logs (Admin Only) ==========
	auditRoutes := protected.Group("/auditlogs")
	auditRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin))
	{
		auditRoutes.GET("", auditHandler.GetAuditLogs)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	// ========== Availability Snapshots ==========
	snapshots := availability.NewSnapshotStore()

	// ========== Blockouts ==========
	blockoutRepo := blockout.NewRepository(database.DB)
	blockoutSvc := blockout.NewService(blockoutRepo, auditSvc, snapshots)
	blockoutHandler := blockout.NewHandler(blockoutSvc)

	blockoutRoutes := protected.Group("/blockouts")
	{
		blockoutRoutes.GET("", blockoutHandler.List)
		blockoutRoutes.POST("", blockoutHandler.Create)
		blockoutRoutes.PUT("/:id", blockoutHandler.Update)
		blockoutRoutes.DELETE("/:id", blockoutHandler.Delete)
	}

	// ========== Songs ==========
	songRepo := song.NewRepository(database.DB)
	songSvc := song.NewService(songRepo, auditSvc)
	songHandler := song.NewHandler(songSvc)

	songRoutes := protected.Group("/songs")
	{
		songRoutes.GET("", songHandler.List)
		songRoutes.GET("/:id", songHandler.Get)

		// Write operations are admin only; the service enforces it too
		writeRoutes := songRoutes.Group("")
		writeRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin))
		{
			writeRoutes.POST("", songHandler.Create)
			writeRoutes.PUT("/:id", songHandler.Update)
			writeRoutes.DELETE("/:id", songHandler.Delete)
		}
	}

	// ========== Events ==========
	eventRepo := event.NewRepository(database.DB)
	eventSvc := event.NewService(eventRepo, songSvc, auditSvc)
	eventHandler := event.NewHandler(eventSvc)

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.GET("", eventHandler.List)
		eventRoutes.GET("/stats", middleware.RBACMiddleware(middleware.RoleAdmin), eventHandler.Stats)
		eventRoutes.GET("/:id", eventHandler.Get)

		writeRoutes := eventRoutes.Group("")
		writeRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin))
		{
			writeRoutes.POST("", eventHandler.Create)
			writeRoutes.POST("/:id/songs", eventHandler.AttachSongs)
			writeRoutes.DELETE("/:id/songs/:songId", eventHandler.DetachSong)
		}
	}

	// ========== Calendar & Availability ==========
	calendarSvc := calendar.NewService(blockoutRepo, eventSvc, authSvc, snapshots)
	calendarHandler := calendar.NewHandler(calendarSvc)

	protected.GET("/calendar", calendarHandler.MonthView)
	protected.GET("/availability",
		middleware.RBACMiddleware(middleware.RoleAdmin),
		calendarHandler.CheckDate,
	)

	// ========== Reports (Admin Only) ==========
	{
		reportsRepo := reports.NewRepository(database.DB)
		reportsExporter := reports.NewReportExporter()
		reportsSvc := reports.NewService(reportsRepo, reportsExporter, auditSvc)
		reportsHandler := reports.NewHandler(reportsSvc)

		reportsRoutes := protected.Group("/reports")
		reportsRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin))
		{
			reportsRoutes.GET("/:type", reportsHandler.Export)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
