package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/churchflow/churchflow-backend/config"
	"github.com/churchflow/churchflow-backend/database"
	"github.com/churchflow/churchflow-backend/internal/auditlog"
	"github.com/churchflow/churchflow-backend/internal/auth"
	"github.com/churchflow/churchflow-backend/internal/blockout"
	"github.com/churchflow/churchflow-backend/internal/event"
	"github.com/churchflow/churchflow-backend/internal/song"
	"github.com/churchflow/churchflow-backend/routes"
	"github.com/churchflow/churchflow-backend/utils"
)

// @title ChurchFlow API
// @version 1.0
// @description Ministry scheduling backend: events, song library, blockouts and team availability.
// @BasePath /api
func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(cfg); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&auditlog.AuditLog{},
		&blockout.Blockout{},
		&song.Song{},
		&event.Event{},
		&event.EventSong{},
	); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Seed the initial admin account
	if err := auth.SeedAdminUser(db); err != nil {
		log.Fatalf("❌ Failed to seed admin user: %v", err)
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	origins := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg)

	fmt.Printf("🚀 Server starting on port %s\n", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
