package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/eventdesk/backend/config"
	"github.com/eventdesk/backend/database"
	"github.com/eventdesk/backend/handlers"
	"github.com/eventdesk/backend/models"
	"github.com/eventdesk/backend/natsserver"
	"github.com/eventdesk/backend/security"
	"github.com/eventdesk/backend/services"
	"github.com/eventdesk/backend/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close(db)

	// Start embedded NATS server backing the live event feed
	broker, err := natsserver.New(natsserver.Config{Port: cfg.LiveNATSPort})
	if err != nil {
		logrus.WithError(err).Fatal("failed to start NATS server")
	}
	defer broker.Shutdown()

	liveHub, err := services.NewLiveHub(broker.Conn())
	if err != nil {
		logrus.WithError(err).Fatal("failed to start live hub")
	}
	go liveHub.Run()

	// Auth components
	hasher := security.NewHasher()
	tokens, err := security.NewTokenManager(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to build token manager")
	}

	userStore := store.NewGormUserStore(db)
	eventStore := store.NewGormEventStore(db)

	authHandler := handlers.NewAuth(userStore, hasher, tokens)
	userHandler := handlers.NewUsers(userStore)
	eventHandler := handlers.NewEvents(eventStore, liveHub, cfg.BaseURL, cfg.StaticDir)
	liveHandler := handlers.NewLive(liveHub, broker)

	// Setup Gin router
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Event Management System API"})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Serve uploaded images
	router.Static("/static", cfg.StaticDir)

	// Authentication
	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)

	// Events: listing is public, mutation is admin-only
	router.GET("/events/", eventHandler.List)
	adminEvents := router.Group("/events", authHandler.RequireUser(), handlers.RequireRole(models.RoleAdmin))
	{
		adminEvents.POST("/", eventHandler.Create)
		adminEvents.PUT("/:id", eventHandler.Update)
		adminEvents.DELETE("/:id", eventHandler.Delete)
	}

	// WebSocket route for the live event feed
	router.GET("/ws/events", liveHandler.HandleWebSocket)

	// API Routes
	api := router.Group("/api")
	{
		api.GET("/live/stats", liveHandler.Stats)

		users := api.Group("/users", authHandler.RequireUser(), handlers.RequireRole(models.RoleAdmin))
		{
			users.GET("/", userHandler.List)
			users.PUT("/:id/role", userHandler.UpdateRole)
		}
	}

	logrus.WithField("port", cfg.Port).Info("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
