package api

import (
	"anomaly-economy/config"
	"anomaly-economy/internal/api/v1/actions"
	"anomaly-economy/internal/api/v1/admin"
	"anomaly-economy/internal/api/v1/character"
	"anomaly-economy/internal/api/v1/combat"
	"anomaly-economy/internal/api/v1/economy"
	"anomaly-economy/internal/api/v1/faction"
	"anomaly-economy/internal/api/v1/stash"
	"anomaly-economy/internal/database"
	"anomaly-economy/internal/middleware"
	"anomaly-economy/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() (*gin.Engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	_, err = database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}

	err = database.ConnectRedis(cfg)
	if err != nil {
		return nil, err
	}

	services.SetLedgerSecret(cfg.LedgerSecret)

	router := gin.New()
	router.Use(middleware.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Service-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Bot-facing routes, authenticated by shared service key.
		service := v1.Group("/")
		service.Use(middleware.ServiceAuthMiddleware(cfg.ServiceKey))
		{
			economy.RegisterRoutes(service)
			character.RegisterRoutes(service)
			actions.RegisterRoutes(service)
			combat.RegisterRoutes(service)
			faction.RegisterRoutes(service)
			stash.RegisterRoutes(service)
		}

		// Operator routes, authenticated by admin JWT.
		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.AdminAuthMiddleware())
		{
			admin.RegisterRoutes(adminGroup)
		}
	}

	return router, nil
}
