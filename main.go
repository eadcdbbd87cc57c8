package main

import (
	"log"

	"anomaly-economy/internal/api"
	"anomaly-economy/internal/database"
	"anomaly-economy/pkg/logger"
)

func main() {
	logCfg := &logger.Config{
		Level:      "info",
		Filename:   "logs/anomaly-economy.log",
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	if err := logger.InitLogger(logCfg); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	router, err := api.NewRouter()
	if err != nil {
		log.Fatalf("failed to create router: %v", err)
	}

	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if err := database.Seed(database.DB); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}

	if err := router.Run(":8080"); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
