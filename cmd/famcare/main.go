package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/famcare-dev/famcare/internal/config"
	"github.com/famcare-dev/famcare/internal/identity"
	"github.com/famcare-dev/famcare/internal/router"
	"github.com/famcare-dev/famcare/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	records, err := store.NewRedis(cfg.RedisURL)

	if err != nil {
		log.Fatalf("Failed to connect to record store: %v", err)
	}

	defer records.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := records.Ping(ctx); err != nil {
		log.Fatalf("Record store is unreachable: %v", err)
	}

	log.Println("Record store connection established")

	provider := identity.NewJWTProvider(records, cfg.JWTSecret, cfg.TokenTTL)

	r := router.New(cfg, records, provider)

	log.Printf("Server starting on http://localhost:%s", cfg.Port)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
