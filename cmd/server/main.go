package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/play-builder/layer-x-forum/internal/db"
	"github.com/play-builder/layer-x-forum/internal/router"
	"github.com/play-builder/layer-x-forum/internal/services"
	"github.com/play-builder/layer-x-forum/internal/storage"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	// Initialize Database
	db.Init()

	// Blob store for forum images; optional in local dev
	store, err := storage.NewMinioStoreFromEnv()
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}
	if store == nil {
		log.Println("MINIO_ENDPOINT not set, image uploads disabled")
	}

	// Scheduled cleanup of expired mail tokens
	maintenance := services.StartMaintenance(db.DB)
	defer maintenance.Stop()

	r := gin.Default()
	var blob storage.BlobStore
	if store != nil {
		blob = store
	}
	router.Register(r, blob)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Printf("LayerX Forum server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
