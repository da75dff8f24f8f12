package main

import (
	"fmt"
	"log"
	"os"

	"resavelo-backend/config"
	"resavelo-backend/models"
	"resavelo-backend/routes"
	"resavelo-backend/services"
	"resavelo-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	defer config.CloseDB(db)

	if err := db.AutoMigrate(
		&models.Bike{},
		&models.Reservation{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads/bikes"
	}
	images, err := storage.NewLocalImageStore(uploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare image store: %v", err)
	}

	if os.Getenv("SCHEDULER_ENABLED") == "true" {
		maintenance := services.NewMaintenanceService(db, services.NewReservationService(db))
		maintenance.StartScheduler()
		defer maintenance.StopScheduler()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter(db, images)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
