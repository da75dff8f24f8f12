package routes

import (
	"os"
	"strings"

	"resavelo-backend/config"
	"resavelo-backend/controllers"
	"resavelo-backend/services"
	"resavelo-backend/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires the API. The DB handle and image store are passed in
// explicitly; nothing here reaches for globals. The admin routes carry no
// authentication, matching the back office this replaces.
func SetupRouter(db *gorm.DB, images storage.ImageStore) *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	reservationService := services.NewReservationService(db)
	bikeService := services.NewBikeService(db, images)
	notifier := services.NewNotificationService()

	bikeController := controllers.NewBikeController(bikeService, reservationService)
	reservationController := controllers.NewReservationController(reservationService, notifier)
	dashboardController := controllers.NewDashboardController(reservationService)

	api := r.Group("/api")
	{
		// Bike catalog routes
		bikes := api.Group("/bikes")
		{
			bikes.POST("", bikeController.CreateBike)
			bikes.GET("", bikeController.GetBikes)
			bikes.GET("/:id", bikeController.GetBike)
			bikes.PUT("/:id", bikeController.UpdateBike)
			bikes.DELETE("/:id", bikeController.DeleteBike)
			bikes.POST("/:id/image", bikeController.UploadBikeImage)
			bikes.GET("/:id/availability", bikeController.GetBikeAvailability)
			bikes.GET("/:id/occupancy", bikeController.GetBikeOccupancy)
		}

		// Reservation routes
		reservations := api.Group("/reservations")
		{
			reservations.POST("", reservationController.CreateReservation)
			reservations.GET("", reservationController.GetReservations)
			reservations.GET("/lookup", reservationController.LookupReservations)
			reservations.GET("/:id", reservationController.GetReservation)
			reservations.PUT("/:id/status", reservationController.UpdateReservationStatus)
			reservations.PUT("/:id/cancel", reservationController.CancelReservation)
		}

		// Dashboard routes
		api.GET("/dashboard", dashboardController.GetDashboardOverview)
	}

	return r
}
