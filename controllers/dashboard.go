// controllers/dashboard.go
package controllers

import (
	"net/http"
	"strconv"

	"resavelo-backend/services"
	"resavelo-backend/utils"

	"github.com/gin-gonic/gin"
)

const defaultMostRentedLimit = 5

// DashboardController aggregates the admin overview numbers.
type DashboardController struct {
	reservations *services.ReservationService
}

func NewDashboardController(reservations *services.ReservationService) *DashboardController {
	return &DashboardController{reservations: reservations}
}

// GetDashboardOverview returns reservation counts per status, revenue
// totals and the most rented bikes.
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	stats, err := dc.reservations.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	limit := defaultMostRentedLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	mostRented, err := dc.reservations.MostRented(c.Request.Context(), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":      stats,
		"mostRented": mostRented,
	})
}
