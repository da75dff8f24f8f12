// controllers/bike.go
package controllers

import (
	"net/http"
	"path/filepath"
	"strconv"

	"resavelo-backend/services"
	"resavelo-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BikeController serves the public catalog and the admin inventory screens.
type BikeController struct {
	bikes        *services.BikeService
	reservations *services.ReservationService
}

func NewBikeController(bikes *services.BikeService, reservations *services.ReservationService) *BikeController {
	return &BikeController{bikes: bikes, reservations: reservations}
}

// CreateBikeInput defines the expected JSON structure for creating a bike
type CreateBikeInput struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Quantity    int     `json:"quantity" binding:"min=0"`
	Description string  `json:"description"`
}

// UpdateBikeInput defines the expected JSON structure for updating a bike
type UpdateBikeInput struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Description *string  `json:"description"`
}

func (bc *BikeController) CreateBike(c *gin.Context) {
	var input CreateBikeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	bike, err := bc.bikes.Create(c.Request.Context(), services.BikeInput{
		Name:        input.Name,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bike)
}

func (bc *BikeController) GetBikes(c *gin.Context) {
	filter := services.BikeFilter{
		AvailableOnly: c.Query("available") == "true" || c.Query("available") == "1",
	}

	if raw := c.Query("price_min"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid price_min")
			return
		}
		filter.PriceMin = &v
	}
	if raw := c.Query("price_max"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid price_max")
			return
		}
		filter.PriceMax = &v
	}

	bikes, err := bc.bikes.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bikes)
}

func (bc *BikeController) GetBike(c *gin.Context) {
	bikeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bike ID format")
		return
	}

	bike, err := bc.bikes.GetByID(c.Request.Context(), bikeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bike)
}

func (bc *BikeController) UpdateBike(c *gin.Context) {
	bikeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bike ID format")
		return
	}

	var input UpdateBikeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	bike, err := bc.bikes.GetByID(c.Request.Context(), bikeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	merged := services.BikeInput{
		Name:        bike.Name,
		Price:       bike.Price,
		Quantity:    bike.Quantity,
		Description: bike.Description,
	}
	if input.Name != nil {
		merged.Name = *input.Name
	}
	if input.Price != nil {
		merged.Price = *input.Price
	}
	if input.Quantity != nil {
		merged.Quantity = *input.Quantity
	}
	if input.Description != nil {
		merged.Description = *input.Description
	}

	updated, err := bc.bikes.Update(c.Request.Context(), bikeID, merged)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (bc *BikeController) DeleteBike(c *gin.Context) {
	bikeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bike ID format")
		return
	}

	if err := bc.bikes.Delete(c.Request.Context(), bikeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bike deleted successfully"})
}

// UploadBikeImage replaces the bike's image from a multipart form field
// named "image". JPEG, PNG, GIF and WEBP are accepted, 5MB max.
func (bc *BikeController) UploadBikeImage(c *gin.Context) {
	bikeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bike ID format")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Image file required")
		return
	}
	if file.Size > services.MaxImageSize {
		utils.RespondWithError(c, http.StatusBadRequest, "Image exceeds the 5MB limit")
		return
	}

	src, err := file.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	defer src.Close()

	bike, err := bc.bikes.ReplaceImage(c.Request.Context(), bikeID, filepath.Ext(file.Filename), src)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bike)
}

// GetBikeAvailability quotes a date range for a bike: whether a unit is
// free, the billed day count and the discounted total.
func (bc *BikeController) GetBikeAvailability(c *gin.Context) {
	bikeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bike ID format")
		return
	}

	start, err := utils.ParseDate(c.Query("start"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Format de date invalide.")
		return
	}
	end, err := utils.ParseDate(c.Query("end"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Format de date invalide.")
		return
	}

	if v := utils.ValidateReservationDates(start, end); !v.Valid {
		utils.RespondWithError(c, http.StatusBadRequest, v.Reason)
		return
	}

	bike, err := bc.bikes.GetByID(c.Request.Context(), bikeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	available, err := bc.reservations.CheckAvailability(c.Request.Context(), bikeID, start, end)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	total := utils.CalculatePrice(bike.Price, start, end)
	c.JSON(http.StatusOK, gin.H{
		"available":      available,
		"days":           utils.RentalDays(start, end),
		"totalPrice":     total,
		"formattedPrice": utils.FormatPrice(total),
	})
}

// GetBikeOccupancy reports the occupancy rate of a bike over a window.
func (bc *BikeController) GetBikeOccupancy(c *gin.Context) {
	bikeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bike ID format")
		return
	}

	start, err := utils.ParseDate(c.Query("start"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Format de date invalide.")
		return
	}
	end, err := utils.ParseDate(c.Query("end"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Format de date invalide.")
		return
	}

	rate, err := bc.reservations.OccupancyRate(c.Request.Context(), bikeID, start, end)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"occupancyRate": rate})
}
