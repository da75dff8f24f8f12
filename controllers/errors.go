// controllers/errors.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"resavelo-backend/services"
	"resavelo-backend/utils"

	"github.com/gin-gonic/gin"
)

// handleServiceError translates the service error taxonomy into HTTP.
// Validation and business-rule failures carry their message through;
// anything unexpected is logged and reported generically so internal
// detail never leaks to the client.
func handleServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		utils.RespondWithError(c, http.StatusBadRequest, validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, services.ErrBikeNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Bike not found")
	case errors.Is(err, services.ErrReservationNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Reservation not found")
	case errors.Is(err, services.ErrUnavailable):
		utils.RespondWithError(c, http.StatusConflict, "No bike available for the requested dates")
	case errors.Is(err, services.ErrInvalidStatus):
		utils.RespondWithError(c, http.StatusBadRequest, "Unrecognized reservation status")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, http.StatusConflict, "Status transition not allowed")
	case errors.Is(err, services.ErrBikeHasReservations):
		utils.RespondWithError(c, http.StatusConflict, "Bike still has reservations")
	default:
		log.Printf("Storage error: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
