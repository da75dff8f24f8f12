// controllers/reservation.go
package controllers

import (
	"net/http"

	"resavelo-backend/models"
	"resavelo-backend/services"
	"resavelo-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReservationController serves the public booking flow, the self-service
// lookup and the admin reservation tables.
type ReservationController struct {
	reservations *services.ReservationService
	notifier     *services.NotificationService
}

func NewReservationController(reservations *services.ReservationService, notifier *services.NotificationService) *ReservationController {
	return &ReservationController{reservations: reservations, notifier: notifier}
}

// CreateReservationInput defines the expected JSON structure for a booking
type CreateReservationInput struct {
	BikeID        uuid.UUID `json:"bikeId" binding:"required"`
	StartDate     string    `json:"startDate" binding:"required"`
	EndDate       string    `json:"endDate" binding:"required"`
	CustomerName  string    `json:"customerName" binding:"required"`
	CustomerEmail string    `json:"customerEmail" binding:"required"`
	CustomerPhone string    `json:"customerPhone"`
}

// UpdateStatusInput defines the expected JSON structure for a status change
type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// reservationView decorates a reservation with the display strings the
// public pages render: status badge text, formatted price and dates.
type reservationView struct {
	models.Reservation
	StatusLabel    string `json:"statusLabel"`
	FormattedPrice string `json:"formattedPrice"`
	DisplayPeriod  string `json:"displayPeriod"`
}

func toView(r models.Reservation) reservationView {
	return reservationView{
		Reservation:    r,
		StatusLabel:    r.Status.Label(),
		FormattedPrice: utils.FormatPrice(r.TotalPrice),
		DisplayPeriod:  utils.FormatDate(r.StartDate) + " - " + utils.FormatDate(r.EndDate),
	}
}

func toViews(reservations []models.Reservation) []reservationView {
	views := make([]reservationView, 0, len(reservations))
	for _, r := range reservations {
		views = append(views, toView(r))
	}
	return views
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var input CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	start, err := utils.ParseDate(input.StartDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Format de date invalide.")
		return
	}
	end, err := utils.ParseDate(input.EndDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Format de date invalide.")
		return
	}

	reservation, err := rc.reservations.Create(c.Request.Context(), services.CreateReservationInput{
		BikeID:        input.BikeID,
		StartDate:     start,
		EndDate:       end,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	go rc.notifier.SendBookingConfirmation(reservation)

	c.JSON(http.StatusCreated, reservation)
}

func (rc *ReservationController) GetReservations(c *gin.Context) {
	filter := services.ReservationFilter{
		Active: c.Query("active") == "true" || c.Query("active") == "1",
	}

	if raw := c.Query("status"); raw != "" {
		status := models.ReservationStatus(raw)
		if !status.IsValid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Unrecognized reservation status")
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("bike_id"); raw != "" {
		bikeID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid bike ID format")
			return
		}
		filter.BikeID = &bikeID
	}

	reservations, err := rc.reservations.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toViews(reservations))
}

// LookupReservations is the session-less customer lookup by email.
func (rc *ReservationController) LookupReservations(c *gin.Context) {
	reservations, err := rc.reservations.ListByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toViews(reservations))
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reservation ID format")
		return
	}

	reservation, err := rc.reservations.GetByID(c.Request.Context(), reservationID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toView(*reservation))
}

func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reservation ID format")
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	reservation, err := rc.reservations.UpdateStatus(c.Request.Context(),
		reservationID, models.ReservationStatus(input.Status))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

func (rc *ReservationController) CancelReservation(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reservation ID format")
		return
	}

	reservation, err := rc.reservations.Cancel(c.Request.Context(), reservationID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}
