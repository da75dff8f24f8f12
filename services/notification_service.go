// services/notification_service.go
package services

import (
	"fmt"
	"log"
	"os"

	"resavelo-backend/models"
	"resavelo-backend/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// NotificationService sends the customer a booking confirmation SMS. It is
// entirely best-effort: the booking flow never fails because a message
// could not be delivered.
type NotificationService struct {
	client *twilio.RestClient
	from   string
}

// NewNotificationService builds the Twilio client from the environment.
// Without credentials the service stays disabled and every send is a no-op.
func NewNotificationService() *NotificationService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_PHONE_NUMBER")

	if accountSid == "" || authToken == "" || from == "" {
		return &NotificationService{}
	}

	return &NotificationService{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

func (s *NotificationService) Enabled() bool {
	return s.client != nil
}

// SendBookingConfirmation texts the customer a recap of the reservation.
func (s *NotificationService) SendBookingConfirmation(reservation *models.Reservation) {
	if !s.Enabled() || reservation.CustomerPhone == "" {
		return
	}

	message := fmt.Sprintf(
		"RESAVELO : votre réservation du %s au %s (%s) est enregistrée. Total : %s.",
		utils.FormatDate(reservation.StartDate),
		utils.FormatDate(reservation.EndDate),
		reservation.Bike.Name,
		utils.FormatPrice(reservation.TotalPrice),
	)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(reservation.CustomerPhone)
	params.SetFrom(s.from)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send confirmation to %s: %v", reservation.CustomerPhone, err)
		return
	}
	if resp.Sid != nil {
		log.Printf("Confirmation sent to %s, SID: %s", reservation.CustomerPhone, *resp.Sid)
	}
}
