// utils/validation.go
package utils

import (
	"regexp"
	"strings"
	"time"
)

// DateErrorCode identifies which booking date rule was broken.
type DateErrorCode string

const (
	DateErrNone             DateErrorCode = ""
	DateErrInvalidRange     DateErrorCode = "INVALID_DATE_RANGE"
	DateErrDurationExceeded DateErrorCode = "DURATION_EXCEEDED"
)

// MaxRentalDays caps the inclusive length of a rental.
const MaxRentalDays = 30

// DateValidation is the result contract of ValidateReservationDates: callers
// check Valid before proceeding, failures carry a code and a display reason.
type DateValidation struct {
	Valid  bool
	Code   DateErrorCode
	Reason string
}

// ValidateReservationDates checks the three booking rules:
//  1. the start date must be today or in the future
//  2. the end date must not be before the start date
//  3. the rental must not exceed MaxRentalDays inclusive days
func ValidateReservationDates(start, end time.Time) DateValidation {
	today := Today()

	if BeginningOfDay(start).Before(today) {
		return DateValidation{
			Code:   DateErrInvalidRange,
			Reason: "La date de début doit être aujourd'hui ou dans le futur.",
		}
	}

	if end.Before(start) {
		return DateValidation{
			Code:   DateErrInvalidRange,
			Reason: "La date de fin doit être après la date de début.",
		}
	}

	if RentalDays(start, end) > MaxRentalDays {
		return DateValidation{
			Code:   DateErrDurationExceeded,
			Reason: "La durée maximale de location est de 30 jours.",
		}
	}

	return DateValidation{Valid: true}
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks the syntactic shape of an email address. It is the
// gate for the self-service reservation lookup.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}
