package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationStatus is the closed set of lifecycle states a reservation
// moves through. Anything else coming over the wire is rejected.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo enforces the adjacency rules: pending may be confirmed or
// cancelled, confirmed may be completed or cancelled, and the two terminal
// states are frozen. A same-status transition is allowed so that repeated
// admin actions stay idempotent.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCancelled, StatusCompleted:
		return false
	}
	return false
}

// Label returns the display name used by the admin tables.
func (s ReservationStatus) Label() string {
	switch s {
	case StatusPending:
		return "En attente"
	case StatusConfirmed:
		return "Confirmée"
	case StatusCancelled:
		return "Annulée"
	case StatusCompleted:
		return "Terminée"
	}
	return string(s)
}

type Reservation struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BikeID uuid.UUID `gorm:"type:uuid;index;not null" json:"bikeId"`

	StartDate time.Time `gorm:"type:date;not null" json:"startDate"`
	EndDate   time.Time `gorm:"type:date;not null" json:"endDate"`

	// TotalPrice is computed once at booking time and never recomputed,
	// even if the bike's daily rate changes afterwards.
	TotalPrice float64 `gorm:"type:decimal(10,2);not null" json:"totalPrice"`

	CustomerName  string `gorm:"not null" json:"customerName"`
	CustomerEmail string `gorm:"index;not null" json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`

	Status ReservationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	Bike Bike `gorm:"foreignKey:BikeID" json:"bike"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Initialize UUID before creating
func (r *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
