package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bike struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	Name        string  `gorm:"not null" json:"name"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"` // per-day rate
	Quantity    int     `gorm:"not null;default:0" json:"quantity"`       // total fleet count, never decremented by bookings
	Description string  `gorm:"type:text" json:"description"`
	ImageURL    string  `json:"imageUrl"` // bare filename inside the image store, empty if none

	Reservations []Reservation `gorm:"foreignKey:BikeID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Initialize UUID before creating
func (b *Bike) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
