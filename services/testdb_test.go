package services_test

import (
	"context"
	"testing"
	"time"

	"resavelo-backend/models"
	"resavelo-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database. The pool is pinned to a
// single connection so the memory database survives for the whole test and
// concurrent callers serialize on it, the way the per-bike lock expects.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Bike{}, &models.Reservation{}))
	return db
}

func createBike(t *testing.T, db *gorm.DB, name string, price float64, quantity int) *models.Bike {
	t.Helper()

	bike := &models.Bike{Name: name, Price: price, Quantity: quantity}
	require.NoError(t, db.Create(bike).Error)
	return bike
}

// insertReservation seeds a reservation directly, bypassing the booking
// rules, so fixtures can carry past dates and arbitrary statuses.
func insertReservation(t *testing.T, db *gorm.DB, bikeID uuid.UUID, start, end time.Time, status models.ReservationStatus, totalPrice float64) *models.Reservation {
	t.Helper()

	reservation := &models.Reservation{
		BikeID:        bikeID,
		StartDate:     utils.BeginningOfDay(start),
		EndDate:       utils.BeginningOfDay(end),
		TotalPrice:    totalPrice,
		CustomerName:  "Jean Dupont",
		CustomerEmail: "jean.dupont@example.com",
		Status:        status,
	}
	require.NoError(t, db.Create(reservation).Error)
	return reservation
}

// backdate rewrites created_at without touching hooks.
func backdate(t *testing.T, db *gorm.DB, reservation *models.Reservation, createdAt time.Time) {
	t.Helper()
	require.NoError(t, db.Model(reservation).UpdateColumn("created_at", createdAt).Error)
}

func ctx() context.Context { return context.Background() }

func futureDay(offset int) time.Time {
	return utils.Today().AddDate(0, 0, offset)
}
