// services/reservation_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"resavelo-backend/models"
	"resavelo-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// activeStatuses are the states that hold a unit: a cancelled or completed
// reservation no longer blocks availability.
var activeStatuses = []models.ReservationStatus{models.StatusPending, models.StatusConfirmed}

type ReservationService struct {
	db    *gorm.DB
	locks *bikeLocks
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{db: db, locks: newBikeLocks()}
}

// CreateReservationInput carries a booking request. Dates are calendar days
// at UTC midnight, already parsed by the HTTP layer.
type CreateReservationInput struct {
	BikeID        uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// ReservationFilter selects reservations for the admin list. Nil fields are
// ignored. Active restricts to confirmed reservations whose date range
// contains today.
type ReservationFilter struct {
	Status *models.ReservationStatus
	BikeID *uuid.UUID
	Active bool
}

// ReservationStats aggregates the dashboard numbers. Revenue always excludes
// cancelled reservations.
type ReservationStats struct {
	Total        int64   `json:"total"`
	Pending      int64   `json:"pending"`
	Confirmed    int64   `json:"confirmed"`
	Cancelled    int64   `json:"cancelled"`
	Completed    int64   `json:"completed"`
	RevenueTotal float64 `json:"revenueTotal"`
	RevenueMonth float64 `json:"revenueMonth"`
}

// MostRentedBike is a bike ranked by its number of non-cancelled reservations.
type MostRentedBike struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	ImageURL    string    `json:"imageUrl"`
	RentalCount int64     `json:"rentalCount"`
}

// Create runs the full booking flow: date rules, contact validation,
// availability, price computation, then persists a pending reservation.
//
// The availability check and the insert deliberately run inside one
// transaction holding a FOR UPDATE lock on the bike row, serialized further
// by a per-bike mutex. The system this replaces checked and inserted in two
// unrelated statements, so two simultaneous requests could both grab the
// last unit; that race is closed here on purpose.
func (s *ReservationService) Create(ctx context.Context, input CreateReservationInput) (*models.Reservation, error) {
	if v := utils.ValidateReservationDates(input.StartDate, input.EndDate); !v.Valid {
		return nil, newValidationError(string(v.Code), v.Reason)
	}
	if input.CustomerName == "" {
		return nil, newValidationError("MISSING_NAME", "Le nom du client est obligatoire.")
	}
	input.CustomerEmail = strings.TrimSpace(input.CustomerEmail)
	if !utils.ValidateEmail(input.CustomerEmail) {
		return nil, newValidationError("INVALID_EMAIL", "L'adresse email est invalide.")
	}
	if input.CustomerPhone != "" && !utils.ValidatePhone(input.CustomerPhone) {
		return nil, newValidationError("INVALID_PHONE", "Le numéro de téléphone est invalide.")
	}

	lock := s.locks.get(input.BikeID)
	lock.Lock()
	defer lock.Unlock()

	var reservation *models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bike models.Bike
		query := tx
		// SQLite has no FOR UPDATE; there the per-bike mutex alone
		// serializes writers.
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&bike, "id = ?", input.BikeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBikeNotFound
			}
			return err
		}

		if bike.Quantity <= 0 {
			return ErrUnavailable
		}

		overlapping, err := countOverlapping(tx, input.BikeID, input.StartDate, input.EndDate)
		if err != nil {
			return err
		}
		if overlapping >= int64(bike.Quantity) {
			return ErrUnavailable
		}

		reservation = &models.Reservation{
			BikeID:        bike.ID,
			StartDate:     utils.BeginningOfDay(input.StartDate),
			EndDate:       utils.BeginningOfDay(input.EndDate),
			TotalPrice:    utils.CalculatePrice(bike.Price, input.StartDate, input.EndDate),
			CustomerName:  input.CustomerName,
			CustomerEmail: input.CustomerEmail,
			CustomerPhone: input.CustomerPhone,
			Status:        models.StatusPending,
		}
		if err := tx.Create(reservation).Error; err != nil {
			return err
		}

		reservation.Bike = bike
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// CheckAvailability reports whether the bike still has a free unit over the
// requested range. A bike that does not exist or has no stock is simply not
// available.
//
// Every overlapping pending or confirmed reservation consumes one unit for
// its entire span. Ranges overlap when existing.start <= requested.end and
// existing.end >= requested.start, endpoints included. This is a concurrent
// reservation cap, not a per-day calendar across units, and the coarseness
// is intentional.
func (s *ReservationService) CheckAvailability(ctx context.Context, bikeID uuid.UUID, start, end time.Time) (bool, error) {
	var bike models.Bike
	if err := s.db.WithContext(ctx).First(&bike, "id = ?", bikeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if bike.Quantity <= 0 {
		return false, nil
	}

	overlapping, err := countOverlapping(s.db.WithContext(ctx), bikeID, start, end)
	if err != nil {
		return false, err
	}
	return overlapping < int64(bike.Quantity), nil
}

func countOverlapping(tx *gorm.DB, bikeID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := tx.Model(&models.Reservation{}).
		Where("bike_id = ? AND status IN ?", bikeID, activeStatuses).
		Where("start_date <= ? AND end_date >= ?", utils.BeginningOfDay(end), utils.BeginningOfDay(start)).
		Count(&count).Error
	return count, err
}

func (s *ReservationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.WithContext(ctx).Preload("Bike").First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// List returns reservations newest first, with the bike joined in for
// display (name, image). Filters are optional.
func (s *ReservationService) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	query := s.db.WithContext(ctx).Model(&models.Reservation{}).Preload("Bike")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BikeID != nil {
		query = query.Where("bike_id = ?", *filter.BikeID)
	}
	if filter.Active {
		today := utils.Today()
		query = query.Where("start_date <= ? AND end_date >= ? AND status = ?",
			today, today, models.StatusConfirmed)
	}

	var reservations []models.Reservation
	if err := query.Order("created_at DESC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListByEmail is the self-service lookup: all reservations booked under the
// given address, newest first.
func (s *ReservationService) ListByEmail(ctx context.Context, email string) ([]models.Reservation, error) {
	email = strings.TrimSpace(email)
	if !utils.ValidateEmail(email) {
		return nil, newValidationError("INVALID_EMAIL", "L'adresse email est invalide.")
	}

	var reservations []models.Reservation
	err := s.db.WithContext(ctx).Preload("Bike").
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// UpdateStatus moves a reservation to a new state. Unknown statuses are
// rejected outright; known ones must respect the adjacency rules on
// ReservationStatus. Setting the current status again is a no-op.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) (*models.Reservation, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	var reservation models.Reservation
	if err := s.db.WithContext(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	if reservation.Status == status {
		return &reservation, nil
	}
	if !reservation.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	if err := s.db.WithContext(ctx).Model(&reservation).Update("status", status).Error; err != nil {
		return nil, err
	}
	reservation.Status = status
	return &reservation, nil
}

// Cancel is sugar for UpdateStatus into cancelled.
func (s *ReservationService) Cancel(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return s.UpdateStatus(ctx, id, models.StatusCancelled)
}

// Stats builds the admin dashboard aggregates.
func (s *ReservationService) Stats(ctx context.Context) (*ReservationStats, error) {
	type statusRow struct {
		Status  models.ReservationStatus
		Count   int64
		Revenue float64
	}

	var rows []statusRow
	err := s.db.WithContext(ctx).Model(&models.Reservation{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS revenue").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &ReservationStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.StatusPending:
			stats.Pending = row.Count
		case models.StatusConfirmed:
			stats.Confirmed = row.Count
		case models.StatusCancelled:
			stats.Cancelled = row.Count
		case models.StatusCompleted:
			stats.Completed = row.Count
		}
		if row.Status != models.StatusCancelled {
			stats.RevenueTotal = utils.Round2(stats.RevenueTotal + row.Revenue)
		}
	}

	now := time.Now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	firstOfNext := firstOfMonth.AddDate(0, 1, 0)

	var monthRevenue float64
	err = s.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?",
			firstOfMonth, firstOfNext, models.StatusCancelled).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&monthRevenue).Error
	if err != nil {
		return nil, err
	}
	stats.RevenueMonth = utils.Round2(monthRevenue)

	return stats, nil
}

// MostRented ranks bikes by their number of non-cancelled reservations,
// most booked first, truncated to limit.
func (s *ReservationService) MostRented(ctx context.Context, limit int) ([]MostRentedBike, error) {
	var bikes []MostRentedBike
	err := s.db.WithContext(ctx).Model(&models.Bike{}).
		Select("bikes.id, bikes.name, bikes.price, bikes.quantity, bikes.image_url, COUNT(reservations.id) AS rental_count").
		Joins("LEFT JOIN reservations ON reservations.bike_id = bikes.id AND reservations.status <> ?", models.StatusCancelled).
		Group("bikes.id").
		Order("rental_count DESC").
		Limit(limit).
		Scan(&bikes).Error
	if err != nil {
		return nil, err
	}
	return bikes, nil
}

// OccupancyRate reports how booked a bike is over a window, as a percentage
// of its total capacity (window days times quantity). Confirmed and
// completed reservations overlapping the window count with their full
// length. An unknown bike or zero capacity yields 0.
func (s *ReservationService) OccupancyRate(ctx context.Context, bikeID uuid.UUID, start, end time.Time) (float64, error) {
	var bike models.Bike
	if err := s.db.WithContext(ctx).First(&bike, "id = ?", bikeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	capacity := utils.RentalDays(start, end) * bike.Quantity
	if capacity <= 0 {
		return 0, nil
	}

	var reservations []models.Reservation
	err := s.db.WithContext(ctx).
		Where("bike_id = ? AND status IN ?", bikeID,
			[]models.ReservationStatus{models.StatusConfirmed, models.StatusCompleted}).
		Where("start_date <= ? AND end_date >= ?", utils.BeginningOfDay(end), utils.BeginningOfDay(start)).
		Find(&reservations).Error
	if err != nil {
		return 0, err
	}

	reservedDays := 0
	for _, r := range reservations {
		reservedDays += utils.RentalDays(r.StartDate, r.EndDate)
	}

	return utils.Round2(float64(reservedDays) / float64(capacity) * 100), nil
}
