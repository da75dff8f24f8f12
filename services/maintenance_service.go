// services/maintenance_service.go
package services

import (
	"context"
	"log"

	"resavelo-backend/models"
	"resavelo-backend/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// MaintenanceService closes out rentals whose period has ended: a confirmed
// reservation past its end date becomes completed. It goes through the same
// transition rules as the admin screens.
type MaintenanceService struct {
	db           *gorm.DB
	reservations *ReservationService
	cron         *cron.Cron
}

func NewMaintenanceService(db *gorm.DB, reservations *ReservationService) *MaintenanceService {
	return &MaintenanceService{db: db, reservations: reservations}
}

// StartScheduler runs CompleteFinished every night at 1 AM.
func (s *MaintenanceService) StartScheduler() {
	c := cron.New()

	c.AddFunc("0 1 * * *", func() {
		if _, err := s.CompleteFinished(context.Background()); err != nil {
			log.Printf("Reservation completion run failed: %v", err)
		}
	})

	c.Start()
	s.cron = c
	log.Println("Maintenance scheduler started")
}

func (s *MaintenanceService) StopScheduler() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// CompleteFinished marks every confirmed reservation whose end date has
// passed as completed and returns how many were moved.
func (s *MaintenanceService) CompleteFinished(ctx context.Context) (int, error) {
	var finished []models.Reservation
	err := s.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", models.StatusConfirmed, utils.Today()).
		Find(&finished).Error
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, reservation := range finished {
		if _, err := s.reservations.UpdateStatus(ctx, reservation.ID, models.StatusCompleted); err != nil {
			log.Printf("Failed to complete reservation %s: %v", reservation.ID, err)
			continue
		}
		completed++
	}

	if completed > 0 {
		log.Printf("Completed %d finished reservation(s)", completed)
	}
	return completed, nil
}
