// services/bike_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"resavelo-backend/models"
	"resavelo-backend/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxImageSize caps uploaded bike images at 5MB.
const MaxImageSize = 5 * 1024 * 1024

var allowedImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

type BikeService struct {
	db     *gorm.DB
	images storage.ImageStore
}

func NewBikeService(db *gorm.DB, images storage.ImageStore) *BikeService {
	return &BikeService{db: db, images: images}
}

type BikeInput struct {
	Name        string
	Price       float64
	Quantity    int
	Description string
}

// BikeFilter narrows the catalog list. AvailableOnly keeps bikes with stock;
// nil price bounds are ignored.
type BikeFilter struct {
	AvailableOnly bool
	PriceMin      *float64
	PriceMax      *float64
}

func validateBikeInput(input BikeInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return newValidationError("MISSING_NAME", "Le nom du vélo est obligatoire.")
	}
	if input.Price <= 0 {
		return newValidationError("INVALID_PRICE", "Le prix journalier doit être supérieur à zéro.")
	}
	if input.Quantity < 0 {
		return newValidationError("INVALID_QUANTITY", "La quantité ne peut pas être négative.")
	}
	return nil
}

func (s *BikeService) Create(ctx context.Context, input BikeInput) (*models.Bike, error) {
	if err := validateBikeInput(input); err != nil {
		return nil, err
	}

	bike := &models.Bike{
		Name:        input.Name,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
	}
	if err := s.db.WithContext(ctx).Create(bike).Error; err != nil {
		return nil, err
	}
	return bike, nil
}

func (s *BikeService) GetByID(ctx context.Context, id uuid.UUID) (*models.Bike, error) {
	var bike models.Bike
	if err := s.db.WithContext(ctx).First(&bike, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBikeNotFound
		}
		return nil, err
	}
	return &bike, nil
}

// List returns the catalog newest first.
func (s *BikeService) List(ctx context.Context, filter BikeFilter) ([]models.Bike, error) {
	query := s.db.WithContext(ctx).Model(&models.Bike{})

	if filter.AvailableOnly {
		query = query.Where("quantity > 0")
	}
	if filter.PriceMin != nil {
		query = query.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price <= ?", *filter.PriceMax)
	}

	var bikes []models.Bike
	if err := query.Order("created_at DESC").Find(&bikes).Error; err != nil {
		return nil, err
	}
	return bikes, nil
}

func (s *BikeService) Update(ctx context.Context, id uuid.UUID, input BikeInput) (*models.Bike, error) {
	if err := validateBikeInput(input); err != nil {
		return nil, err
	}

	bike, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bike.Name = input.Name
	bike.Price = input.Price
	bike.Quantity = input.Quantity
	bike.Description = input.Description

	if err := s.db.WithContext(ctx).Save(bike).Error; err != nil {
		return nil, err
	}
	return bike, nil
}

// Delete removes a bike and its stored image. A bike that is still
// referenced by any reservation cannot be deleted; the caller must deal
// with the reservations first.
func (s *BikeService) Delete(ctx context.Context, id uuid.UUID) error {
	bike, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("bike_id = ?", id).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrBikeHasReservations
	}

	if err := s.db.WithContext(ctx).Delete(&models.Bike{}, "id = ?", id).Error; err != nil {
		return err
	}

	if bike.ImageURL != "" {
		if err := s.images.Delete(bike.ImageURL); err != nil {
			log.Printf("Failed to delete image %s for bike %s: %v", bike.ImageURL, id, err)
		}
	}
	return nil
}

// countingReader tracks how many bytes were consumed so oversized
// uploads can be rejected rather than stored short.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// ReplaceImage stores the uploaded file under a fresh unique name, points
// the bike at it, and removes the previous file so no orphans accumulate.
// Payloads over MaxImageSize are rejected whatever the caller reported.
func (s *BikeService) ReplaceImage(ctx context.Context, id uuid.UUID, ext string, r io.Reader) (*models.Bike, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if !allowedImageExtensions[ext] {
		return nil, newValidationError("INVALID_IMAGE_TYPE",
			"Format d'image non supporté (JPEG, PNG, GIF ou WEBP attendu).")
	}

	bike, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("bike_%s.%s", uuid.New().String(), ext)
	body := &countingReader{r: io.LimitReader(r, MaxImageSize+1)}
	if err := s.images.Store(filename, body); err != nil {
		return nil, err
	}
	if body.n > MaxImageSize {
		if cleanupErr := s.images.Delete(filename); cleanupErr != nil {
			log.Printf("Failed to clean up oversized image %s: %v", filename, cleanupErr)
		}
		return nil, newValidationError("IMAGE_TOO_LARGE",
			"L'image dépasse la taille maximale de 5 Mo.")
	}

	previous := bike.ImageURL
	bike.ImageURL = filename
	if err := s.db.WithContext(ctx).Model(bike).Update("image_url", filename).Error; err != nil {
		// keep the store consistent with the record
		if cleanupErr := s.images.Delete(filename); cleanupErr != nil {
			log.Printf("Failed to clean up image %s: %v", filename, cleanupErr)
		}
		return nil, err
	}

	if previous != "" && previous != filename {
		if err := s.images.Delete(previous); err != nil {
			log.Printf("Failed to delete replaced image %s: %v", previous, err)
		}
	}
	return bike, nil
}
