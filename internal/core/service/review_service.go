package service

import (
	"context"
	"strings"
	"time"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

const (
	minReviewLength = 3
	maxReviewLength = 500
)

// ReviewService validates and stores vehicle reviews.
type ReviewService struct {
	reviews   ports.ReviewRepository
	inventory ports.InventoryRepository
}

func NewReviewService(reviews ports.ReviewRepository, inventory ports.InventoryRepository) *ReviewService {
	return &ReviewService{reviews: reviews, inventory: inventory}
}

// Submit stores a review for an existing vehicle on behalf of the
// authenticated account.
func (s *ReviewService) Submit(ctx context.Context, vehicleID, accountID int64, text string) (*domain.Review, error) {
	text = strings.TrimSpace(text)
	if len(text) < minReviewLength || len(text) > maxReviewLength {
		return nil, domain.ErrInvalidReview
	}

	if _, err := s.inventory.VehicleByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	return s.reviews.Create(ctx, &domain.Review{
		VehicleID: vehicleID,
		AccountID: accountID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *ReviewService) ByVehicle(ctx context.Context, vehicleID int64) ([]domain.Review, error) {
	return s.reviews.ByVehicle(ctx, vehicleID)
}
