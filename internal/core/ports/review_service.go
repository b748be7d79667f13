package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// ReviewService validates and stores vehicle reviews.
type ReviewService interface {
	Submit(ctx context.Context, vehicleID, accountID int64, text string) (*domain.Review, error)
	ByVehicle(ctx context.Context, vehicleID int64) ([]domain.Review, error)
}
