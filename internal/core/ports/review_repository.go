package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// ReviewRepository defines persistence for vehicle reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ByVehicle(ctx context.Context, vehicleID int64) ([]domain.Review, error)
}
