package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// InventoryService exposes the public browse operations and the staff-only
// management operations over classifications and vehicles.
type InventoryService interface {
	Classifications(ctx context.Context) ([]domain.Classification, error)
	ClassificationByID(ctx context.Context, id int64) (*domain.Classification, error)
	AddClassification(ctx context.Context, name string) (*domain.Classification, error)

	VehiclesByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error)
	VehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	AddVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
}
