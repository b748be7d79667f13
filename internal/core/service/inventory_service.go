package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// InventoryService implements browsing and staff management of
// classifications and vehicles.
type InventoryService struct {
	repo ports.InventoryRepository
}

func NewInventoryService(repo ports.InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

func (s *InventoryService) Classifications(ctx context.Context) ([]domain.Classification, error) {
	return s.repo.Classifications(ctx)
}

func (s *InventoryService) ClassificationByID(ctx context.Context, id int64) (*domain.Classification, error) {
	return s.repo.ClassificationByID(ctx, id)
}

// AddClassification creates a nav entry. Names are letters only; the store's
// unique index turns a duplicate into ErrClassificationTaken.
func (s *InventoryService) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	name = strings.TrimSpace(name)
	if !classificationNameOK(name) {
		return nil, domain.ErrInvalidClassification
	}
	return s.repo.CreateClassification(ctx, name)
}

func classificationNameOK(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func (s *InventoryService) VehiclesByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error) {
	return s.repo.VehiclesByClassification(ctx, classificationID)
}

func (s *InventoryService) VehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return s.repo.VehicleByID(ctx, id)
}

// AddVehicle stores a new inventory item under an existing classification.
func (s *InventoryService) AddVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	if err := s.checkVehicle(ctx, &v); err != nil {
		return nil, err
	}
	return s.repo.CreateVehicle(ctx, &v)
}

func (s *InventoryService) UpdateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	if err := s.checkVehicle(ctx, &v); err != nil {
		return nil, err
	}
	return s.repo.UpdateVehicle(ctx, &v)
}

func (s *InventoryService) DeleteVehicle(ctx context.Context, id int64) error {
	return s.repo.DeleteVehicle(ctx, id)
}

// checkVehicle enforces the invariants the form validator already reported
// nicely: sane year, non-negative price and mileage, and a classification
// that actually exists.
func (s *InventoryService) checkVehicle(ctx context.Context, v *domain.Vehicle) error {
	if v.Year < 1886 || v.Year > time.Now().Year()+1 {
		return domain.ErrInvalidVehicle
	}
	if v.Price < 0 || v.Miles < 0 {
		return domain.ErrInvalidVehicle
	}
	if _, err := s.repo.ClassificationByID(ctx, v.ClassificationID); err != nil {
		return err
	}
	return nil
}
