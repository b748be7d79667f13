package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// AccountRepository defines the persistence contract for accounts.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) (*domain.Account, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
