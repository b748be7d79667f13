package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// AccountService implements registration, login and account maintenance.
// Every returned Identity has the password hash already stripped.
type AccountService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (domain.Identity, error)
	Login(ctx context.Context, email, password string) (domain.Identity, error)
	Profile(ctx context.Context, id int64) (domain.Identity, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) (domain.Identity, error)
	ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error
}

// TokenService mints and validates the bearer credential.
type TokenService interface {
	Issue(identity domain.Identity) (string, error)
	Verify(raw string) (domain.Identity, error)
}
