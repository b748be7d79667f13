package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// AccountService implements registration, login and account maintenance on
// top of an AccountRepository.
type AccountService struct {
	repo ports.AccountRepository
}

func NewAccountService(repo ports.AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// NormalizeEmail lower-cases and trims an address. Every email entering the
// service goes through this so uniqueness and lookup agree on case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a Client account. The existence check gives a friendly
// form error, but the store's unique index is the real guarantee: two
// concurrent registrations for the same email both pass the check, and the
// losing insert comes back as ErrEmailTaken.
func (s *AccountService) Register(ctx context.Context, firstName, lastName, email, password string) (domain.Identity, error) {
	email = NormalizeEmail(email)
	if !CheckPasswordStrength(password) {
		return domain.Identity{}, domain.ErrWeakPassword
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return domain.Identity{}, err
	}
	if exists {
		return domain.Identity{}, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Identity{}, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return domain.Identity{}, err
	}
	return created.Identity(), nil
}

// Login verifies credentials and returns the password-free snapshot. An
// unknown email and a wrong password both yield ErrInvalidCredentials so the
// response cannot be used to enumerate accounts.
func (s *AccountService) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	account, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.Identity{}, domain.ErrInvalidCredentials
		}
		return domain.Identity{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	return account.Identity(), nil
}

// Profile returns the current snapshot for an account id.
func (s *AccountService) Profile(ctx context.Context, id int64) (domain.Identity, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Identity{}, err
	}
	return account.Identity(), nil
}

// UpdateProfile changes name and email. When the email changes it must not
// collide with another account. The caller re-issues the bearer token from
// the returned snapshot so the cookie reflects the new data.
func (s *AccountService) UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) (domain.Identity, error) {
	email = NormalizeEmail(email)

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Identity{}, err
	}
	if email != current.Email {
		exists, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return domain.Identity{}, err
		}
		if exists {
			return domain.Identity{}, domain.ErrEmailTaken
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, id, strings.TrimSpace(firstName), strings.TrimSpace(lastName), email)
	if err != nil {
		return domain.Identity{}, err
	}
	return updated.Identity(), nil
}

// ChangePassword re-verifies the current password even though the caller is
// already authenticated (an unattended browser must not be enough to take
// over the account), then stores the new hash. The handler clears the
// bearer cookie afterwards and sends the user back through login; already
// issued tokens stay valid until natural expiry.
func (s *AccountService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	if !CheckPasswordStrength(newPassword) {
		return domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, id, string(hash))
}
