package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csemotors/dealership/internal/core/domain"
)

// AccountRepository persists accounts in the account table. The unique index
// on lower(account_email) is the authoritative uniqueness guarantee; the
// service-level existence check only exists for friendly form errors.
type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `account_id, account_firstname, account_lastname, account_email,
	account_password, account_type, created_at, updated_at`

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account WHERE account_email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account WHERE account_id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM account WHERE account_email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("account exists: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO account (account_firstname, account_lastname, account_email,
			account_password, account_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + accountColumns
	row := r.pool.QueryRow(ctx, query,
		account.FirstName, account.LastName, account.Email,
		account.PasswordHash, account.Role, account.CreatedAt, account.UpdatedAt,
	)
	created, err := r.scanOne(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) (*domain.Account, error) {
	query := `
		UPDATE account
		SET account_firstname = $2, account_lastname = $3, account_email = $4, updated_at = $5
		WHERE account_id = $1
		RETURNING ` + accountColumns
	row := r.pool.QueryRow(ctx, query, id, firstName, lastName, email, time.Now().UTC())
	updated, err := r.scanOne(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE account SET account_password = $2, updated_at = $3 WHERE account_id = $1`,
		id, hash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) scanOne(row pgx.Row) (*domain.Account, error) {
	account := &domain.Account{}
	err := row.Scan(
		&account.ID, &account.FirstName, &account.LastName, &account.Email,
		&account.PasswordHash, &account.Role, &account.CreatedAt, &account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}
