package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csemotors/dealership/internal/core/domain"
)

// ReviewRepository persists vehicle reviews.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	created := *review
	err := r.pool.QueryRow(ctx,
		`INSERT INTO review (inv_id, account_id, review_text, review_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING review_id`,
		review.VehicleID, review.AccountID, review.Text, review.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return &created, nil
}

func (r *ReviewRepository) ByVehicle(ctx context.Context, vehicleID int64) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rv.review_id, rv.inv_id, rv.account_id, rv.review_text, rv.review_date,
			a.account_firstname, a.account_lastname
		 FROM review rv
		 JOIN account a ON a.account_id = rv.account_id
		 WHERE rv.inv_id = $1
		 ORDER BY rv.review_date DESC`,
		vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		err := rows.Scan(&rv.ID, &rv.VehicleID, &rv.AccountID, &rv.Text, &rv.CreatedAt,
			&rv.ReviewerFirstName, &rv.ReviewerLastName)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
