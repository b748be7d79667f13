package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csemotors/dealership/internal/core/domain"
)

// InventoryRepository persists classifications and vehicles.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) Classifications(ctx context.Context) ([]domain.Classification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT classification_id, classification_name FROM classification ORDER BY classification_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Classification
	for rows.Next() {
		var c domain.Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *InventoryRepository) ClassificationByID(ctx context.Context, id int64) (*domain.Classification, error) {
	var c domain.Classification
	err := r.pool.QueryRow(ctx,
		`SELECT classification_id, classification_name FROM classification WHERE classification_id = $1`, id,
	).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrClassificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find classification: %w", err)
	}
	return &c, nil
}

func (r *InventoryRepository) CreateClassification(ctx context.Context, name string) (*domain.Classification, error) {
	var c domain.Classification
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classification (classification_name) VALUES ($1)
		 RETURNING classification_id, classification_name`, name,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrClassificationTaken
		}
		return nil, fmt.Errorf("insert classification: %w", err)
	}
	return &c, nil
}

const vehicleColumns = `inv_id, classification_id, inv_make, inv_model, inv_year,
	inv_description, inv_image, inv_thumbnail, inv_price, inv_miles, inv_color`

func (r *InventoryRepository) VehiclesByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+vehicleColumns+` FROM inventory WHERE classification_id = $1 ORDER BY inv_make, inv_model`,
		classificationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var out []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *InventoryRepository) VehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM inventory WHERE inv_id = $1`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return v, nil
}

func (r *InventoryRepository) CreateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	query := `
		INSERT INTO inventory (classification_id, inv_make, inv_model, inv_year,
			inv_description, inv_image, inv_thumbnail, inv_price, inv_miles, inv_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + vehicleColumns
	row := r.pool.QueryRow(ctx, query,
		v.ClassificationID, v.Make, v.Model, v.Year, v.Description,
		v.Image, v.Thumbnail, v.Price, v.Miles, v.Color,
	)
	created, err := scanVehicle(row)
	if err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	return created, nil
}

func (r *InventoryRepository) UpdateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	query := `
		UPDATE inventory
		SET classification_id = $2, inv_make = $3, inv_model = $4, inv_year = $5,
			inv_description = $6, inv_image = $7, inv_thumbnail = $8,
			inv_price = $9, inv_miles = $10, inv_color = $11
		WHERE inv_id = $1
		RETURNING ` + vehicleColumns
	row := r.pool.QueryRow(ctx, query,
		v.ID, v.ClassificationID, v.Make, v.Model, v.Year, v.Description,
		v.Image, v.Thumbnail, v.Price, v.Miles, v.Color,
	)
	updated, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return updated, nil
}

func (r *InventoryRepository) DeleteVehicle(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory WHERE inv_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := row.Scan(
		&v.ID, &v.ClassificationID, &v.Make, &v.Model, &v.Year,
		&v.Description, &v.Image, &v.Thumbnail, &v.Price, &v.Miles, &v.Color,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}
