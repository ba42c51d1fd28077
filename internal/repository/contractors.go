package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pooltablesquad/backoffice/internal/models"
)

const contractorColumns = `id, name, phone, email, address_line1, address_line2,
		city, state, postal_code, notes, created_at, updated_at`

// ListContractors returns every contractor that has not been soft-deleted,
// ordered by name for the dashboard roster view.
func (r *Repository) ListContractors(ctx context.Context) ([]models.Contractor, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM contractors
		WHERE "delete" IS NOT TRUE
		ORDER BY name ASC;
	`, contractorColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query contractors: %w", err)
	}
	defer rows.Close()

	var contractors []models.Contractor
	for rows.Next() {
		var c models.Contractor
		if errScan := rows.Scan(
			&c.ID, &c.Name, &c.Phone, &c.Email, &c.AddressLine1, &c.AddressLine2,
			&c.City, &c.State, &c.PostalCode, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan contractor: %w", errScan)
		}
		contractors = append(contractors, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return contractors, nil
}

// ListActiveContractors returns the id, name and base location of every active
// contractor. This is the roster the assignment heuristic folds over, so the
// retrieval order (insertion order by id) is part of the tie-break contract.
func (r *Repository) ListActiveContractors(ctx context.Context) ([]models.Contractor, error) {
	query := `
		SELECT id, name, city, state
		FROM contractors
		WHERE "delete" IS NOT TRUE
		ORDER BY id ASC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active contractors: %w", err)
	}
	defer rows.Close()

	var contractors []models.Contractor
	for rows.Next() {
		var c models.Contractor
		if errScan := rows.Scan(&c.ID, &c.Name, &c.City, &c.State); errScan != nil {
			return nil, fmt.Errorf("failed to scan active contractor: %w", errScan)
		}
		contractors = append(contractors, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return contractors, nil
}

// GetContractorRate returns the base location and per-mile rate the mileage
// calculator needs, or (nil, nil) when the contractor does not exist.
func (r *Repository) GetContractorRate(ctx context.Context, contractorID int64) (*models.ContractorRate, error) {
	query := `
		SELECT city, state, per_mile_rate
		FROM contractors
		WHERE id = $1;
	`

	var rate models.ContractorRate
	err := r.db.QueryRow(ctx, query, contractorID).Scan(&rate.City, &rate.State, &rate.PerMileRate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query contractor rate: %w", err)
	}

	return &rate, nil
}

// CreateContractor inserts a new contractor and returns the stored row.
func (r *Repository) CreateContractor(ctx context.Context, c models.Contractor) (*models.Contractor, error) {
	query := fmt.Sprintf(`
		INSERT INTO contractors
			(name, phone, email, address_line1, address_line2, city, state, postal_code, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s;
	`, contractorColumns)

	var stored models.Contractor
	err := r.db.QueryRow(ctx, query,
		c.Name, c.Phone, c.Email, c.AddressLine1, c.AddressLine2,
		c.City, c.State, c.PostalCode, c.Notes,
	).Scan(
		&stored.ID, &stored.Name, &stored.Phone, &stored.Email, &stored.AddressLine1,
		&stored.AddressLine2, &stored.City, &stored.State, &stored.PostalCode,
		&stored.Notes, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contractor: %w", constraintError(err))
	}

	return &stored, nil
}

// UpdateContractor rewrites a contractor's profile fields and bumps updated_at.
func (r *Repository) UpdateContractor(
	ctx context.Context,
	contractorID int64,
	c models.Contractor,
) (*models.Contractor, error) {
	query := fmt.Sprintf(`
		UPDATE contractors SET
			name = $1,
			phone = $2,
			email = $3,
			address_line1 = $4,
			address_line2 = $5,
			city = $6,
			state = $7,
			postal_code = $8,
			notes = $9,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $10
		RETURNING %s;
	`, contractorColumns)

	var stored models.Contractor
	err := r.db.QueryRow(ctx, query,
		c.Name, c.Phone, c.Email, c.AddressLine1, c.AddressLine2,
		c.City, c.State, c.PostalCode, c.Notes, contractorID,
	).Scan(
		&stored.ID, &stored.Name, &stored.Phone, &stored.Email, &stored.AddressLine1,
		&stored.AddressLine2, &stored.City, &stored.State, &stored.PostalCode,
		&stored.Notes, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update contractor: %w", constraintError(err))
	}

	return &stored, nil
}

// SoftDeleteContractor marks a contractor as deleted without removing the row,
// so historical requests keep their assignment.
func (r *Repository) SoftDeleteContractor(ctx context.Context, contractorID int64) error {
	query := `
		UPDATE contractors
		SET "delete" = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1;
	`

	tag, err := r.db.Exec(ctx, query, contractorID)
	if err != nil {
		return fmt.Errorf("failed to mark contractor as deleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
