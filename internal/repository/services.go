package repository

import (
	"context"
	"fmt"

	"github.com/pooltablesquad/backoffice/internal/models"
)

// ListServices returns the service catalog ordered by name, then table size.
func (r *Repository) ListServices(ctx context.Context) ([]models.Service, error) {
	query := `
		SELECT service_id, service_name, table_size_ft
		FROM services
		ORDER BY service_name ASC, table_size_ft ASC NULLS FIRST;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var s models.Service
		if errScan := rows.Scan(&s.ServiceID, &s.ServiceName, &s.TableSizeFt); errScan != nil {
			return nil, fmt.Errorf("failed to scan service: %w", errScan)
		}
		services = append(services, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return services, nil
}

// CreateService adds a catalog entry. A duplicate name and size pair returns
// ErrDuplicate.
func (r *Repository) CreateService(ctx context.Context, name string, tableSizeFt *float64) (*models.Service, error) {
	query := `
		INSERT INTO services (service_name, table_size_ft)
		VALUES ($1, $2)
		RETURNING service_id, service_name, table_size_ft;
	`

	var stored models.Service
	err := r.db.QueryRow(ctx, query, name, tableSizeFt).Scan(
		&stored.ServiceID, &stored.ServiceName, &stored.TableSizeFt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert service: %w", constraintError(err))
	}

	return &stored, nil
}

// DeleteService removes a catalog entry. The delete is blocked with ErrInUse
// while any contractor still has a price on the service.
func (r *Repository) DeleteService(ctx context.Context, serviceID int64) error {
	query := `
		DELETE FROM services
		WHERE service_id = $1;
	`

	tag, err := r.db.Exec(ctx, query, serviceID)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", constraintError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// FullPricingSheet returns a contractor's price list joined with the service
// catalog, in catalog order. An unknown contractor yields an empty sheet; the
// caller decides whether that matters.
func (r *Repository) FullPricingSheet(ctx context.Context, contractorID int64) ([]models.PriceRow, error) {
	query := `
		SELECT p.service_id, p.price, p.sub_price, p.material_cost,
			s.service_name, s.table_size_ft
		FROM contractor_prices p
		JOIN services s ON s.service_id = p.service_id
		WHERE p.contractor_id = $1
		ORDER BY s.service_name ASC, s.table_size_ft ASC NULLS FIRST;
	`

	rows, err := r.db.Query(ctx, query, contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pricing sheet: %w", err)
	}
	defer rows.Close()

	var sheet []models.PriceRow
	for rows.Next() {
		var row models.PriceRow
		if errScan := rows.Scan(
			&row.ServiceID, &row.Price, &row.SubPrice, &row.MaterialCost,
			&row.ServiceName, &row.TableSizeFt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", errScan)
		}
		sheet = append(sheet, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return sheet, nil
}

// UpsertContractorPrice sets or replaces one contractor's price for a service.
func (r *Repository) UpsertContractorPrice(
	ctx context.Context,
	contractorID, serviceID int64,
	price float64,
	subPrice, materialCost *float64,
) error {
	query := `
		INSERT INTO contractor_prices (contractor_id, service_id, price, sub_price, material_cost)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (contractor_id, service_id)
		DO UPDATE SET price = EXCLUDED.price,
			sub_price = EXCLUDED.sub_price,
			material_cost = EXCLUDED.material_cost;
	`

	if _, err := r.db.Exec(ctx, query, contractorID, serviceID, price, subPrice, materialCost); err != nil {
		return fmt.Errorf("failed to upsert contractor price: %w", constraintError(err))
	}

	return nil
}
