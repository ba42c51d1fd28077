package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pooltablesquad/backoffice/internal/models"
)

// UpsertCustomerByEmail inserts a customer keyed by email, or refreshes the
// existing row. Incoming nil fields never clobber data we already have: the
// COALESCE keeps the stored value when the form left a field blank.
func (r *Repository) UpsertCustomerByEmail(
	ctx context.Context,
	email string,
	nameFirst, nameLast, phone *string,
) (int64, error) {
	query := `
		INSERT INTO customers (email, name_first, name_last, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email)
		DO UPDATE
			SET name_first = COALESCE(EXCLUDED.name_first, customers.name_first),
				name_last = COALESCE(EXCLUDED.name_last, customers.name_last),
				phone = COALESCE(EXCLUDED.phone, customers.phone),
				updated_at = NOW()
		RETURNING id;
	`

	var customerID int64
	if err := r.db.QueryRow(ctx, query, email, nameFirst, nameLast, phone).Scan(&customerID); err != nil {
		return 0, fmt.Errorf("failed to upsert customer: %w", err)
	}

	return customerID, nil
}

// ListCustomers returns one page of non-deleted customers ordered by last
// name, optionally filtered by a case-insensitive search over names and email,
// together with the total matching count for pagination.
func (r *Repository) ListCustomers(
	ctx context.Context,
	page, pageSize int,
	search string,
) ([]models.Customer, int, error) {
	offset := (page - 1) * pageSize

	countQuery := `
		SELECT COUNT(*)
		FROM customers
		WHERE "delete" IS NOT TRUE
			AND ($1 = '' OR name_first ILIKE '%' || $1 || '%'
				OR name_last ILIKE '%' || $1 || '%'
				OR email ILIKE '%' || $1 || '%');
	`

	var total int
	if err := r.db.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	dataQuery := `
		SELECT id, email, name_first, name_last, phone, created_at, updated_at
		FROM customers
		WHERE "delete" IS NOT TRUE
			AND ($1 = '' OR name_first ILIKE '%' || $1 || '%'
				OR name_last ILIKE '%' || $1 || '%'
				OR email ILIKE '%' || $1 || '%')
		ORDER BY name_last ASC
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.db.Query(ctx, dataQuery, search, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if errScan := rows.Scan(
			&c.ID, &c.Email, &c.NameFirst, &c.NameLast, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
		); errScan != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", errScan)
		}
		customers = append(customers, c)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read row: %w", err)
	}

	return customers, total, nil
}

// GetCustomer returns a single non-deleted customer.
func (r *Repository) GetCustomer(ctx context.Context, customerID int64) (*models.Customer, error) {
	query := `
		SELECT id, email, name_first, name_last, phone, created_at, updated_at
		FROM customers
		WHERE id = $1 AND "delete" IS NOT TRUE;
	`

	var c models.Customer
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&c.ID, &c.Email, &c.NameFirst, &c.NameLast, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}

	return &c, nil
}

// CreateCustomer inserts a customer created manually from the dashboard.
func (r *Repository) CreateCustomer(ctx context.Context, c models.Customer) (*models.Customer, error) {
	query := `
		INSERT INTO customers (name_first, name_last, phone, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, name_first, name_last, phone, created_at, updated_at;
	`

	var stored models.Customer
	err := r.db.QueryRow(ctx, query, c.NameFirst, c.NameLast, c.Phone, c.Email).Scan(
		&stored.ID, &stored.Email, &stored.NameFirst, &stored.NameLast,
		&stored.Phone, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", constraintError(err))
	}

	return &stored, nil
}

// UpdateCustomer rewrites a customer's contact fields.
func (r *Repository) UpdateCustomer(
	ctx context.Context,
	customerID int64,
	c models.Customer,
) (*models.Customer, error) {
	query := `
		UPDATE customers SET
			name_first = $1,
			name_last = $2,
			phone = $3,
			email = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING id, email, name_first, name_last, phone, created_at, updated_at;
	`

	var stored models.Customer
	err := r.db.QueryRow(ctx, query, c.NameFirst, c.NameLast, c.Phone, c.Email, customerID).Scan(
		&stored.ID, &stored.Email, &stored.NameFirst, &stored.NameLast,
		&stored.Phone, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", constraintError(err))
	}

	return &stored, nil
}

// SoftDeleteCustomer marks a customer as deleted.
func (r *Repository) SoftDeleteCustomer(ctx context.Context, customerID int64) error {
	query := `
		UPDATE customers
		SET "delete" = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1;
	`

	tag, err := r.db.Exec(ctx, query, customerID)
	if err != nil {
		return fmt.Errorf("failed to mark customer as deleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListCustomerNotes returns a customer's notes, newest first.
func (r *Repository) ListCustomerNotes(ctx context.Context, customerID int64) ([]models.CustomerNote, error) {
	query := `
		SELECT id, customer_id, note, date
		FROM customer_notes
		WHERE customer_id = $1
		ORDER BY date DESC;
	`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer notes: %w", err)
	}
	defer rows.Close()

	var notes []models.CustomerNote
	for rows.Next() {
		var n models.CustomerNote
		if errScan := rows.Scan(&n.ID, &n.CustomerID, &n.Note, &n.Date); errScan != nil {
			return nil, fmt.Errorf("failed to scan customer note: %w", errScan)
		}
		notes = append(notes, n)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return notes, nil
}

// AddCustomerNote attaches a note to a customer and returns the stored row.
func (r *Repository) AddCustomerNote(ctx context.Context, customerID int64, note string) (*models.CustomerNote, error) {
	query := `
		INSERT INTO customer_notes (customer_id, note)
		VALUES ($1, $2)
		RETURNING id, customer_id, note, date;
	`

	var stored models.CustomerNote
	err := r.db.QueryRow(ctx, query, customerID, note).Scan(
		&stored.ID, &stored.CustomerID, &stored.Note, &stored.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert customer note: %w", constraintError(err))
	}

	return &stored, nil
}

// UpdateCustomerNote rewrites a note's text and refreshes its timestamp.
func (r *Repository) UpdateCustomerNote(
	ctx context.Context,
	customerID, noteID int64,
	note string,
) (*models.CustomerNote, error) {
	query := `
		UPDATE customer_notes
		SET note = $1, date = CURRENT_TIMESTAMP
		WHERE id = $2 AND customer_id = $3
		RETURNING id, customer_id, note, date;
	`

	var stored models.CustomerNote
	err := r.db.QueryRow(ctx, query, note, noteID, customerID).Scan(
		&stored.ID, &stored.CustomerID, &stored.Note, &stored.Date,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer note: %w", err)
	}

	return &stored, nil
}

// DeleteCustomerNote removes a note. Notes are the only hard delete in the
// customer tables; they carry no history worth keeping.
func (r *Repository) DeleteCustomerNote(ctx context.Context, customerID, noteID int64) error {
	query := `
		DELETE FROM customer_notes
		WHERE id = $1 AND customer_id = $2;
	`

	tag, err := r.db.Exec(ctx, query, noteID, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete customer note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
