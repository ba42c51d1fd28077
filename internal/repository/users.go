package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pooltablesquad/backoffice/internal/models"
)

// GetStaffUserByEmail returns a dashboard login by email, or (nil, nil) when
// no account exists. Login failures for missing and wrong-password accounts
// look identical to the client.
func (r *Repository) GetStaffUserByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	query := `
		SELECT id, email, password_hash
		FROM staff_users
		WHERE email = $1;
	`

	var user models.StaffUser
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query staff user: %w", err)
	}

	return &user, nil
}

// CreateStaffUser registers a dashboard login with an already-hashed password.
func (r *Repository) CreateStaffUser(ctx context.Context, email, passwordHash string) (int64, error) {
	query := `
		INSERT INTO staff_users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id;
	`

	var userID int64
	if err := r.db.QueryRow(ctx, query, email, passwordHash).Scan(&userID); err != nil {
		return 0, fmt.Errorf("failed to insert staff user: %w", constraintError(err))
	}

	return userID, nil
}
