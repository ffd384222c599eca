// internal/database/user.go
package database

import (
	"context"
	"fmt"

	"github.com/duelyard/duelyard/internal/auth"
	"github.com/duelyard/duelyard/internal/models"
)

// CreateUser hashes the user's password and inserts the row, filling in the
// generated id.
func CreateUser(ctx context.Context, user *models.User) error {
	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	q := `INSERT INTO users (email, password, username) VALUES ($1, $2, $3) RETURNING id`
	if err := DB.QueryRow(ctx, q, user.Email, user.Password, user.Username).Scan(&user.ID); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail fetches a user with the password hash included, for login.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	q := `SELECT id, email, password, username FROM users WHERE email=$1`
	err := DB.QueryRow(ctx, q, email).Scan(&u.ID, &u.Email, &u.Password, &u.Username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID fetches a user without the password hash.
func GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	q := `SELECT id, email, username FROM users WHERE id=$1`
	err := DB.QueryRow(ctx, q, id).Scan(&u.ID, &u.Email, &u.Username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
