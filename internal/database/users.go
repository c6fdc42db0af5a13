package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"renthub/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (email, password_hash, name, phone, role, avatar, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Phone,
		user.Role,
		user.Avatar,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, password_hash, name, phone, role, avatar, created_at, updated_at
              FROM users WHERE email = ?`
	return db.queryUser(ctx, query, email)
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, email, password_hash, name, phone, role, avatar, created_at, updated_at
              FROM users WHERE id = ?`
	return db.queryUser(ctx, query, id)
}

func (db *DB) queryUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	var phone, avatar sql.NullString
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &phone,
		&user.Role, &avatar, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	user.Phone = phone.String
	user.Avatar = avatar.String
	return &user, nil
}

func (db *DB) UpdateUserProfile(ctx context.Context, id int64, name, phone, avatar string) error {
	query := `UPDATE users SET name = ?, phone = ?, avatar = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, name, phone, avatar, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return requireRow(result)
}

func (db *DB) UpdateUserRole(ctx context.Context, id int64, role string) error {
	query := `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, role, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return requireRow(result)
}

// DeleteUser removes the user; properties, bookings and ratings follow via
// cascading foreign keys.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(result)
}

func (db *DB) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT id, email, password_hash, name, phone, role, avatar, created_at, updated_at
              FROM users ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		var phone, avatar sql.NullString
		err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Name, &phone,
			&u.Role, &avatar, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Phone = phone.String
		u.Avatar = avatar.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetTenantEmails returns every tenant address for new-listing notifications.
func (db *DB) GetTenantEmails(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT email FROM users WHERE role = ?`, models.RoleTenant)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan tenant email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
