package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"renthub/internal/models"
)

// UpsertPropertyRating inserts or replaces the tenant's rating of a property.
// One row per (property, tenant) pair; a repeat submission overwrites the
// previous score and review.
func (db *DB) UpsertPropertyRating(ctx context.Context, r *models.PropertyRating) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO property_ratings (property_id, tenant_id, rating, comment, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(property_id, tenant_id) DO UPDATE SET
             rating = excluded.rating,
             comment = excluded.comment,
             updated_at = excluded.updated_at`,
		r.PropertyID, r.TenantID, r.Rating, r.Comment, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert property rating: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		r.ID = id
	}
	r.UpdatedAt = now
	return nil
}

// UpsertUserRating inserts or replaces reviewer's rating of another user.
func (db *DB) UpsertUserRating(ctx context.Context, r *models.UserRating) error {
	if r.ReviewerID == r.TargetUserID {
		return ErrSelfRating
	}
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO user_ratings (reviewer_id, target_user_id, rating, comment, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(reviewer_id, target_user_id) DO UPDATE SET
             rating = excluded.rating,
             comment = excluded.comment,
             updated_at = excluded.updated_at`,
		r.ReviewerID, r.TargetUserID, r.Rating, r.Comment, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user rating: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		r.ID = id
	}
	r.UpdatedAt = now
	return nil
}

// GetPropertyRatings returns all reviews of a property newest-first with
// reviewer display data.
func (db *DB) GetPropertyRatings(ctx context.Context, propertyID int64) ([]*models.PropertyRating, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT r.id, r.property_id, r.tenant_id, r.rating, r.comment,
                r.created_at, r.updated_at, u.name, u.avatar
         FROM property_ratings r
         JOIN users u ON r.tenant_id = u.id
         WHERE r.property_id = ?
         ORDER BY r.updated_at DESC`,
		propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get property ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*models.PropertyRating
	for rows.Next() {
		r := &models.PropertyRating{}
		var review, avatar sql.NullString
		err := rows.Scan(&r.ID, &r.PropertyID, &r.TenantID, &r.Rating, &review,
			&r.CreatedAt, &r.UpdatedAt, &r.ReviewerName, &avatar)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property rating: %w", err)
		}
		r.Comment = review.String
		r.ReviewerAvatar = avatar.String
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// GetUserRatings returns all reviews received by a user newest-first.
func (db *DB) GetUserRatings(ctx context.Context, userID int64) ([]*models.UserRating, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT r.id, r.reviewer_id, r.target_user_id, r.rating, r.comment,
                r.created_at, r.updated_at, u.name, u.avatar
         FROM user_ratings r
         JOIN users u ON r.reviewer_id = u.id
         WHERE r.target_user_id = ?
         ORDER BY r.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*models.UserRating
	for rows.Next() {
		r := &models.UserRating{}
		var review, avatar sql.NullString
		err := rows.Scan(&r.ID, &r.ReviewerID, &r.TargetUserID, &r.Rating, &review,
			&r.CreatedAt, &r.UpdatedAt, &r.ReviewerName, &avatar)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user rating: %w", err)
		}
		r.Comment = review.String
		r.ReviewerAvatar = avatar.String
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// GetPropertyRatingSummary returns the average and count for one property.
// A property with no ratings yields a zero summary, not an error.
func (db *DB) GetPropertyRatingSummary(ctx context.Context, propertyID int64) (*models.RatingSummary, error) {
	s := &models.RatingSummary{}
	var avg sql.NullFloat64
	err := db.QueryRowContext(ctx,
		`SELECT AVG(rating), COUNT(*) FROM property_ratings WHERE property_id = ?`,
		propertyID,
	).Scan(&avg, &s.RatingCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get property rating summary: %w", err)
	}
	s.AverageRating = avg.Float64
	return s, nil
}

// GetUserRatingSummary returns the average and count of ratings received by
// a user.
func (db *DB) GetUserRatingSummary(ctx context.Context, userID int64) (*models.RatingSummary, error) {
	s := &models.RatingSummary{}
	var avg sql.NullFloat64
	err := db.QueryRowContext(ctx,
		`SELECT AVG(rating), COUNT(*) FROM user_ratings WHERE target_user_id = ?`,
		userID,
	).Scan(&avg, &s.RatingCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get user rating summary: %w", err)
	}
	s.AverageRating = avg.Float64
	return s, nil
}

// GetOwnPropertyRating returns the rating the tenant left on the property,
// or ErrNotFound when none exists yet.
func (db *DB) GetOwnPropertyRating(ctx context.Context, propertyID, tenantID int64) (*models.PropertyRating, error) {
	r := &models.PropertyRating{}
	var review sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, property_id, tenant_id, rating, comment, created_at, updated_at
         FROM property_ratings WHERE property_id = ? AND tenant_id = ?`,
		propertyID, tenantID,
	).Scan(&r.ID, &r.PropertyID, &r.TenantID, &r.Rating, &review, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get own property rating: %w", err)
	}
	r.Comment = review.String
	return r, nil
}
