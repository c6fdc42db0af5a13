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

const propertyColumns = `p.id, p.owner_id, p.title, p.description, p.rent, p.location,
       p.amenities, p.photos, p.bedrooms, p.bathrooms, p.area_sqft, p.property_type,
       p.is_available, p.created_at, p.updated_at`

func (db *DB) CreateProperty(ctx context.Context, p *models.Property) error {
	query := `INSERT INTO properties (
                owner_id, title, description, rent, location, amenities, photos,
                bedrooms, bathrooms, area_sqft, property_type, is_available, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		p.OwnerID,
		p.Title,
		p.Description,
		p.Rent,
		p.Location,
		marshalList(p.Amenities),
		marshalList(p.Photos),
		p.Bedrooms,
		p.Bathrooms,
		nullableInt(p.AreaSqft),
		p.PropertyType,
		p.IsAvailable,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetPropertyByID returns the property with owner contact details and the
// live rating aggregate.
func (db *DB) GetPropertyByID(ctx context.Context, id int64) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + `,
               u.name, u.email, u.phone,
               (SELECT AVG(rating) FROM property_ratings WHERE property_id = p.id),
               (SELECT COUNT(*) FROM property_ratings WHERE property_id = p.id)
           FROM properties p
           JOIN users u ON p.owner_id = u.id
           WHERE p.id = ?`

	var p models.Property
	var description, amenities, photos sql.NullString
	var area sql.NullInt64
	var ownerPhone sql.NullString
	var avg sql.NullFloat64
	err := db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Title, &description, &p.Rent, &p.Location,
		&amenities, &photos, &p.Bedrooms, &p.Bathrooms, &area, &p.PropertyType,
		&p.IsAvailable, &p.CreatedAt, &p.UpdatedAt,
		&p.OwnerName, &p.OwnerEmail, &ownerPhone,
		&avg, &p.RatingCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	p.Description = description.String
	p.Amenities = unmarshalList(amenities.String)
	p.Photos = unmarshalList(photos.String)
	p.AreaSqft = int(area.Int64)
	p.OwnerPhone = ownerPhone.String
	if avg.Valid {
		p.AverageRating = &avg.Float64
	}
	return &p, nil
}

// ListProperties returns available properties matching the filter plus the
// total count for pagination.
func (db *DB) ListProperties(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, int, error) {
	conditions := []string{"1 = 1"}
	var values []interface{}

	if !filter.IncludeUnavailable {
		conditions[0] = "p.is_available = 1"
	}

	if filter.Title != "" {
		conditions = append(conditions, "p.title LIKE ?")
		values = append(values, "%"+filter.Title+"%")
	}
	if filter.Location != "" {
		conditions = append(conditions, "p.location LIKE ?")
		values = append(values, "%"+filter.Location+"%")
	}
	if filter.MinRent > 0 {
		conditions = append(conditions, "p.rent >= ?")
		values = append(values, filter.MinRent)
	}
	if filter.MaxRent > 0 {
		conditions = append(conditions, "p.rent <= ?")
		values = append(values, filter.MaxRent)
	}
	if filter.Bedrooms > 0 {
		conditions = append(conditions, "p.bedrooms >= ?")
		values = append(values, filter.Bedrooms)
	}
	if filter.PropertyType != "" {
		conditions = append(conditions, "p.property_type = ?")
		values = append(values, filter.PropertyType)
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM properties p ` + whereClause
	if err := db.QueryRowContext(ctx, countQuery, values...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	query := `SELECT ` + propertyColumns + `,
               u.name, u.email,
               (SELECT AVG(rating) FROM property_ratings WHERE property_id = p.id),
               (SELECT COUNT(*) FROM property_ratings WHERE property_id = p.id)
           FROM properties p
           LEFT JOIN users u ON p.owner_id = u.id
           ` + whereClause + `
           ORDER BY p.created_at DESC
           LIMIT ? OFFSET ?`

	args := append(values, filter.Limit, filter.Offset())
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p := &models.Property{}
		var description, amenities, photos sql.NullString
		var area sql.NullInt64
		var ownerName, ownerEmail sql.NullString
		var avg sql.NullFloat64
		err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Title, &description, &p.Rent, &p.Location,
			&amenities, &photos, &p.Bedrooms, &p.Bathrooms, &area, &p.PropertyType,
			&p.IsAvailable, &p.CreatedAt, &p.UpdatedAt,
			&ownerName, &ownerEmail, &avg, &p.RatingCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan property: %w", err)
		}
		p.Description = description.String
		p.Amenities = unmarshalList(amenities.String)
		p.Photos = unmarshalList(photos.String)
		p.AreaSqft = int(area.Int64)
		p.OwnerName = ownerName.String
		p.OwnerEmail = ownerEmail.String
		if avg.Valid {
			p.AverageRating = &avg.Float64
		}
		properties = append(properties, p)
	}
	return properties, total, rows.Err()
}

// GetOwnerProperties returns all of an owner's listings, available or not,
// with per-property booking counters for the dashboard.
func (db *DB) GetOwnerProperties(ctx context.Context, ownerID int64) ([]*models.Property, error) {
	query := `SELECT ` + propertyColumns + `,
               (SELECT COUNT(*) FROM bookings WHERE property_id = p.id AND status = 'Pending'),
               (SELECT COUNT(*) FROM bookings WHERE property_id = p.id AND status = 'Approved'),
               (SELECT AVG(rating) FROM property_ratings WHERE property_id = p.id),
               (SELECT COUNT(*) FROM property_ratings WHERE property_id = p.id)
           FROM properties p
           WHERE p.owner_id = ?
           ORDER BY p.created_at DESC`

	rows, err := db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner properties: %w", err)
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p := &models.Property{}
		var description, amenities, photos sql.NullString
		var area sql.NullInt64
		var avg sql.NullFloat64
		err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Title, &description, &p.Rent, &p.Location,
			&amenities, &photos, &p.Bedrooms, &p.Bathrooms, &area, &p.PropertyType,
			&p.IsAvailable, &p.CreatedAt, &p.UpdatedAt,
			&p.PendingRequests, &p.ApprovedBookings, &avg, &p.RatingCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		p.Description = description.String
		p.Amenities = unmarshalList(amenities.String)
		p.Photos = unmarshalList(photos.String)
		p.AreaSqft = int(area.Int64)
		if avg.Valid {
			p.AverageRating = &avg.Float64
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (db *DB) UpdateProperty(ctx context.Context, p *models.Property) error {
	query := `UPDATE properties SET
                title = ?, description = ?, rent = ?, location = ?, amenities = ?,
                photos = ?, bedrooms = ?, bathrooms = ?, area_sqft = ?,
                property_type = ?, is_available = ?, updated_at = ?
            WHERE id = ?`
	result, err := db.ExecContext(ctx, query,
		p.Title,
		p.Description,
		p.Rent,
		p.Location,
		marshalList(p.Amenities),
		marshalList(p.Photos),
		p.Bedrooms,
		p.Bathrooms,
		nullableInt(p.AreaSqft),
		p.PropertyType,
		p.IsAvailable,
		time.Now(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return requireRow(result)
}

// DeleteProperty removes the listing; bookings and ratings cascade.
func (db *DB) DeleteProperty(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return requireRow(result)
}

func nullableInt(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
