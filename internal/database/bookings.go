package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"renthub/internal/models"
)

// CreateBooking validates and inserts a booking request in one transaction:
// the property must exist and be available, the requester must not own it,
// and the tenant must not already hold a Pending request for it. Checking and
// inserting inside the same transaction closes the duplicate-request race.
// A non-nil notify is queued in the same transaction.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking, notify *models.OutboxEmail) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var ownerID int64
	var isAvailable bool
	err = tx.QueryRowContext(ctx,
		`SELECT owner_id, is_available FROM properties WHERE id = ?`,
		booking.PropertyID,
	).Scan(&ownerID, &isAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check property: %w", err)
	}
	if !isAvailable {
		return ErrNotAvailable
	}
	if ownerID == booking.TenantID {
		return ErrOwnProperty
	}

	var pending int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE property_id = ? AND tenant_id = ? AND status = ?`,
		booking.PropertyID, booking.TenantID, models.StatusPending,
	).Scan(&pending)
	if err != nil {
		return fmt.Errorf("failed to check pending bookings: %w", err)
	}
	if pending > 0 {
		return ErrDuplicatePending
	}

	if booking.DurationMonths <= 0 {
		booking.DurationMonths = models.DefaultDurationMonths
	}
	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (property_id, tenant_id, status, message, move_in_date, duration_months, request_time)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		booking.PropertyID,
		booking.TenantID,
		models.StatusPending,
		booking.Message,
		booking.MoveInDate,
		booking.DurationMonths,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if notify != nil {
		if err := enqueueEmailTx(ctx, tx, notify); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	booking.ID = id
	booking.Status = models.StatusPending
	booking.RequestTime = now
	return nil
}

const bookingJoinColumns = `b.id, b.property_id, b.tenant_id, b.status, b.message,
       b.move_in_date, b.duration_months, b.request_time, b.response_time, b.owner_notes`

// GetBooking returns the booking with property metadata and the owning
// owner's id attached via PropertyID's owner.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingJoinColumns + `,
               p.title, p.location, p.rent, p.owner_id,
               u.name, u.email
           FROM bookings b
           JOIN properties p ON b.property_id = p.id
           JOIN users u ON b.tenant_id = u.id
           WHERE b.id = ?`

	b := &models.Booking{}
	var message, notes sql.NullString
	var moveIn, response sql.NullTime
	var ownerID int64
	err := db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.PropertyID, &b.TenantID, &b.Status, &message,
		&moveIn, &b.DurationMonths, &b.RequestTime, &response, &notes,
		&b.PropertyTitle, &b.PropertyLocation, &b.PropertyRent, &ownerID,
		&b.TenantName, &b.TenantEmail,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	b.Message = message.String
	b.OwnerNotes = notes.String
	if moveIn.Valid {
		b.MoveInDate = &moveIn.Time
	}
	if response.Valid {
		b.ResponseTime = &response.Time
	}
	return b, nil
}

// GetBookingOwner returns the id of the user owning the booked property.
func (db *DB) GetBookingOwner(ctx context.Context, bookingID int64) (int64, error) {
	var ownerID int64
	err := db.QueryRowContext(ctx,
		`SELECT p.owner_id FROM bookings b JOIN properties p ON b.property_id = p.id WHERE b.id = ?`,
		bookingID,
	).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get booking owner: %w", err)
	}
	return ownerID, nil
}

// UpdateBookingStatus applies a status transition, stamps response_time and
// queues the tenant notification in the same transaction.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status, ownerNotes string, notify *models.OutboxEmail) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, owner_notes = ?, response_time = ? WHERE id = ?`,
		status, ownerNotes, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}

	if notify != nil {
		if err := enqueueEmailTx(ctx, tx, notify); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}

// DeleteBooking hard-deletes a booking row (tenant cancellation).
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return requireRow(result)
}

// GetTenantBookings lists a tenant's requests newest-first with property and
// owner contact details.
func (db *DB) GetTenantBookings(ctx context.Context, tenantID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingJoinColumns + `,
               p.title, p.location, p.rent, p.photos,
               u.name, u.email, u.phone
           FROM bookings b
           JOIN properties p ON b.property_id = p.id
           JOIN users u ON p.owner_id = u.id
           WHERE b.tenant_id = ?
           ORDER BY b.request_time DESC`

	rows, err := db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		var message, notes, photos, ownerPhone sql.NullString
		var moveIn, response sql.NullTime
		err := rows.Scan(
			&b.ID, &b.PropertyID, &b.TenantID, &b.Status, &message,
			&moveIn, &b.DurationMonths, &b.RequestTime, &response, &notes,
			&b.PropertyTitle, &b.PropertyLocation, &b.PropertyRent, &photos,
			&b.OwnerName, &b.OwnerEmail, &ownerPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.Message = message.String
		b.OwnerNotes = notes.String
		b.PropertyPhotos = unmarshalList(photos.String)
		b.OwnerPhone = ownerPhone.String
		if moveIn.Valid {
			b.MoveInDate = &moveIn.Time
		}
		if response.Valid {
			b.ResponseTime = &response.Time
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetOwnerBookings lists requests across all properties of one owner.
func (db *DB) GetOwnerBookings(ctx context.Context, ownerID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingJoinColumns + `,
               p.title, p.location, p.rent,
               u.name, u.email, u.phone
           FROM bookings b
           JOIN properties p ON b.property_id = p.id
           JOIN users u ON b.tenant_id = u.id
           WHERE p.owner_id = ?
           ORDER BY b.request_time DESC`

	rows, err := db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		var message, notes, tenantPhone sql.NullString
		var moveIn, response sql.NullTime
		err := rows.Scan(
			&b.ID, &b.PropertyID, &b.TenantID, &b.Status, &message,
			&moveIn, &b.DurationMonths, &b.RequestTime, &response, &notes,
			&b.PropertyTitle, &b.PropertyLocation, &b.PropertyRent,
			&b.TenantName, &b.TenantEmail, &tenantPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.Message = message.String
		b.OwnerNotes = notes.String
		b.TenantPhone = tenantPhone.String
		if moveIn.Valid {
			b.MoveInDate = &moveIn.Time
		}
		if response.Valid {
			b.ResponseTime = &response.Time
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetAllBookings lists every booking with property and tenant context.
// Used by admin views and exports.
func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingJoinColumns + `,
               p.title, p.location, p.rent,
               u.name, u.email, u.phone
           FROM bookings b
           JOIN properties p ON b.property_id = p.id
           JOIN users u ON b.tenant_id = u.id
           ORDER BY b.request_time DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		var message, notes, tenantPhone sql.NullString
		var moveIn, response sql.NullTime
		err := rows.Scan(
			&b.ID, &b.PropertyID, &b.TenantID, &b.Status, &message,
			&moveIn, &b.DurationMonths, &b.RequestTime, &response, &notes,
			&b.PropertyTitle, &b.PropertyLocation, &b.PropertyRent,
			&b.TenantName, &b.TenantEmail, &tenantPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.Message = message.String
		b.OwnerNotes = notes.String
		b.TenantPhone = tenantPhone.String
		if moveIn.Valid {
			b.MoveInDate = &moveIn.Time
		}
		if response.Valid {
			b.ResponseTime = &response.Time
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetOwnerStats aggregates one owner's portfolio counters.
func (db *DB) GetOwnerStats(ctx context.Context, ownerID int64) (*models.BookingStats, error) {
	query := `SELECT
            COUNT(DISTINCT p.id),
            COUNT(b.id),
            SUM(CASE WHEN b.status = 'Pending' THEN 1 ELSE 0 END),
            SUM(CASE WHEN b.status = 'Approved' THEN 1 ELSE 0 END),
            SUM(CASE WHEN b.status = 'Rejected' THEN 1 ELSE 0 END)
        FROM properties p
        LEFT JOIN bookings b ON p.id = b.property_id
        WHERE p.owner_id = ?`

	stats := &models.BookingStats{}
	var pending, approved, rejected sql.NullInt64
	err := db.QueryRowContext(ctx, query, ownerID).Scan(
		&stats.TotalProperties, &stats.TotalRequests, &pending, &approved, &rejected,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner stats: %w", err)
	}
	stats.PendingRequests = int(pending.Int64)
	stats.ApprovedBookings = int(approved.Int64)
	stats.RejectedRequests = int(rejected.Int64)
	return stats, nil
}

// HasApprovedBooking reports whether the tenant holds an Approved booking on
// the property. Gates property ratings.
func (db *DB) HasApprovedBooking(ctx context.Context, propertyID, tenantID int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE property_id = ? AND tenant_id = ? AND status = ?`,
		propertyID, tenantID, models.StatusApproved,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check approved booking: %w", err)
	}
	return count > 0, nil
}

// HasSharedApprovedBooking reports whether an Approved booking links the two
// users in either direction (tenant↔owner). Gates user ratings.
func (db *DB) HasSharedApprovedBooking(ctx context.Context, userA, userB int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings b
         JOIN properties p ON b.property_id = p.id
         WHERE b.status = ? AND (
             (b.tenant_id = ? AND p.owner_id = ?) OR
             (b.tenant_id = ? AND p.owner_id = ?)
         )`,
		models.StatusApproved, userA, userB, userB, userA,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check shared approved booking: %w", err)
	}
	return count > 0, nil
}

// GetStalePendingBookings returns Pending requests older than the cutoff,
// grouped data for the daily owner reminder.
func (db *DB) GetStalePendingBookings(ctx context.Context, olderThan time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingJoinColumns + `,
               p.title, p.location, p.rent,
               o.name, o.email
           FROM bookings b
           JOIN properties p ON b.property_id = p.id
           JOIN users o ON p.owner_id = o.id
           WHERE b.status = ? AND b.request_time <= ?
           ORDER BY b.request_time ASC`

	rows, err := db.QueryContext(ctx, query, models.StatusPending, olderThan)
	if err != nil {
		return nil, fmt.Errorf("failed to get stale pending bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		var message, notes sql.NullString
		var moveIn, response sql.NullTime
		err := rows.Scan(
			&b.ID, &b.PropertyID, &b.TenantID, &b.Status, &message,
			&moveIn, &b.DurationMonths, &b.RequestTime, &response, &notes,
			&b.PropertyTitle, &b.PropertyLocation, &b.PropertyRent,
			&b.OwnerName, &b.OwnerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.Message = message.String
		b.OwnerNotes = notes.String
		if moveIn.Valid {
			b.MoveInDate = &moveIn.Time
		}
		if response.Valid {
			b.ResponseTime = &response.Time
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
