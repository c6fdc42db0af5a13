package database

import (
	"context"
	"database/sql"
	"fmt"

	"renthub/internal/models"
)

// GetAdminStats builds the platform dashboard aggregate in one round of
// queries. Monthly series covers the last twelve months with bookings.
func (db *DB) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
                SUM(CASE WHEN role = 'owner' THEN 1 ELSE 0 END),
                SUM(CASE WHEN role = 'tenant' THEN 1 ELSE 0 END)
         FROM users`,
	).Scan(&stats.TotalUsers, nullInt{&stats.TotalOwners}, nullInt{&stats.TotalTenants})
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`).Scan(&stats.TotalProperties)
	if err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*),
                SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END),
                SUM(CASE WHEN status = 'Approved' THEN 1 ELSE 0 END),
                SUM(CASE WHEN status = 'Rejected' THEN 1 ELSE 0 END)
         FROM bookings`,
	).Scan(&stats.TotalBookings, nullInt{&stats.PendingBookings},
		nullInt{&stats.ApprovedBookings}, nullInt{&stats.RejectedBookings})
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM property_ratings) + (SELECT COUNT(*) FROM user_ratings)`,
	).Scan(&stats.TotalRatings)
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT strftime('%Y-%m', request_time) AS month, COUNT(*)
         FROM bookings
         GROUP BY month
         ORDER BY month DESC
         LIMIT 12`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly bookings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.MonthlyCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, fmt.Errorf("failed to scan monthly count: %w", err)
		}
		stats.MonthlyBookings = append(stats.MonthlyBookings, m)
	}
	return stats, rows.Err()
}

// GetFinancialAnalytics computes an owner's revenue from approved bookings:
// total over all time, current-month approvals, potential revenue still
// pending, a monthly series, and the top earning properties.
func (db *DB) GetFinancialAnalytics(ctx context.Context, ownerID int64) (*models.FinancialAnalytics, error) {
	a := &models.FinancialAnalytics{
		MonthlyRevenues: []models.MonthlyRevenue{},
		TopProperties:   []models.PropertyIncome{},
	}

	var total, monthly, pending sql.NullFloat64
	err := db.QueryRowContext(ctx,
		`SELECT
            SUM(CASE WHEN b.status = 'Approved' THEN p.rent * b.duration_months ELSE 0 END),
            SUM(CASE WHEN b.status = 'Approved'
                     AND strftime('%Y-%m', b.response_time) = strftime('%Y-%m', 'now')
                 THEN p.rent * b.duration_months ELSE 0 END),
            SUM(CASE WHEN b.status = 'Pending' THEN p.rent * b.duration_months ELSE 0 END)
         FROM bookings b
         JOIN properties p ON b.property_id = p.id
         WHERE p.owner_id = ?`,
		ownerID,
	).Scan(&total, &monthly, &pending)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue totals: %w", err)
	}
	a.TotalRevenue = total.Float64
	a.MonthlyRevenue = monthly.Float64
	a.PendingRevenue = pending.Float64

	rows, err := db.QueryContext(ctx,
		`SELECT strftime('%Y-%m', b.response_time) AS month, SUM(p.rent * b.duration_months)
         FROM bookings b
         JOIN properties p ON b.property_id = p.id
         WHERE p.owner_id = ? AND b.status = 'Approved' AND b.response_time IS NOT NULL
         GROUP BY month
         ORDER BY month DESC
         LIMIT 12`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly revenue: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.MonthlyRevenue
		if err := rows.Scan(&m.Month, &m.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan monthly revenue: %w", err)
		}
		a.MonthlyRevenues = append(a.MonthlyRevenues, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topRows, err := db.QueryContext(ctx,
		`SELECT p.id, p.title,
                COALESCE(SUM(p.rent * b.duration_months), 0),
                COUNT(b.id)
         FROM properties p
         JOIN bookings b ON b.property_id = p.id AND b.status = 'Approved'
         WHERE p.owner_id = ?
         GROUP BY p.id, p.title
         ORDER BY 3 DESC
         LIMIT 5`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get top properties: %w", err)
	}
	defer topRows.Close()
	for topRows.Next() {
		var p models.PropertyIncome
		if err := topRows.Scan(&p.PropertyID, &p.Title, &p.Revenue, &p.Bookings); err != nil {
			return nil, fmt.Errorf("failed to scan property income: %w", err)
		}
		a.TopProperties = append(a.TopProperties, p)
	}
	return a, topRows.Err()
}

// GetPropertyAnalytics summarizes listing performance for one owner.
// Inquiries are total booking requests of any status.
func (db *DB) GetPropertyAnalytics(ctx context.Context, ownerID int64) (*models.PropertyAnalytics, error) {
	a := &models.PropertyAnalytics{Performance: []models.PropertyPerformance{}}

	var avgRent sql.NullFloat64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
                SUM(CASE WHEN is_available = 1 THEN 1 ELSE 0 END),
                AVG(rent)
         FROM properties WHERE owner_id = ?`,
		ownerID,
	).Scan(&a.TotalProperties, nullInt{&a.ActiveProperties}, &avgRent)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio summary: %w", err)
	}
	a.AverageRent = avgRent.Float64

	rows, err := db.QueryContext(ctx,
		`SELECT p.id, p.title,
                COUNT(b.id),
                SUM(CASE WHEN b.status = 'Approved' THEN 1 ELSE 0 END),
                (SELECT AVG(rating) FROM property_ratings WHERE property_id = p.id),
                (SELECT COUNT(*) FROM property_ratings WHERE property_id = p.id)
         FROM properties p
         LEFT JOIN bookings b ON b.property_id = p.id
         WHERE p.owner_id = ?
         GROUP BY p.id, p.title
         ORDER BY p.created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get property performance: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.PropertyPerformance
		var approved sql.NullInt64
		var rating sql.NullFloat64
		if err := rows.Scan(&p.PropertyID, &p.Title, &p.Inquiries, &approved, &rating, &p.RatingCount); err != nil {
			return nil, fmt.Errorf("failed to scan property performance: %w", err)
		}
		p.Bookings = int(approved.Int64)
		p.AverageRating = rating.Float64
		a.Performance = append(a.Performance, p)
	}
	return a, rows.Err()
}

// GetRecentActivities builds the owner activity feed from booking events:
// incoming requests by request_time and decisions by response_time, merged
// newest-first.
func (db *DB) GetRecentActivities(ctx context.Context, ownerID int64, limit int) ([]*models.Activity, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT event_type, tenant_name, title, ts FROM (
            SELECT 'booking_request' AS event_type, u.name AS tenant_name,
                   p.title AS title, b.request_time AS ts
            FROM bookings b
            JOIN properties p ON b.property_id = p.id
            JOIN users u ON b.tenant_id = u.id
            WHERE p.owner_id = ?
            UNION ALL
            SELECT CASE b.status WHEN 'Approved' THEN 'booking_approved' ELSE 'booking_rejected' END,
                   u.name, p.title, b.response_time
            FROM bookings b
            JOIN properties p ON b.property_id = p.id
            JOIN users u ON b.tenant_id = u.id
            WHERE p.owner_id = ? AND b.response_time IS NOT NULL AND b.status != 'Pending'
         )
         ORDER BY ts DESC
         LIMIT ?`,
		ownerID, ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		var eventType, tenantName, title string
		a := &models.Activity{}
		if err := rows.Scan(&eventType, &tenantName, &title, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.Type = eventType
		switch eventType {
		case "booking_request":
			a.Title = "New Booking Request"
			a.Description = fmt.Sprintf("%s requested to book %s", tenantName, title)
		case "booking_approved":
			a.Title = "Booking Approved"
			a.Description = fmt.Sprintf("%s's booking for %s was approved", tenantName, title)
		case "booking_rejected":
			a.Title = "Booking Rejected"
			a.Description = fmt.Sprintf("%s's booking for %s was rejected", tenantName, title)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// nullInt scans a nullable aggregate into an int, mapping NULL to zero.
// SUM over an empty table is NULL in sqlite.
type nullInt struct {
	dest *int
}

func (n nullInt) Scan(src any) error {
	if src == nil {
		*n.dest = 0
		return nil
	}
	switch v := src.(type) {
	case int64:
		*n.dest = int(v)
	case float64:
		*n.dest = int(v)
	default:
		return fmt.Errorf("unsupported scan type %T", src)
	}
	return nil
}
