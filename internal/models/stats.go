package models

import "time"

// AdminStats is the platform-wide dashboard aggregate.
type AdminStats struct {
	TotalUsers       int `json:"total_users"`
	TotalOwners      int `json:"total_owners"`
	TotalTenants     int `json:"total_tenants"`
	TotalProperties  int `json:"total_properties"`
	TotalBookings    int `json:"total_bookings"`
	PendingBookings  int `json:"pending_bookings"`
	ApprovedBookings int `json:"approved_bookings"`
	RejectedBookings int `json:"rejected_bookings"`
	TotalRatings     int `json:"total_ratings"`

	MonthlyBookings []MonthlyCount `json:"monthly_bookings"`
}

// MonthlyCount is one month's bucket in a time series ("2026-08" style keys).
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// FinancialAnalytics aggregates an owner's approved bookings into revenue
// figures. Revenue is monthly rent times booked months.
type FinancialAnalytics struct {
	TotalRevenue    float64          `json:"total_revenue"`
	MonthlyRevenue  float64          `json:"monthly_revenue"`
	PendingRevenue  float64          `json:"pending_revenue"`
	MonthlyRevenues []MonthlyRevenue `json:"monthly_breakdown"`
	TopProperties   []PropertyIncome `json:"top_performing_properties"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type PropertyIncome struct {
	PropertyID int64   `json:"property_id"`
	Title      string  `json:"title"`
	Revenue    float64 `json:"revenue"`
	Bookings   int     `json:"bookings"`
}

// PropertyAnalytics summarizes an owner's portfolio performance.
type PropertyAnalytics struct {
	TotalProperties  int                   `json:"total_properties"`
	ActiveProperties int                   `json:"active_properties"`
	AverageRent      float64               `json:"average_rent"`
	Performance      []PropertyPerformance `json:"property_performance"`
}

type PropertyPerformance struct {
	PropertyID    int64   `json:"property_id"`
	Title         string  `json:"title"`
	Inquiries     int     `json:"inquiries"`
	Bookings      int     `json:"bookings"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

// Activity is one entry of the owner's recent-activity feed, derived from
// booking state changes.
type Activity struct {
	Type        string    `json:"type"` // booking_request, booking_approved, booking_rejected
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
