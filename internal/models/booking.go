package models

import "time"

type Booking struct {
	ID             int64      `json:"id"`
	PropertyID     int64      `json:"property_id"`
	TenantID       int64      `json:"tenant_id"`
	Status         string     `json:"status"` // Pending, Approved, Rejected
	Message        string     `json:"message,omitempty"`
	MoveInDate     *time.Time `json:"move_in_date,omitempty"`
	DurationMonths int        `json:"duration_months"`
	RequestTime    time.Time  `json:"request_time"`
	ResponseTime   *time.Time `json:"response_time,omitempty"`
	OwnerNotes     string     `json:"owner_notes,omitempty"`

	// Присоединяемые поля для списков
	PropertyTitle    string   `json:"property_title,omitempty"`
	PropertyLocation string   `json:"property_location,omitempty"`
	PropertyRent     float64  `json:"property_rent,omitempty"`
	PropertyPhotos   []string `json:"property_photos,omitempty"`
	TenantName       string   `json:"tenant_name,omitempty"`
	TenantEmail      string   `json:"tenant_email,omitempty"`
	TenantPhone      string   `json:"tenant_phone,omitempty"`
	OwnerName        string   `json:"owner_name,omitempty"`
	OwnerEmail       string   `json:"owner_email,omitempty"`
	OwnerPhone       string   `json:"owner_phone,omitempty"`
}

// Terminal reports whether the booking can no longer change status.
func (b *Booking) Terminal() bool {
	return b.Status == StatusApproved || b.Status == StatusRejected
}

// BookingStats aggregates an owner's portfolio for the dashboard.
type BookingStats struct {
	TotalProperties  int `json:"total_properties"`
	TotalRequests    int `json:"total_requests"`
	PendingRequests  int `json:"pending_requests"`
	ApprovedBookings int `json:"approved_bookings"`
	RejectedRequests int `json:"rejected_requests"`
}
