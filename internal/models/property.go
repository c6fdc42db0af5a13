package models

import "time"

type Property struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Rent         float64   `json:"rent"`
	Location     string    `json:"location"`
	Amenities    []string  `json:"amenities"`
	Photos       []string  `json:"photos"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	AreaSqft     int       `json:"area_sqft,omitempty"`
	PropertyType string    `json:"property_type"` // apartment, house, studio, villa, condo
	IsAvailable  bool      `json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Данные владельца и рейтинга, подтягиваются JOIN-ом при чтении
	OwnerName     string   `json:"owner_name,omitempty"`
	OwnerEmail    string   `json:"owner_email,omitempty"`
	OwnerPhone    string   `json:"owner_phone,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	RatingCount   int      `json:"rating_count"`

	// Счетчики заявок для дашборда владельца
	PendingRequests  int `json:"pending_requests,omitempty"`
	ApprovedBookings int `json:"approved_bookings,omitempty"`
}

// PropertyFilter describes the public listing query.
type PropertyFilter struct {
	Title        string
	Location     string
	MinRent      float64
	MaxRent      float64
	Bedrooms     int
	PropertyType string
	Page         int
	Limit        int

	// IncludeUnavailable lifts the is_available filter. Admin views only.
	IncludeUnavailable bool
}

// Normalize clamps pagination to sane bounds.
func (f *PropertyFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

// Offset returns the SQL offset for the current page.
func (f *PropertyFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
