package models

import "time"

// PropertyRating is one tenant's review of a property. Unique per
// (property_id, tenant_id); resubmission overwrites.
type PropertyRating struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	TenantID   int64     `json:"tenant_id"`
	Rating     int       `json:"rating"` // 1..5
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	ReviewerName   string `json:"reviewer_name,omitempty"`
	ReviewerAvatar string `json:"reviewer_avatar,omitempty"`
}

// UserRating is a review between two users linked by an approved booking.
// Unique per (reviewer_id, target_user_id).
type UserRating struct {
	ID           int64     `json:"id"`
	ReviewerID   int64     `json:"reviewer_id"`
	TargetUserID int64     `json:"target_user_id"`
	Rating       int       `json:"rating"` // 1..5
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	ReviewerName   string `json:"reviewer_name,omitempty"`
	ReviewerAvatar string `json:"reviewer_avatar,omitempty"`
}

type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

// ValidRating reports whether r is inside the 1..5 scale.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
