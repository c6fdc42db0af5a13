package models

import "time"

// OutboxEmail is a queued notification persisted alongside the change that
// produced it. The worker delivers it with retries; delivery never blocks
// the originating request.
type OutboxEmail struct {
	ID          int64      `json:"id"`
	Kind        string     `json:"kind"` // booking_created, booking_status, property_listed, booking_reminder
	Recipient   string     `json:"recipient"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	Status      string     `json:"status"` // pending, retry, sent, failed
	RetryCount  int        `json:"retry_count"`
	LastError   string     `json:"last_error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
}

const (
	EmailBookingCreated  = "booking_created"
	EmailBookingStatus   = "booking_status"
	EmailPropertyListed  = "property_listed"
	EmailBookingReminder = "booking_reminder"
)
