package domain

import (
	"context"
	"time"

	"renthub/internal/models"
)

type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id int64, name, phone, avatar string) error
	UpdateUserRole(ctx context.Context, id int64, role string) error
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	GetTenantEmails(ctx context.Context) ([]string, error)

	CreateProperty(ctx context.Context, p *models.Property) error
	GetPropertyByID(ctx context.Context, id int64) (*models.Property, error)
	ListProperties(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, int, error)
	GetOwnerProperties(ctx context.Context, ownerID int64) ([]*models.Property, error)
	UpdateProperty(ctx context.Context, p *models.Property) error
	DeleteProperty(ctx context.Context, id int64) error

	CreateBooking(ctx context.Context, booking *models.Booking, notify *models.OutboxEmail) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetBookingOwner(ctx context.Context, bookingID int64) (int64, error)
	UpdateBookingStatus(ctx context.Context, id int64, status, ownerNotes string, notify *models.OutboxEmail) error
	DeleteBooking(ctx context.Context, id int64) error
	GetTenantBookings(ctx context.Context, tenantID int64) ([]*models.Booking, error)
	GetOwnerBookings(ctx context.Context, ownerID int64) ([]*models.Booking, error)
	GetOwnerStats(ctx context.Context, ownerID int64) (*models.BookingStats, error)
	HasApprovedBooking(ctx context.Context, propertyID, tenantID int64) (bool, error)
	HasSharedApprovedBooking(ctx context.Context, userA, userB int64) (bool, error)
	GetStalePendingBookings(ctx context.Context, olderThan time.Time) ([]*models.Booking, error)
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)

	UpsertPropertyRating(ctx context.Context, r *models.PropertyRating) error
	UpsertUserRating(ctx context.Context, r *models.UserRating) error
	GetPropertyRatings(ctx context.Context, propertyID int64) ([]*models.PropertyRating, error)
	GetUserRatings(ctx context.Context, userID int64) ([]*models.UserRating, error)
	GetPropertyRatingSummary(ctx context.Context, propertyID int64) (*models.RatingSummary, error)
	GetUserRatingSummary(ctx context.Context, userID int64) (*models.RatingSummary, error)
	GetOwnPropertyRating(ctx context.Context, propertyID, tenantID int64) (*models.PropertyRating, error)

	EnqueueEmail(ctx context.Context, email *models.OutboxEmail) error
	GetPendingEmails(ctx context.Context, limit int) ([]*models.OutboxEmail, error)
	MarkEmailSent(ctx context.Context, id int64) error
	MarkEmailRetry(ctx context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error
	MarkEmailFailed(ctx context.Context, id int64, lastError string) error
	CountOutboxByStatus(ctx context.Context) (map[string]int, error)

	GetAdminStats(ctx context.Context) (*models.AdminStats, error)
	GetFinancialAnalytics(ctx context.Context, ownerID int64) (*models.FinancialAnalytics, error)
	GetPropertyAnalytics(ctx context.Context, ownerID int64) (*models.PropertyAnalytics, error)
	GetRecentActivities(ctx context.Context, ownerID int64, limit int) ([]*models.Activity, error)
}

// Mailer delivers one rendered message. Implementations must be safe for
// concurrent use by the outbox worker.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// ChatClient proxies one chat turn to the hosted language model.
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ListingCache caches public listing responses keyed by query. Get returns
// (nil, false) on miss; Invalidate drops every listing key.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context)
}
