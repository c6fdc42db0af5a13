package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"renthub/internal/database"
	"renthub/internal/domain"
	"renthub/internal/mailer"
	"renthub/internal/metrics"
	"renthub/internal/models"
)

type BookingService struct {
	repo      domain.Repository
	templates *mailer.Templates
	logger    *zerolog.Logger
}

func NewBookingService(repo domain.Repository, templates *mailer.Templates, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:      repo,
		templates: templates,
		logger:    logger,
	}
}

// CreateInput carries a tenant's booking request.
type CreateInput struct {
	PropertyID     int64
	Message        string
	MoveInDate     *time.Time
	DurationMonths int
}

// Create validates the request and inserts it together with the owner
// notification. Availability, own-property and duplicate checks happen
// inside the store's transaction.
func (s *BookingService) Create(ctx context.Context, actor *models.User, in CreateInput) (*models.Booking, error) {
	if in.PropertyID <= 0 {
		return nil, fmt.Errorf("%w: property id is required", ErrValidation)
	}
	if in.DurationMonths < 0 || in.DurationMonths > models.MaxDurationMonths {
		return nil, fmt.Errorf("%w: duration must be between 1 and %d months", ErrValidation, models.MaxDurationMonths)
	}
	if in.MoveInDate != nil && in.MoveInDate.Before(time.Now().AddDate(0, 0, -1)) {
		return nil, fmt.Errorf("%w: move-in date cannot be in the past", ErrValidation)
	}

	property, err := s.repo.GetPropertyByID(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}

	notify, err := s.templates.BookingCreated(property.OwnerEmail, property.OwnerName, actor.Name, property)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		PropertyID:     in.PropertyID,
		TenantID:       actor.ID,
		Message:        in.Message,
		MoveInDate:     in.MoveInDate,
		DurationMonths: in.DurationMonths,
	}
	if err := s.repo.CreateBooking(ctx, booking, notify); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.logger.Info().Int64("booking_id", booking.ID).Int64("property_id", property.ID).
		Int64("tenant_id", actor.ID).Msg("Booking request created")
	return booking, nil
}

// Decide applies the owner's approval or rejection. A repeated decision
// re-applies the same update; the tenant notification rides in the same
// transaction.
func (s *BookingService) Decide(ctx context.Context, actor *models.User, bookingID int64, status, ownerNotes string) (*models.Booking, error) {
	if status != models.StatusApproved && status != models.StatusRejected {
		return nil, fmt.Errorf("%w: status must be Approved or Rejected", ErrValidation)
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.repo.GetBookingOwner(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if ownerID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	property, err := s.repo.GetPropertyByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}

	notify, err := s.templates.BookingStatus(booking.TenantEmail, booking.TenantName, property.OwnerName, status, property)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBookingStatus(ctx, bookingID, status, ownerNotes, notify); err != nil {
		return nil, err
	}

	metrics.IncBookingDecision(status)
	s.logger.Info().Int64("booking_id", bookingID).Str("status", status).
		Int64("actor_id", actor.ID).Msg("Booking decided")
	return s.repo.GetBooking(ctx, bookingID)
}

// Cancel lets the requesting tenant withdraw a Pending request.
func (s *BookingService) Cancel(ctx context.Context, actor *models.User, bookingID int64) error {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.TenantID != actor.ID {
		return ErrForbidden
	}
	if booking.Terminal() {
		return database.ErrNotPending
	}
	return s.repo.DeleteBooking(ctx, bookingID)
}

func (s *BookingService) TenantBookings(ctx context.Context, tenantID int64) ([]*models.Booking, error) {
	return s.repo.GetTenantBookings(ctx, tenantID)
}

func (s *BookingService) OwnerRequests(ctx context.Context, ownerID int64) ([]*models.Booking, error) {
	return s.repo.GetOwnerBookings(ctx, ownerID)
}

func (s *BookingService) OwnerStats(ctx context.Context, ownerID int64) (*models.BookingStats, error) {
	return s.repo.GetOwnerStats(ctx, ownerID)
}
