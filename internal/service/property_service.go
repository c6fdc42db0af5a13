package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"renthub/internal/domain"
	"renthub/internal/mailer"
	"renthub/internal/models"
)

type PropertyService struct {
	repo      domain.Repository
	cache     domain.ListingCache
	templates *mailer.Templates
	logger    *zerolog.Logger
}

func NewPropertyService(repo domain.Repository, cache domain.ListingCache, templates *mailer.Templates, logger *zerolog.Logger) *PropertyService {
	return &PropertyService{
		repo:      repo,
		cache:     cache,
		templates: templates,
		logger:    logger,
	}
}

func (s *PropertyService) validate(p *models.Property) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Location = strings.TrimSpace(p.Location)

	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if p.Location == "" {
		return fmt.Errorf("%w: location is required", ErrValidation)
	}
	if p.Rent <= 0 {
		return fmt.Errorf("%w: rent must be positive", ErrValidation)
	}
	if !models.ValidPropertyType(p.PropertyType) {
		return fmt.Errorf("%w: unknown property type %q", ErrValidation, p.PropertyType)
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 {
		return fmt.Errorf("%w: bedrooms and bathrooms cannot be negative", ErrValidation)
	}
	return nil
}

// Create inserts a listing, drops the listing cache and queues a new-listing
// alert to every tenant.
func (s *PropertyService) Create(ctx context.Context, actor *models.User, p *models.Property) error {
	if err := s.validate(p); err != nil {
		return err
	}
	p.OwnerID = actor.ID
	p.IsAvailable = true

	if err := s.repo.CreateProperty(ctx, p); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.notifyTenants(ctx, actor.Name, p)

	s.logger.Info().Int64("property_id", p.ID).Int64("owner_id", actor.ID).Msg("Property created")
	return nil
}

func (s *PropertyService) notifyTenants(ctx context.Context, ownerName string, p *models.Property) {
	emails, err := s.repo.GetTenantEmails(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load tenant emails for listing alert")
		return
	}
	for _, addr := range emails {
		msg, err := s.templates.PropertyListed(addr, ownerName, p)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to render listing alert")
			return
		}
		if err := s.repo.EnqueueEmail(ctx, msg); err != nil {
			s.logger.Error().Err(err).Str("recipient", addr).Msg("Failed to enqueue listing alert")
		}
	}
}

func (s *PropertyService) Get(ctx context.Context, id int64) (*models.Property, error) {
	return s.repo.GetPropertyByID(ctx, id)
}

// List serves the public listing. The filter is normalized before querying
// so cache keys built from it are stable.
func (s *PropertyService) List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, models.Pagination, error) {
	filter.Normalize()
	props, total, err := s.repo.ListProperties(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return props, models.NewPagination(total, filter.Page, filter.Limit), nil
}

func (s *PropertyService) OwnerProperties(ctx context.Context, ownerID int64) ([]*models.Property, error) {
	return s.repo.GetOwnerProperties(ctx, ownerID)
}

// Update modifies a listing. Only the owning owner or an admin may touch it.
func (s *PropertyService) Update(ctx context.Context, actor *models.User, p *models.Property) error {
	existing, err := s.repo.GetPropertyByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != actor.ID && actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	if err := s.validate(p); err != nil {
		return err
	}
	p.OwnerID = existing.OwnerID

	if err := s.repo.UpdateProperty(ctx, p); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// Delete removes a listing and its bookings and ratings via FK cascade.
func (s *PropertyService) Delete(ctx context.Context, actor *models.User, id int64) error {
	existing, err := s.repo.GetPropertyByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != actor.ID && actor.Role != models.RoleAdmin {
		return ErrForbidden
	}

	if err := s.repo.DeleteProperty(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)

	s.logger.Info().Int64("property_id", id).Int64("actor_id", actor.ID).Msg("Property deleted")
	return nil
}
