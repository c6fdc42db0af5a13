package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"renthub/internal/domain"
	"renthub/internal/models"
)

type RatingService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRatingService(repo domain.Repository, logger *zerolog.Logger) *RatingService {
	return &RatingService{repo: repo, logger: logger}
}

// RateProperty upserts the actor's rating of a property. Requires an
// Approved booking by the actor on that property; admins are not exempt,
// they rate nothing they have not rented.
func (s *RatingService) RateProperty(ctx context.Context, actor *models.User, propertyID int64, rating int, comment string) (*models.PropertyRating, error) {
	if !models.ValidRating(rating) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if _, err := s.repo.GetPropertyByID(ctx, propertyID); err != nil {
		return nil, err
	}

	ok, err := s.repo.HasApprovedBooking(ctx, propertyID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRatingNotAllowed
	}

	r := &models.PropertyRating{
		PropertyID: propertyID,
		TenantID:   actor.ID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.repo.UpsertPropertyRating(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("property_id", propertyID).Int64("tenant_id", actor.ID).Int("rating", rating).Msg("Property rated")
	return r, nil
}

// RateUser upserts the actor's rating of another user. The pair must share
// an Approved booking in either direction; admins bypass the check.
func (s *RatingService) RateUser(ctx context.Context, actor *models.User, targetID int64, rating int, comment string) (*models.UserRating, error) {
	if !models.ValidRating(rating) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if targetID == actor.ID {
		return nil, fmt.Errorf("%w: you cannot rate yourself", ErrValidation)
	}
	if _, err := s.repo.GetUserByID(ctx, targetID); err != nil {
		return nil, err
	}

	if actor.Role != models.RoleAdmin {
		ok, err := s.repo.HasSharedApprovedBooking(ctx, actor.ID, targetID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRatingNotAllowed
		}
	}

	r := &models.UserRating{
		ReviewerID:   actor.ID,
		TargetUserID: targetID,
		Rating:       rating,
		Comment:      comment,
	}
	if err := s.repo.UpsertUserRating(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("target_id", targetID).Int64("reviewer_id", actor.ID).Int("rating", rating).Msg("User rated")
	return r, nil
}

// PropertyRatings returns the summary and individual reviews for a listing.
func (s *RatingService) PropertyRatings(ctx context.Context, propertyID int64) (*models.RatingSummary, []*models.PropertyRating, error) {
	if _, err := s.repo.GetPropertyByID(ctx, propertyID); err != nil {
		return nil, nil, err
	}
	summary, err := s.repo.GetPropertyRatingSummary(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	ratings, err := s.repo.GetPropertyRatings(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	return summary, ratings, nil
}

// UserRatings returns the summary and reviews received by a user.
func (s *RatingService) UserRatings(ctx context.Context, userID int64) (*models.RatingSummary, []*models.UserRating, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, nil, err
	}
	summary, err := s.repo.GetUserRatingSummary(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	ratings, err := s.repo.GetUserRatings(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return summary, ratings, nil
}
