package service

import (
	"context"

	"github.com/rs/zerolog"

	"renthub/internal/domain"
	"renthub/internal/models"
)

const defaultActivityLimit = 20

// AnalyticsService answers the owner dashboard queries. All numbers are
// scoped to the calling owner's portfolio.
type AnalyticsService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewAnalyticsService(repo domain.Repository, logger *zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, logger: logger}
}

func (s *AnalyticsService) Financial(ctx context.Context, actor *models.User) (*models.FinancialAnalytics, error) {
	return s.repo.GetFinancialAnalytics(ctx, actor.ID)
}

func (s *AnalyticsService) Properties(ctx context.Context, actor *models.User) (*models.PropertyAnalytics, error) {
	return s.repo.GetPropertyAnalytics(ctx, actor.ID)
}

func (s *AnalyticsService) Activities(ctx context.Context, actor *models.User, limit int) ([]*models.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultActivityLimit
	}
	return s.repo.GetRecentActivities(ctx, actor.ID, limit)
}
