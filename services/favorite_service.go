package services

import (
	"context"
	"errors"
	"time"

	"becas-backend/models"
	"becas-backend/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FavoriteService defines the interface for user favorites.
type FavoriteService interface {
	Add(ctx context.Context, userID, scholarshipID string) *ServiceError
	Remove(ctx context.Context, userID, scholarshipID string) *ServiceError
	List(ctx context.Context, userID string) ([]models.ScholarshipView, *ServiceError)
}

// favoriteServiceImpl implements FavoriteService.
type favoriteServiceImpl struct {
	users        repository.UserRepository
	scholarships repository.ScholarshipRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(
	users repository.UserRepository,
	scholarships repository.ScholarshipRepository,
	logger *zap.Logger,
) FavoriteService {
	return &favoriteServiceImpl{
		users:        users,
		scholarships: scholarships,
		logger:       logger,
		now:          time.Now,
	}
}

// Add favorites a scholarship. Favoriting twice is a no-op.
func (s *favoriteServiceImpl) Add(ctx context.Context, userID, scholarshipID string) *ServiceError {
	if _, err := s.scholarships.FindByID(ctx, scholarshipID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Scholarship not found"}
		}
		s.logger.Error("Failed to fetch scholarship", zap.String("id", scholarshipID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to add favorite"}
	}

	if err := s.users.AddFavorite(ctx, userID, scholarshipID); err != nil {
		s.logger.Error("Failed to add favorite",
			zap.String("user_id", userID),
			zap.String("scholarship_id", scholarshipID),
			zap.Error(err),
		)
		return &ServiceError{StatusCode: 500, Message: "Failed to add favorite"}
	}
	return nil
}

// Remove unfavorites a scholarship.
func (s *favoriteServiceImpl) Remove(ctx context.Context, userID, scholarshipID string) *ServiceError {
	if err := s.users.RemoveFavorite(ctx, userID, scholarshipID); err != nil {
		s.logger.Error("Failed to remove favorite",
			zap.String("user_id", userID),
			zap.String("scholarship_id", scholarshipID),
			zap.Error(err),
		)
		return &ServiceError{StatusCode: 500, Message: "Failed to remove favorite"}
	}
	return nil
}

// List returns the user's favorited scholarships with the active flag set.
func (s *favoriteServiceImpl) List(ctx context.Context, userID string) ([]models.ScholarshipView, *ServiceError) {
	items, err := s.users.ListFavorites(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list favorites", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list favorites"}
	}
	now := s.now()
	views := make([]models.ScholarshipView, 0, len(items))
	for _, item := range items {
		views = append(views, models.ScholarshipView{Scholarship: item, Active: item.IsActive(now)})
	}
	return views, nil
}
