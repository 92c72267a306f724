package repository

import (
	"context"
	"strings"
	"time"

	"becas-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	AddFavorite(ctx context.Context, userID, scholarshipID string) error
	RemoveFavorite(ctx context.Context, userID, scholarshipID string) error
	ListFavorites(ctx context.Context, userID string) ([]models.Scholarship, error)
	IsFavorite(ctx context.Context, userID, scholarshipID string) (bool, error)
}

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user into the database.
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID retrieves a user by ID.
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailOrUsername retrieves a user whose email or username matches the
// identifier (case-insensitive).
func (r *GormUserRepository) FindByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	id := strings.ToLower(strings.TrimSpace(identifier))
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", id, id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin records the time of the user's latest successful login.
func (r *GormUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

// AddFavorite links a scholarship to the user's favorites. Adding an
// already-favorited scholarship is a no-op.
func (r *GormUserRepository) AddFavorite(ctx context.Context, userID, scholarshipID string) error {
	uid, sid, err := parseFavoriteIDs(userID, scholarshipID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.User{ID: uid}).
		Association("Favorites").
		Append(&models.Scholarship{ID: sid})
}

// RemoveFavorite unlinks a scholarship from the user's favorites.
func (r *GormUserRepository) RemoveFavorite(ctx context.Context, userID, scholarshipID string) error {
	uid, sid, err := parseFavoriteIDs(userID, scholarshipID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.User{ID: uid}).
		Association("Favorites").
		Delete(&models.Scholarship{ID: sid})
}

// ListFavorites retrieves the user's favorited scholarships, with categories
// preloaded.
func (r *GormUserRepository) ListFavorites(ctx context.Context, userID string) ([]models.Scholarship, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	var items []models.Scholarship
	err = r.db.WithContext(ctx).
		Preload("Categories").
		Joins("JOIN user_favorites uf ON uf.scholarship_id = scholarships.id").
		Where("uf.user_id = ?", uid).
		Order("scholarships.created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func parseFavoriteIDs(userID, scholarshipID string) (uuid.UUID, uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, gorm.ErrRecordNotFound
	}
	sid, err := uuid.Parse(scholarshipID)
	if err != nil {
		return uuid.Nil, uuid.Nil, gorm.ErrRecordNotFound
	}
	return uid, sid, nil
}

// IsFavorite reports whether the user has favorited the scholarship.
func (r *GormUserRepository) IsFavorite(ctx context.Context, userID, scholarshipID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_favorites").
		Where("user_id = ? AND scholarship_id = ?", userID, scholarshipID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
