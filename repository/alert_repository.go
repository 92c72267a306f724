package repository

import (
	"context"
	"time"

	"becas-backend/models"

	"gorm.io/gorm"
)

// AlertRepository defines the interface for saved-search alert data access.
type AlertRepository interface {
	Create(ctx context.Context, alert *models.ScholarshipAlert) error
	FindByUser(ctx context.Context, userID string) ([]models.ScholarshipAlert, error)
	FindByIDAndUser(ctx context.Context, id, userID string) (*models.ScholarshipAlert, error)
	Update(ctx context.Context, alert *models.ScholarshipAlert) error
	Delete(ctx context.Context, id, userID string) error
	ListActive(ctx context.Context) ([]models.ScholarshipAlert, error)
	UpdateLastSent(ctx context.Context, id string, at time.Time) error
}

// GormAlertRepository implements AlertRepository using GORM.
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository.
func NewGormAlertRepository(db *gorm.DB) AlertRepository {
	return &GormAlertRepository{db: db}
}

// Create inserts a new alert into the database.
func (r *GormAlertRepository) Create(ctx context.Context, alert *models.ScholarshipAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// FindByUser retrieves all alerts belonging to a user, newest first.
func (r *GormAlertRepository) FindByUser(ctx context.Context, userID string) ([]models.ScholarshipAlert, error) {
	var alerts []models.ScholarshipAlert
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindByIDAndUser retrieves a single alert scoped to its owner.
func (r *GormAlertRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*models.ScholarshipAlert, error) {
	var alert models.ScholarshipAlert
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// Update saves all fields of an existing alert.
func (r *GormAlertRepository) Update(ctx context.Context, alert *models.ScholarshipAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// Delete removes an alert, scoped to its owner.
func (r *GormAlertRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.ScholarshipAlert{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListActive retrieves every active alert with its owner preloaded.
func (r *GormAlertRepository) ListActive(ctx context.Context) ([]models.ScholarshipAlert, error) {
	var alerts []models.ScholarshipAlert
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("is_active = ?", true).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// UpdateLastSent records the time the alert's digest was last delivered.
func (r *GormAlertRepository) UpdateLastSent(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ScholarshipAlert{}).
		Where("id = ?", id).
		Update("last_sent_at", at).Error
}
