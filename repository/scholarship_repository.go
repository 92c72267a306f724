package repository

import (
	"context"
	"strings"
	"time"

	"becas-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScholarshipRepository defines the interface for scholarship data access.
type ScholarshipRepository interface {
	Create(ctx context.Context, s *models.Scholarship) error
	FindByID(ctx context.Context, id string) (*models.Scholarship, error)
	FindBySourceURL(ctx context.Context, url string) (*models.Scholarship, error)
	Update(ctx context.Context, s *models.Scholarship) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, int64, error)
	FindStoredURLs(ctx context.Context, urls []string) ([]string, error)
	DistinctCountries(ctx context.Context) ([]string, error)
	BulkDelete(ctx context.Context, ids []string) (int64, error)
	BulkUpdateStatus(ctx context.Context, ids []string, status string) (int64, error)
	FindPublishedCreatedAfter(ctx context.Context, since time.Time) ([]models.Scholarship, error)
	ReplaceCategories(ctx context.Context, s *models.Scholarship, categories []models.Category) error
}

// GormScholarshipRepository implements ScholarshipRepository using GORM.
type GormScholarshipRepository struct {
	db *gorm.DB
}

// NewGormScholarshipRepository creates a new GormScholarshipRepository.
func NewGormScholarshipRepository(db *gorm.DB) ScholarshipRepository {
	return &GormScholarshipRepository{db: db}
}

// Create inserts a new scholarship into the database.
func (r *GormScholarshipRepository) Create(ctx context.Context, s *models.Scholarship) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindByID retrieves a scholarship by its ID, with categories preloaded.
func (r *GormScholarshipRepository) FindByID(ctx context.Context, id string) (*models.Scholarship, error) {
	var s models.Scholarship
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindBySourceURL retrieves a scholarship whose source_url matches exactly.
func (r *GormScholarshipRepository) FindBySourceURL(ctx context.Context, url string) (*models.Scholarship, error) {
	var s models.Scholarship
	err := r.db.WithContext(ctx).
		Where("source_url = ?", url).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update saves all fields of an existing scholarship.
func (r *GormScholarshipRepository) Update(ctx context.Context, s *models.Scholarship) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete removes a scholarship and its category associations.
func (r *GormScholarshipRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	result := r.db.WithContext(ctx).
		Select(clause.Associations).
		Delete(&models.Scholarship{ID: uid})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List retrieves paginated scholarships matching the filter.
func (r *GormScholarshipRepository) List(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, int64, error) {
	var items []models.Scholarship
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Scholarship{})

	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(country) LIKE ?", term, term, term)
	}
	if filter.Country != "" {
		query = query.Where("LOWER(country) = ?", strings.ToLower(filter.Country))
	}
	if filter.FundingType != "" {
		query = query.Where("funding_type = ?", filter.FundingType)
	}
	if filter.EducationLevel != "" {
		query = query.Where("education_level = ?", filter.EducationLevel)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where(
			"id IN (SELECT scholarship_id FROM scholarship_categories sc JOIN categories c ON c.id = sc.category_id WHERE c.slug = ?)",
			filter.Category,
		)
	}
	if filter.Active != nil {
		today := time.Now().Truncate(24 * time.Hour)
		if *filter.Active {
			query = query.Where("deadline IS NULL OR deadline >= ?", today)
		} else {
			query = query.Where("deadline IS NOT NULL AND deadline < ?", today)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("Categories").
		Offset(offset).
		Limit(filter.Limit).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// FindStoredURLs returns the source and apply URLs of every scholarship
// whose source_url or apply_url exactly matches one of the given strings.
func (r *GormScholarshipRepository) FindStoredURLs(ctx context.Context, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return []string{}, nil
	}

	var stored []struct {
		SourceURL string
		ApplyURL  string
	}
	err := r.db.WithContext(ctx).
		Model(&models.Scholarship{}).
		Select("source_url", "apply_url").
		Where("source_url IN ? OR apply_url IN ?", urls, urls).
		Find(&stored).Error
	if err != nil {
		return nil, err
	}

	matched := make([]string, 0, len(stored)*2)
	for _, row := range stored {
		matched = append(matched, row.SourceURL, row.ApplyURL)
	}
	return matched, nil
}

// DistinctCountries lists every non-empty country value of published records
// in alphabetical order.
func (r *GormScholarshipRepository) DistinctCountries(ctx context.Context) ([]string, error) {
	var countries []string
	err := r.db.WithContext(ctx).
		Model(&models.Scholarship{}).
		Where("country <> '' AND status = ?", models.StatusPublished).
		Distinct("country").
		Order("country ASC").
		Pluck("country", &countries).Error
	if err != nil {
		return nil, err
	}
	return countries, nil
}

// BulkDelete removes all scholarships with the given IDs, clearing the join
// tables first so no orphan rows remain.
func (r *GormScholarshipRepository) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM scholarship_categories WHERE scholarship_id IN ?", ids).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_favorites WHERE scholarship_id IN ?", ids).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Scholarship{}, "id IN ?", ids)
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

// BulkUpdateStatus sets the status on all scholarships with the given IDs.
func (r *GormScholarshipRepository) BulkUpdateStatus(ctx context.Context, ids []string, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Scholarship{}).
		Where("id IN ?", ids).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// FindPublishedCreatedAfter retrieves published scholarships created after
// the given time, newest first. Used by the alert digest job.
func (r *GormScholarshipRepository) FindPublishedCreatedAfter(ctx context.Context, since time.Time) ([]models.Scholarship, error) {
	var items []models.Scholarship
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("status = ? AND created_at > ?", models.StatusPublished, since).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ReplaceCategories replaces the category associations of a scholarship.
func (r *GormScholarshipRepository) ReplaceCategories(ctx context.Context, s *models.Scholarship, categories []models.Category) error {
	return r.db.WithContext(ctx).Model(s).Association("Categories").Replace(categories)
}
