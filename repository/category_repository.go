package repository

import (
	"context"

	"becas-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository defines the interface for category and country lookups.
type CategoryRepository interface {
	ListAll(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Seed(ctx context.Context, defs []models.CategoryDefinition) error
	ListCountries(ctx context.Context) ([]models.Country, error)
	CreateCountry(ctx context.Context, country *models.Country) error
}

// GormCategoryRepository implements CategoryRepository using GORM.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository.
func NewGormCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// ListAll retrieves every category sorted by name.
func (r *GormCategoryRepository) ListAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindBySlug retrieves a single category by its slug.
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindBySlugs retrieves the categories matching the given slugs. Unknown
// slugs are silently skipped.
func (r *GormCategoryRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Category, error) {
	if len(slugs) == 0 {
		return []models.Category{}, nil
	}
	var categories []models.Category
	err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Create inserts a new category.
func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// Seed inserts the fixed category catalog, ignoring slugs that already exist.
func (r *GormCategoryRepository) Seed(ctx context.Context, defs []models.CategoryDefinition) error {
	if len(defs) == 0 {
		return nil
	}
	categories := make([]models.Category, 0, len(defs))
	for _, def := range defs {
		categories = append(categories, models.Category{Name: def.Name, Slug: def.Slug})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).
		Create(&categories).Error
}

// ListCountries retrieves every country sorted by name.
func (r *GormCategoryRepository) ListCountries(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	err := r.db.WithContext(ctx).Order("name ASC").Find(&countries).Error
	if err != nil {
		return nil, err
	}
	return countries, nil
}

// CreateCountry inserts a new country. Name and slug are unique.
func (r *GormCategoryRepository) CreateCountry(ctx context.Context, country *models.Country) error {
	return r.db.WithContext(ctx).Create(country).Error
}
