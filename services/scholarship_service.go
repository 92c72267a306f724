package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"becas-backend/models"
	"becas-backend/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// ScholarshipService defines the interface for scholarship business logic.
type ScholarshipService interface {
	Create(ctx context.Context, req *models.CreateScholarshipRequest) (*models.Scholarship, *ServiceError)
	GetByID(ctx context.Context, id string) (*models.ScholarshipView, *ServiceError)
	List(ctx context.Context, filter models.ScholarshipFilter) ([]models.ScholarshipView, int64, *ServiceError)
	Update(ctx context.Context, id string, req *models.UpdateScholarshipRequest) (*models.Scholarship, *ServiceError)
	Delete(ctx context.Context, id string) *ServiceError
	Bulk(ctx context.Context, req *models.BulkScholarshipRequest) (int64, *ServiceError)
	Countries(ctx context.Context) ([]string, *ServiceError)
}

// scholarshipServiceImpl implements ScholarshipService.
type scholarshipServiceImpl struct {
	repo       repository.ScholarshipRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewScholarshipService creates a new ScholarshipService.
func NewScholarshipService(
	repo repository.ScholarshipRepository,
	categories repository.CategoryRepository,
	logger *zap.Logger,
) ScholarshipService {
	return &scholarshipServiceImpl{
		repo:       repo,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// Create persists a new scholarship. The source URL is the dedup key: a
// record whose source_url already exists is rejected with 409.
func (s *scholarshipServiceImpl) Create(ctx context.Context, req *models.CreateScholarshipRequest) (*models.Scholarship, *ServiceError) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Title is required"}
	}

	if req.SourceURL != "" {
		if _, err := s.repo.FindBySourceURL(ctx, req.SourceURL); err == nil {
			return nil, &ServiceError{StatusCode: 409, Message: "A scholarship with this source URL already exists"}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("Source URL lookup failed", zap.String("url", req.SourceURL), zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to create scholarship"}
		}
	}

	now := s.now()
	slug := req.Slug
	if slug == "" {
		slug = UniqueSlug(title, now)
	}

	deadline, svcErr := parseDate(req.Deadline, "deadline")
	if svcErr != nil {
		return nil, svcErr
	}
	startDate, svcErr := parseDate(req.StartDate, "start_date")
	if svcErr != nil {
		return nil, svcErr
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	fundingType := req.FundingType
	if fundingType == "" {
		fundingType = models.FundingUnknown
	}
	educationLevel := req.EducationLevel
	if educationLevel == "" {
		educationLevel = models.LevelOther
	}

	var rawData string
	if req.RawData != nil {
		if b, err := json.Marshal(req.RawData); err == nil {
			rawData = string(b)
		}
	}

	scholarship := &models.Scholarship{
		Slug:           slug,
		Title:          title,
		Description:    req.Description,
		Country:        strings.TrimSpace(req.Country),
		ApplyURL:       req.ApplyURL,
		OfficialURL:    req.OfficialURL,
		SourceURL:      req.SourceURL,
		Deadline:       deadline,
		StartDate:      startDate,
		FundingType:    fundingType,
		EducationLevel: educationLevel,
		Areas:          req.Areas,
		Benefits:       req.Benefits,
		Requirements:   req.Requirements,
		Duration:       req.Duration,
		Status:         status,
		AdminNotes:     req.AdminNotes,
		RawData:        rawData,
	}

	slugs := req.CategorySlugs
	if len(slugs) == 0 {
		slugs = InferCategorySlugs(title + "\n" + req.Areas + "\n" + req.Description)
	}
	cats, err := s.categories.FindBySlugs(ctx, slugs)
	if err != nil {
		s.logger.Error("Category lookup failed", zap.Strings("slugs", slugs), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create scholarship"}
	}
	scholarship.Categories = cats

	if err := s.repo.Create(ctx, scholarship); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "A scholarship with this slug already exists"}
		}
		s.logger.Error("Failed to create scholarship", zap.String("slug", slug), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create scholarship"}
	}

	s.logger.Info("Scholarship created",
		zap.String("id", scholarship.ID.String()),
		zap.String("slug", scholarship.Slug),
		zap.String("country", scholarship.Country),
	)
	return scholarship, nil
}

// GetByID retrieves a single scholarship with its computed active flag.
func (s *scholarshipServiceImpl) GetByID(ctx context.Context, id string) (*models.ScholarshipView, *ServiceError) {
	scholarship, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Scholarship not found"}
		}
		s.logger.Error("Failed to fetch scholarship", zap.String("id", id), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch scholarship"}
	}
	view := &models.ScholarshipView{Scholarship: *scholarship, Active: scholarship.IsActive(s.now())}
	return view, nil
}

// List retrieves paginated scholarships matching the filter.
func (s *scholarshipServiceImpl) List(ctx context.Context, filter models.ScholarshipFilter) ([]models.ScholarshipView, int64, *ServiceError) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list scholarships", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list scholarships"}
	}

	now := s.now()
	views := make([]models.ScholarshipView, 0, len(items))
	for _, item := range items {
		views = append(views, models.ScholarshipView{Scholarship: item, Active: item.IsActive(now)})
	}
	return views, total, nil
}

// Update applies a partial update to an existing scholarship.
func (s *scholarshipServiceImpl) Update(ctx context.Context, id string, req *models.UpdateScholarshipRequest) (*models.Scholarship, *ServiceError) {
	scholarship, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Scholarship not found"}
		}
		s.logger.Error("Failed to fetch scholarship", zap.String("id", id), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update scholarship"}
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&scholarship.Slug, req.Slug)
	setString(&scholarship.Title, req.Title)
	setString(&scholarship.Description, req.Description)
	setString(&scholarship.Country, req.Country)
	setString(&scholarship.ApplyURL, req.ApplyURL)
	setString(&scholarship.OfficialURL, req.OfficialURL)
	setString(&scholarship.SourceURL, req.SourceURL)
	setString(&scholarship.FundingType, req.FundingType)
	setString(&scholarship.EducationLevel, req.EducationLevel)
	setString(&scholarship.Areas, req.Areas)
	setString(&scholarship.Benefits, req.Benefits)
	setString(&scholarship.Requirements, req.Requirements)
	setString(&scholarship.Duration, req.Duration)
	setString(&scholarship.Status, req.Status)
	setString(&scholarship.AdminNotes, req.AdminNotes)

	if req.Deadline != nil {
		deadline, svcErr := parseDate(*req.Deadline, "deadline")
		if svcErr != nil {
			return nil, svcErr
		}
		scholarship.Deadline = deadline
	}
	if req.StartDate != nil {
		startDate, svcErr := parseDate(*req.StartDate, "start_date")
		if svcErr != nil {
			return nil, svcErr
		}
		scholarship.StartDate = startDate
	}

	if err := s.repo.Update(ctx, scholarship); err != nil {
		s.logger.Error("Failed to update scholarship", zap.String("id", id), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update scholarship"}
	}

	s.logger.Info("Scholarship updated", zap.String("id", id))
	return scholarship, nil
}

// Delete removes a scholarship.
func (s *scholarshipServiceImpl) Delete(ctx context.Context, id string) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Scholarship not found"}
		}
		s.logger.Error("Failed to delete scholarship", zap.String("id", id), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete scholarship"}
	}
	s.logger.Info("Scholarship deleted", zap.String("id", id))
	return nil
}

// Bulk applies an admin action to a set of scholarships and returns the
// number of affected rows.
func (s *scholarshipServiceImpl) Bulk(ctx context.Context, req *models.BulkScholarshipRequest) (int64, *ServiceError) {
	if len(req.IDs) == 0 {
		return 0, &ServiceError{StatusCode: 400, Message: "No IDs provided"}
	}

	switch req.Action {
	case "delete":
		affected, err := s.repo.BulkDelete(ctx, req.IDs)
		if err != nil {
			s.logger.Error("Bulk delete failed", zap.Int("ids", len(req.IDs)), zap.Error(err))
			return 0, &ServiceError{StatusCode: 500, Message: "Bulk delete failed"}
		}
		s.logger.Info("Bulk delete", zap.Int64("affected", affected))
		return affected, nil
	case "changeStatus":
		status := req.Payload.Status
		if status != models.StatusDraft && status != models.StatusPublished && status != models.StatusArchived {
			return 0, &ServiceError{StatusCode: 400, Message: "Invalid status"}
		}
		affected, err := s.repo.BulkUpdateStatus(ctx, req.IDs, status)
		if err != nil {
			s.logger.Error("Bulk status change failed", zap.Int("ids", len(req.IDs)), zap.Error(err))
			return 0, &ServiceError{StatusCode: 500, Message: "Bulk status change failed"}
		}
		s.logger.Info("Bulk status change", zap.String("status", status), zap.Int64("affected", affected))
		return affected, nil
	default:
		return 0, &ServiceError{StatusCode: 400, Message: "Unknown bulk action"}
	}
}

// Countries lists the distinct country values of stored scholarships.
func (s *scholarshipServiceImpl) Countries(ctx context.Context) ([]string, *ServiceError) {
	countries, err := s.repo.DistinctCountries(ctx)
	if err != nil {
		s.logger.Error("Failed to list countries", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list countries"}
	}
	return countries, nil
}

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(value, field string) (*time.Time, *ServiceError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid " + field + " date, expected YYYY-MM-DD"}
	}
	return &t, nil
}

// InferCategorySlugs matches free text against the category catalog's
// keyword lists and returns the matching slugs.
func InferCategorySlugs(text string) []string {
	lower := strings.ToLower(text)
	slugs := make([]string, 0, 4)
	for _, def := range models.CategoryCatalog {
		for _, kw := range def.Keywords {
			if strings.Contains(lower, kw) {
				slugs = append(slugs, def.Slug)
				break
			}
		}
	}
	return slugs
}
