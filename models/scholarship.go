package models

import (
	"time"

	"github.com/google/uuid"
)

// Funding types for a scholarship.
const (
	FundingFull    = "FULL"
	FundingPartial = "PARTIAL"
	FundingOneTime = "ONE_TIME"
	FundingUnknown = "UNKNOWN"
)

// Education levels.
const (
	LevelUndergraduate = "UNDERGRADUATE"
	LevelMaster        = "MASTER"
	LevelPHD           = "PHD"
	LevelResearch      = "RESEARCH"
	LevelShortCourse   = "SHORT_COURSE"
	LevelOther         = "OTHER"
)

// Publication statuses.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusArchived  = "ARCHIVED"
)

// Scholarship is a curated scholarship record stored in Postgres.
type Scholarship struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug           string     `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Title          string     `gorm:"not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Country        string     `gorm:"type:varchar(120);index" json:"country"`
	ApplyURL       string     `gorm:"index" json:"apply_url"`
	OfficialURL    string     `json:"official_url"`
	SourceURL      string     `gorm:"index" json:"source_url"`
	Deadline       *time.Time `json:"deadline"`
	StartDate      *time.Time `json:"start_date"`
	FundingType    string     `gorm:"type:varchar(20);default:'UNKNOWN'" json:"funding_type"`
	EducationLevel string     `gorm:"type:varchar(20);default:'OTHER'" json:"education_level"`
	Areas          string     `gorm:"type:text" json:"areas"`
	Benefits       string     `gorm:"type:text" json:"benefits"`
	Requirements   string     `gorm:"type:text" json:"requirements"`
	Duration       string     `gorm:"type:varchar(120)" json:"duration"`
	Status         string     `gorm:"type:varchar(20);default:'DRAFT';index" json:"status"`
	RawData        string     `gorm:"type:text" json:"-"`
	AdminNotes     string     `gorm:"type:text" json:"admin_notes,omitempty"`
	Categories     []Category `gorm:"many2many:scholarship_categories;" json:"categories,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the scholarship still accepts applications (no
// deadline, or deadline not yet past) relative to now.
func (s *Scholarship) IsActive(now time.Time) bool {
	return s.Deadline == nil || !s.Deadline.Before(now.Truncate(24*time.Hour))
}

// ScholarshipView is a Scholarship plus the computed is_active field returned
// by list and detail endpoints.
type ScholarshipView struct {
	Scholarship
	Active bool `json:"is_active"`
}

// CreateScholarshipRequest is the payload for creating a scholarship. Field
// names are snake_case to match the scrape collaborator's output; the slug is
// generated from the title when absent.
type CreateScholarshipRequest struct {
	Slug           string   `json:"slug"`
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	Country        string   `json:"country"`
	ApplyURL       string   `json:"apply_url"`
	OfficialURL    string   `json:"official_url"`
	SourceURL      string   `json:"source_url"`
	Deadline       string   `json:"deadline"`
	StartDate      string   `json:"start_date"`
	FundingType    string   `json:"funding_type"`
	EducationLevel string   `json:"education_level"`
	Areas          string   `json:"areas"`
	Benefits       string   `json:"benefits"`
	Requirements   string   `json:"requirements"`
	Duration       string   `json:"duracion"`
	Status         string   `json:"status"`
	AdminNotes     string   `json:"admin_notes"`
	CategorySlugs  []string `json:"category_slugs"`
	RawData        any      `json:"raw_data"`
}

// UpdateScholarshipRequest carries partial updates; nil pointers mean "leave
// unchanged".
type UpdateScholarshipRequest struct {
	Slug           *string `json:"slug"`
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Country        *string `json:"country"`
	ApplyURL       *string `json:"apply_url"`
	OfficialURL    *string `json:"official_url"`
	SourceURL      *string `json:"source_url"`
	Deadline       *string `json:"deadline"`
	StartDate      *string `json:"start_date"`
	FundingType    *string `json:"funding_type"`
	EducationLevel *string `json:"education_level"`
	Areas          *string `json:"areas"`
	Benefits       *string `json:"benefits"`
	Requirements   *string `json:"requirements"`
	Duration       *string `json:"duracion"`
	Status         *string `json:"status"`
	AdminNotes     *string `json:"admin_notes"`
}

// ScholarshipFilter captures the query parameters of the listing endpoint.
type ScholarshipFilter struct {
	Search         string
	Country        string
	Category       string // category slug
	FundingType    string
	EducationLevel string
	Status         string // empty means PUBLISHED (public default)
	Active         *bool  // nil means both
	Page           int
	Limit          int
}

// BulkScholarshipRequest is the payload of the admin bulk endpoint.
type BulkScholarshipRequest struct {
	IDs     []string `json:"ids" binding:"required"`
	Action  string   `json:"action" binding:"required,oneof=delete changeStatus"`
	Payload struct {
		Status string `json:"status"`
	} `json:"payload"`
}
