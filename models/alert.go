package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert frequencies.
const (
	FrequencyDaily  = "DAILY"
	FrequencyWeekly = "WEEKLY"
)

// AlertCriteria is the saved-search filter of an alert, stored as JSON.
type AlertCriteria struct {
	Categories []string `json:"categories,omitempty"`
	Countries  []string `json:"countries,omitempty"`
}

// ScholarshipAlert is a saved search that mails its owner a digest of newly
// published scholarships matching the criteria.
type ScholarshipAlert struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name       string     `gorm:"type:varchar(120);not null;default:'Mi Alerta'" json:"name"`
	Criteria   string     `gorm:"type:text;not null;default:'{}'" json:"-"`
	Frequency  string     `gorm:"type:varchar(10);not null;default:'WEEKLY'" json:"frequency"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
	LastSentAt *time.Time `json:"last_sent_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"-"`
}

// CreateAlertRequest is the payload of POST /user/alerts.
type CreateAlertRequest struct {
	Name      string         `json:"name"`
	Criteria  *AlertCriteria `json:"criteria"`
	Frequency string         `json:"frequency"`
	IsActive  *bool          `json:"is_active"`
}

// UpdateAlertRequest carries partial alert updates.
type UpdateAlertRequest struct {
	Name      *string        `json:"name"`
	Criteria  *AlertCriteria `json:"criteria"`
	Frequency *string        `json:"frequency"`
	IsActive  *bool          `json:"is_active"`
}

// AlertRunSummary reports the outcome of one digest processing pass.
type AlertRunSummary struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Skipped   int `json:"skipped"`
}

// AlertView is an alert with its criteria decoded for API responses.
type AlertView struct {
	ScholarshipAlert
	CriteriaObj AlertCriteria `json:"criteria"`
}
