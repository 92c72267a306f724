package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"becas-backend/models"
	"becas-backend/repository"
	"becas-backend/sender"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AlertService defines the interface for saved-search alert logic.
type AlertService interface {
	Create(ctx context.Context, userID string, req *models.CreateAlertRequest) (*models.AlertView, *ServiceError)
	List(ctx context.Context, userID string) ([]models.AlertView, *ServiceError)
	Update(ctx context.Context, userID, alertID string, req *models.UpdateAlertRequest) (*models.AlertView, *ServiceError)
	Delete(ctx context.Context, userID, alertID string) *ServiceError
	ProcessAlerts(ctx context.Context) (*models.AlertRunSummary, *ServiceError)
}

// alertServiceImpl implements AlertService.
type alertServiceImpl struct {
	alerts       repository.AlertRepository
	scholarships repository.ScholarshipRepository
	mailer       sender.EmailSender
	siteURL      string
	logger       *zap.Logger
	now          func() time.Time
}

// NewAlertService creates a new AlertService. siteURL is the public base URL
// used for links inside digest mails.
func NewAlertService(
	alerts repository.AlertRepository,
	scholarships repository.ScholarshipRepository,
	mailer sender.EmailSender,
	siteURL string,
	logger *zap.Logger,
) AlertService {
	return &alertServiceImpl{
		alerts:       alerts,
		scholarships: scholarships,
		mailer:       mailer,
		siteURL:      strings.TrimSuffix(siteURL, "/"),
		logger:       logger,
		now:          time.Now,
	}
}

// Create stores a new alert for the user.
func (s *alertServiceImpl) Create(ctx context.Context, userID string, req *models.CreateAlertRequest) (*models.AlertView, *ServiceError) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid user ID"}
	}

	frequency := strings.ToUpper(req.Frequency)
	if frequency == "" {
		frequency = models.FrequencyWeekly
	}
	if frequency != models.FrequencyDaily && frequency != models.FrequencyWeekly {
		return nil, &ServiceError{StatusCode: 400, Message: "Frequency must be DAILY or WEEKLY"}
	}

	criteria := models.AlertCriteria{}
	if req.Criteria != nil {
		criteria = *req.Criteria
	}
	raw, err := json.Marshal(criteria)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid criteria"}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Mi Alerta"
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	alert := &models.ScholarshipAlert{
		UserID:    uid,
		Name:      name,
		Criteria:  string(raw),
		Frequency: frequency,
		IsActive:  active,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		s.logger.Error("Failed to create alert", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create alert"}
	}

	s.logger.Info("Alert created", zap.String("alert_id", alert.ID.String()), zap.String("user_id", userID))
	return alertView(alert), nil
}

// List returns the user's alerts.
func (s *alertServiceImpl) List(ctx context.Context, userID string) ([]models.AlertView, *ServiceError) {
	alerts, err := s.alerts.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list alerts", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to list alerts"}
	}
	views := make([]models.AlertView, 0, len(alerts))
	for i := range alerts {
		views = append(views, *alertView(&alerts[i]))
	}
	return views, nil
}

// Update applies a partial update to an alert owned by the user.
func (s *alertServiceImpl) Update(ctx context.Context, userID, alertID string, req *models.UpdateAlertRequest) (*models.AlertView, *ServiceError) {
	alert, err := s.alerts.FindByIDAndUser(ctx, alertID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Alert not found"}
		}
		s.logger.Error("Failed to fetch alert", zap.String("alert_id", alertID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update alert"}
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		alert.Name = strings.TrimSpace(*req.Name)
	}
	if req.Frequency != nil {
		frequency := strings.ToUpper(*req.Frequency)
		if frequency != models.FrequencyDaily && frequency != models.FrequencyWeekly {
			return nil, &ServiceError{StatusCode: 400, Message: "Frequency must be DAILY or WEEKLY"}
		}
		alert.Frequency = frequency
	}
	if req.Criteria != nil {
		raw, err := json.Marshal(req.Criteria)
		if err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: "Invalid criteria"}
		}
		alert.Criteria = string(raw)
	}
	if req.IsActive != nil {
		alert.IsActive = *req.IsActive
	}

	if err := s.alerts.Update(ctx, alert); err != nil {
		s.logger.Error("Failed to update alert", zap.String("alert_id", alertID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update alert"}
	}
	return alertView(alert), nil
}

// Delete removes an alert owned by the user.
func (s *alertServiceImpl) Delete(ctx context.Context, userID, alertID string) *ServiceError {
	if err := s.alerts.Delete(ctx, alertID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Alert not found"}
		}
		s.logger.Error("Failed to delete alert", zap.String("alert_id", alertID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete alert"}
	}
	return nil
}

// ProcessAlerts walks every active alert, mails a digest of newly published
// scholarships matching the criteria, and records the send time. An alert
// whose frequency window has not elapsed, or whose window has no matches, is
// skipped. A mail failure skips that alert and the pass continues.
func (s *alertServiceImpl) ProcessAlerts(ctx context.Context) (*models.AlertRunSummary, *ServiceError) {
	if s.mailer == nil {
		return nil, &ServiceError{StatusCode: 503, Message: "Mail delivery is not configured"}
	}

	alerts, err := s.alerts.ListActive(ctx)
	if err != nil {
		s.logger.Error("Failed to load active alerts", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to process alerts"}
	}

	summary := &models.AlertRunSummary{}
	now := s.now()

	for i := range alerts {
		alert := &alerts[i]
		summary.Processed++

		window := frequencyWindow(alert.Frequency)
		if alert.LastSentAt != nil && now.Sub(*alert.LastSentAt) < window {
			summary.Skipped++
			continue
		}

		// A first digest has no time floor, so a new subscriber sees the
		// existing backlog (capped by digestLimit).
		var since time.Time
		if alert.LastSentAt != nil {
			since = *alert.LastSentAt
			if floor := now.Add(-window); floor.After(since) {
				since = floor
			}
		}

		published, err := s.scholarships.FindPublishedCreatedAfter(ctx, since)
		if err != nil {
			s.logger.Error("Failed to load new scholarships", zap.String("alert_id", alert.ID.String()), zap.Error(err))
			summary.Skipped++
			continue
		}

		matches := filterByCriteria(published, parseCriteria(alert.Criteria))
		if len(matches) == 0 {
			summary.Skipped++
			continue
		}
		if len(matches) > digestLimit {
			matches = matches[:digestLimit]
		}

		if alert.User.Email == "" {
			summary.Skipped++
			continue
		}

		subject := fmt.Sprintf("%s: %d becas nuevas", alert.Name, len(matches))
		body := s.buildDigest(alert, matches)
		if _, err := s.mailer.SendEmail(ctx, alert.User.Email, subject, body); err != nil {
			s.logger.Error("Digest mail failed",
				zap.String("alert_id", alert.ID.String()),
				zap.String("to", alert.User.Email),
				zap.Error(err),
			)
			summary.Skipped++
			continue
		}

		if err := s.alerts.UpdateLastSent(ctx, alert.ID.String(), now); err != nil {
			s.logger.Warn("Failed to record digest send", zap.String("alert_id", alert.ID.String()), zap.Error(err))
		}
		summary.Sent++
	}

	s.logger.Info("Alert pass finished",
		zap.Int("processed", summary.Processed),
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// digestLimit caps how many scholarships one digest mail lists.
const digestLimit = 10

// frequencyWindow maps an alert frequency to its minimum send interval.
func frequencyWindow(frequency string) time.Duration {
	if frequency == models.FrequencyDaily {
		return 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

// parseCriteria decodes stored criteria, treating malformed JSON as empty.
func parseCriteria(raw string) models.AlertCriteria {
	var criteria models.AlertCriteria
	if err := json.Unmarshal([]byte(raw), &criteria); err != nil {
		return models.AlertCriteria{}
	}
	return criteria
}

// filterByCriteria keeps scholarships matching any listed country and any
// listed category. Empty criteria lists match everything.
func filterByCriteria(items []models.Scholarship, criteria models.AlertCriteria) []models.Scholarship {
	if len(criteria.Countries) == 0 && len(criteria.Categories) == 0 {
		return items
	}

	countries := make(map[string]bool, len(criteria.Countries))
	for _, c := range criteria.Countries {
		countries[strings.ToLower(c)] = true
	}
	categories := make(map[string]bool, len(criteria.Categories))
	for _, c := range criteria.Categories {
		categories[c] = true
	}

	matched := make([]models.Scholarship, 0, len(items))
	for _, item := range items {
		if len(countries) > 0 && !countries[strings.ToLower(item.Country)] {
			continue
		}
		if len(categories) > 0 {
			ok := false
			for _, cat := range item.Categories {
				if categories[cat.Slug] {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		matched = append(matched, item)
	}
	return matched
}

// buildDigest renders the HTML body of an alert digest mail.
func (s *alertServiceImpl) buildDigest(alert *models.ScholarshipAlert, items []models.Scholarship) string {
	var b strings.Builder
	b.WriteString("<h2>" + html.EscapeString(alert.Name) + "</h2>")
	b.WriteString("<p>Nuevas becas que coinciden con tu alerta:</p><ul>")
	for _, item := range items {
		link := fmt.Sprintf("%s/becas/%s", s.siteURL, item.Slug)
		b.WriteString("<li><a href=\"" + link + "\">" + html.EscapeString(item.Title) + "</a>")
		if item.Country != "" {
			b.WriteString(" (" + html.EscapeString(item.Country) + ")")
		}
		if item.Deadline != nil {
			b.WriteString(" - cierra " + item.Deadline.Format("2006-01-02"))
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

func alertView(alert *models.ScholarshipAlert) *models.AlertView {
	return &models.AlertView{
		ScholarshipAlert: *alert,
		CriteriaObj:      parseCriteria(alert.Criteria),
	}
}
