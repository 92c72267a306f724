package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"becas-backend/models"
	"becas-backend/sender"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errStoreDown = errors.New("store unavailable")

// --- Mock scholarship repository ---

type mockScholarshipRepo struct {
	mu            sync.Mutex
	items         map[string]*models.Scholarship
	failStore     bool
	failCreateFor map[string]bool // keyed by source URL
	createCalls   int
}

func newMockScholarshipRepo() *mockScholarshipRepo {
	return &mockScholarshipRepo{
		items:         make(map[string]*models.Scholarship),
		failCreateFor: make(map[string]bool),
	}
}

func (m *mockScholarshipRepo) seed(s models.Scholarship) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.items[s.ID.String()] = &s
}

func (m *mockScholarshipRepo) Create(ctx context.Context, s *models.Scholarship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.failStore || m.failCreateFor[s.SourceURL] {
		return errStoreDown
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	copied := *s
	m.items[s.ID.String()] = &copied
	return nil
}

func (m *mockScholarshipRepo) FindByID(ctx context.Context, id string) (*models.Scholarship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return nil, errStoreDown
	}
	s, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockScholarshipRepo) FindBySourceURL(ctx context.Context, url string) (*models.Scholarship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return nil, errStoreDown
	}
	for _, s := range m.items {
		if s.SourceURL == url {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScholarshipRepo) Update(ctx context.Context, s *models.Scholarship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return errStoreDown
	}
	copied := *s
	m.items[s.ID.String()] = &copied
	return nil
}

func (m *mockScholarshipRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return errStoreDown
	}
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockScholarshipRepo) List(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return nil, 0, errStoreDown
	}
	out := make([]models.Scholarship, 0, len(m.items))
	for _, s := range m.items {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (m *mockScholarshipRepo) FindStoredURLs(ctx context.Context, urls []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return nil, errStoreDown
	}
	want := make(map[string]bool, len(urls))
	for _, u := range urls {
		want[u] = true
	}
	matched := make([]string, 0)
	for _, s := range m.items {
		if want[s.SourceURL] || want[s.ApplyURL] {
			matched = append(matched, s.SourceURL, s.ApplyURL)
		}
	}
	return matched, nil
}

func (m *mockScholarshipRepo) DistinctCountries(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return nil, errStoreDown
	}
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, s := range m.items {
		if s.Status != models.StatusPublished {
			continue
		}
		if s.Country != "" && !seen[s.Country] {
			seen[s.Country] = true
			out = append(out, s.Country)
		}
	}
	return out, nil
}

func (m *mockScholarshipRepo) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return 0, errStoreDown
	}
	var affected int64
	for _, id := range ids {
		if _, ok := m.items[id]; ok {
			delete(m.items, id)
			affected++
		}
	}
	return affected, nil
}

func (m *mockScholarshipRepo) BulkUpdateStatus(ctx context.Context, ids []string, status string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return 0, errStoreDown
	}
	var affected int64
	for _, id := range ids {
		if s, ok := m.items[id]; ok {
			s.Status = status
			affected++
		}
	}
	return affected, nil
}

func (m *mockScholarshipRepo) FindPublishedCreatedAfter(ctx context.Context, since time.Time) ([]models.Scholarship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return nil, errStoreDown
	}
	out := make([]models.Scholarship, 0)
	for _, s := range m.items {
		if s.Status == models.StatusPublished && s.CreatedAt.After(since) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockScholarshipRepo) ReplaceCategories(ctx context.Context, s *models.Scholarship, categories []models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.items[s.ID.String()]; ok {
		stored.Categories = categories
	}
	return nil
}

func (m *mockScholarshipRepo) bySourceURL(url string) *models.Scholarship {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.items {
		if s.SourceURL == url {
			copied := *s
			return &copied
		}
	}
	return nil
}

// --- Mock category repository ---

type mockCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]models.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[string]models.Category)}
}

func (m *mockCategoryRepo) ListAll(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.categories[slug]; ok {
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.Slug]; ok {
		return errors.New("duplicate key value violates unique constraint")
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.categories[category.Slug] = *category
	return nil
}

func (m *mockCategoryRepo) FindBySlugs(ctx context.Context, slugs []string) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Category, 0, len(slugs))
	for _, slug := range slugs {
		if c, ok := m.categories[slug]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCategoryRepo) Seed(ctx context.Context, defs []models.CategoryDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, def := range defs {
		if _, ok := m.categories[def.Slug]; !ok {
			m.categories[def.Slug] = models.Category{ID: uuid.New(), Name: def.Name, Slug: def.Slug}
		}
	}
	return nil
}

func (m *mockCategoryRepo) ListCountries(ctx context.Context) ([]models.Country, error) {
	return []models.Country{}, nil
}

func (m *mockCategoryRepo) CreateCountry(ctx context.Context, country *models.Country) error {
	return nil
}

// --- Mock sheet fetcher and scraper ---

type mockSheetFetcher struct {
	values [][]string
	err    error
	gate   chan struct{} // when set, FetchRows blocks until the channel closes
}

func (m *mockSheetFetcher) FetchRows(ctx context.Context) ([][]string, error) {
	if m.gate != nil {
		<-m.gate
	}
	return m.values, m.err
}

type mockScraper struct {
	mu    sync.Mutex
	fn    func(url string) (*models.ScrapedScholarship, error)
	calls []string
}

func (m *mockScraper) Scrape(ctx context.Context, url string) (*models.ScrapedScholarship, error) {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(url)
	}
	return &models.ScrapedScholarship{Title: "Scraped " + url, Country: "Internacional"}, nil
}

func (m *mockScraper) callCount(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == url {
			n++
		}
	}
	return n
}

// --- Mock user repository ---

type mockUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	favorites map[string]map[string]bool // userID -> scholarshipID set
	scholRepo *mockScholarshipRepo
	failStore bool
}

func newMockUserRepo(scholRepo *mockScholarshipRepo) *mockUserRepo {
	return &mockUserRepo{
		users:     make(map[string]*models.User),
		favorites: make(map[string]map[string]bool),
		scholRepo: scholRepo,
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return errStoreDown
	}
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	copied := *user
	m.users[user.ID.String()] = &copied
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return nil, errStoreDown
	}
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) FindByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return nil, errStoreDown
	}
	for _, u := range m.users {
		if u.Email == identifier || u.Username == identifier {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (m *mockUserRepo) AddFavorite(ctx context.Context, userID, scholarshipID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return errStoreDown
	}
	if m.favorites[userID] == nil {
		m.favorites[userID] = make(map[string]bool)
	}
	m.favorites[userID][scholarshipID] = true
	return nil
}

func (m *mockUserRepo) RemoveFavorite(ctx context.Context, userID, scholarshipID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return errStoreDown
	}
	delete(m.favorites[userID], scholarshipID)
	return nil
}

func (m *mockUserRepo) ListFavorites(ctx context.Context, userID string) ([]models.Scholarship, error) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.favorites[userID]))
	for id := range m.favorites[userID] {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	out := make([]models.Scholarship, 0, len(ids))
	for _, id := range ids {
		if s, err := m.scholRepo.FindByID(ctx, id); err == nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockUserRepo) IsFavorite(ctx context.Context, userID, scholarshipID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.favorites[userID][scholarshipID], nil
}

// --- Mock alert repository ---

type mockAlertRepo struct {
	mu        sync.Mutex
	alerts    map[string]*models.ScholarshipAlert
	failStore bool
}

func newMockAlertRepo() *mockAlertRepo {
	return &mockAlertRepo{alerts: make(map[string]*models.ScholarshipAlert)}
}

func (m *mockAlertRepo) seed(alert models.ScholarshipAlert) *models.ScholarshipAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	m.alerts[alert.ID.String()] = &alert
	return &alert
}

func (m *mockAlertRepo) Create(ctx context.Context, alert *models.ScholarshipAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return errStoreDown
	}
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	alert.CreatedAt = time.Now()
	copied := *alert
	m.alerts[alert.ID.String()] = &copied
	return nil
}

func (m *mockAlertRepo) FindByUser(ctx context.Context, userID string) ([]models.ScholarshipAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ScholarshipAlert, 0)
	for _, a := range m.alerts {
		if a.UserID.String() == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAlertRepo) FindByIDAndUser(ctx context.Context, id, userID string) (*models.ScholarshipAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok || a.UserID.String() != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *mockAlertRepo) Update(ctx context.Context, alert *models.ScholarshipAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *alert
	m.alerts[alert.ID.String()] = &copied
	return nil
}

func (m *mockAlertRepo) Delete(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok || a.UserID.String() != userID {
		return gorm.ErrRecordNotFound
	}
	delete(m.alerts, id)
	return nil
}

func (m *mockAlertRepo) ListActive(ctx context.Context) ([]models.ScholarshipAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return nil, errStoreDown
	}
	out := make([]models.ScholarshipAlert, 0)
	for _, a := range m.alerts {
		if a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAlertRepo) UpdateLastSent(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.alerts[id]; ok {
		a.LastSentAt = &at
	}
	return nil
}

func (m *mockAlertRepo) lastSent(id string) *time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.alerts[id]; ok {
		return a.LastSentAt
	}
	return nil
}

// --- Mock email sender ---

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type mockEmailSender struct {
	mu       sync.Mutex
	sent     []sentMail
	failSend bool
}

func (m *mockEmailSender) SendEmail(ctx context.Context, to, subject, body string) (sender.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return sender.SendResult{}, errors.New("smtp send failed")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return sender.SendResult{MessageID: "test", SentAt: time.Now()}, nil
}

func (m *mockEmailSender) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
