package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"becas-backend/models"
	"becas-backend/repository"

	"go.uber.org/zap"
)

// ImportService drives the spreadsheet import workflow: loading candidate
// rows, checking them against the store, and running the sequential
// scrape-and-save queue.
type ImportService interface {
	CheckDuplicates(ctx context.Context, urls []string) ([]string, *ServiceError)
	LoadSession(ctx context.Context) (*models.ImportStatusResponse, *ServiceError)
	StartRun() (bool, *ServiceError)
	Status() *models.ImportStatusResponse
}

// importSession is the state of one admin import, kept in memory between
// the load, run and status calls.
type importSession struct {
	loaded   bool
	running  bool
	rows     []models.SheetRow
	existing map[string]bool
	imported map[string]bool
	failed   map[string]bool
}

// importServiceImpl implements ImportService.
type importServiceImpl struct {
	repo         repository.ScholarshipRepository
	sheets       SheetFetcher
	scraper      Scraper
	scholarships ScholarshipService
	logger       *zap.Logger

	delay       time.Duration
	sleep       func(time.Duration)
	onRunFinish func()

	mu      sync.Mutex
	session importSession
}

// NewImportService creates a new ImportService. delay is the pause between
// queue items; onRunFinish, if non-nil, runs after every queue run (used to
// drop stale listing caches).
func NewImportService(
	repo repository.ScholarshipRepository,
	sheets SheetFetcher,
	scraper Scraper,
	scholarships ScholarshipService,
	delay time.Duration,
	onRunFinish func(),
	logger *zap.Logger,
) ImportService {
	return &importServiceImpl{
		repo:         repo,
		sheets:       sheets,
		scraper:      scraper,
		scholarships: scholarships,
		logger:       logger,
		delay:        delay,
		sleep:        time.Sleep,
		onRunFinish:  onRunFinish,
	}
}

// CheckDuplicates reports which of the given URLs already exist in the
// store. Each URL is matched with and without a trailing slash against both
// stored URL columns, and matches are reported in their original request
// form. A store failure is surfaced, not swallowed, so the caller never
// mistakes an outage for a clean sheet.
func (s *importServiceImpl) CheckDuplicates(ctx context.Context, urls []string) ([]string, *ServiceError) {
	if len(urls) == 0 {
		return []string{}, nil
	}

	// variation -> original request URL
	variations := make([]string, 0, len(urls)*2)
	origin := make(map[string]string, len(urls)*2)
	for _, u := range urls {
		for _, v := range urlVariations(u) {
			if _, seen := origin[v]; !seen {
				origin[v] = u
				variations = append(variations, v)
			}
		}
	}

	stored, err := s.repo.FindStoredURLs(ctx, variations)
	if err != nil {
		s.logger.Error("Duplicate check failed", zap.Int("urls", len(urls)), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to check existing URLs"}
	}

	found := make(map[string]struct{})
	existing := make([]string, 0)
	for _, u := range stored {
		original, ok := origin[u]
		if !ok {
			continue
		}
		if _, dup := found[original]; dup {
			continue
		}
		found[original] = struct{}{}
		existing = append(existing, original)
	}
	return existing, nil
}

// urlVariations returns the URL itself plus its trailing-slash toggle.
func urlVariations(u string) []string {
	if strings.HasSuffix(u, "/") {
		return []string{u, strings.TrimSuffix(u, "/")}
	}
	return []string{u, u + "/"}
}

// LoadSession fetches the spreadsheet, normalizes its rows and checks them
// against the store. It replaces any previous session unless a run is in
// progress.
func (s *importServiceImpl) LoadSession(ctx context.Context) (*models.ImportStatusResponse, *ServiceError) {
	s.mu.Lock()
	if s.session.running {
		s.mu.Unlock()
		return nil, &ServiceError{StatusCode: 409, Message: "An import run is in progress"}
	}
	s.mu.Unlock()

	values, err := s.sheets.FetchRows(ctx)
	if err != nil {
		s.logger.Error("Sheet fetch failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to fetch source sheet"}
	}

	rows := ParseSheetRows(values)

	urls := make([]string, 0, len(rows))
	for _, row := range rows {
		urls = append(urls, row.DetailURL)
	}
	existingList, svcErr := s.CheckDuplicates(ctx, urls)
	if svcErr != nil {
		return nil, svcErr
	}
	existing := make(map[string]bool, len(existingList))
	for _, u := range existingList {
		existing[u] = true
	}

	s.mu.Lock()
	// A run may have started while the sheet was being fetched. Replacing
	// the session here would clear its running flag and let a second queue
	// start, so the load is rejected instead.
	if s.session.running {
		s.mu.Unlock()
		return nil, &ServiceError{StatusCode: 409, Message: "An import run is in progress"}
	}
	s.session = importSession{
		loaded:   true,
		rows:     rows,
		existing: existing,
		imported: make(map[string]bool),
		failed:   make(map[string]bool),
	}
	status := s.statusLocked()
	s.mu.Unlock()

	s.logger.Info("Import session loaded",
		zap.Int("candidates", len(rows)),
		zap.Int("existing", len(existingList)),
	)
	return status, nil
}

// StartRun launches the sequential import queue in the background. It
// returns false without error when a run is already active.
func (s *importServiceImpl) StartRun() (bool, *ServiceError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.loaded {
		return false, &ServiceError{StatusCode: 400, Message: "No import session loaded"}
	}
	if s.session.running {
		return false, nil
	}

	// Work list: candidates neither stored nor imported this session.
	// Failed items stay eligible so a second run retries them.
	work := make([]models.SheetRow, 0, len(s.session.rows))
	for _, row := range s.session.rows {
		if s.session.existing[row.DetailURL] || s.session.imported[row.DetailURL] {
			continue
		}
		work = append(work, row)
	}
	if len(work) == 0 {
		return false, &ServiceError{StatusCode: 400, Message: "Nothing to import"}
	}

	s.session.running = true
	go s.runQueue(work)
	return true, nil
}

// runQueue processes the work list one item at a time. A per-item failure
// is recorded and the queue moves on.
func (s *importServiceImpl) runQueue(work []models.SheetRow) {
	ctx := context.Background()
	imported, failed := 0, 0

	for _, row := range work {
		if err := s.importOne(ctx, row); err != nil {
			s.logger.Error("Import item failed",
				zap.String("url", row.DetailURL),
				zap.Int("row", row.RowIndex),
				zap.Error(err),
			)
			s.markFailed(row.DetailURL)
			failed++
		} else {
			s.markImported(row.DetailURL)
			imported++
		}
		s.sleep(s.delay)
	}

	s.mu.Lock()
	s.session.running = false
	s.mu.Unlock()

	if s.onRunFinish != nil {
		s.onRunFinish()
	}
	s.logger.Info("Import run finished",
		zap.Int("attempted", len(work)),
		zap.Int("imported", imported),
		zap.Int("failed", failed),
	)
}

// importOne scrapes a candidate, backfills title and country from the sheet
// row, and persists the merged record.
func (s *importServiceImpl) importOne(ctx context.Context, row models.SheetRow) error {
	scraped, err := s.scraper.Scrape(ctx, row.DetailURL)
	if err != nil {
		return err
	}

	if strings.TrimSpace(scraped.Title) == "" {
		scraped.Title = row.Title
	}
	if strings.TrimSpace(scraped.Country) == "" {
		scraped.Country = row.Country
	}

	req := &models.CreateScholarshipRequest{
		Title:          scraped.Title,
		Description:    scraped.Description,
		Country:        scraped.Country,
		ApplyURL:       scraped.ApplyURL,
		OfficialURL:    scraped.OfficialURL,
		SourceURL:      row.DetailURL,
		FundingType:    scraped.FundingType,
		EducationLevel: scraped.EducationLevel,
		Areas:          scraped.Areas,
		Benefits:       scraped.Benefits,
		Requirements:   scraped.Requirements,
		Duration:       scraped.Duration,
		Status:         scraped.Status,
		CategorySlugs:  scraped.CategorySlugs,
		RawData:        scraped.RawData,
	}
	if scraped.Deadline != nil {
		req.Deadline = *scraped.Deadline
	}
	if scraped.StartDate != nil {
		req.StartDate = *scraped.StartDate
	}

	if _, svcErr := s.scholarships.Create(ctx, req); svcErr != nil {
		return svcErr
	}
	return nil
}

func (s *importServiceImpl) markImported(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.imported[url] = true
	delete(s.session.failed, url)
}

func (s *importServiceImpl) markFailed(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.failed[url] = true
}

// Status reports the current session's rows and counts.
func (s *importServiceImpl) Status() *models.ImportStatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// statusLocked builds the status response. Callers must hold s.mu.
func (s *importServiceImpl) statusLocked() *models.ImportStatusResponse {
	resp := &models.ImportStatusResponse{
		Loaded:  s.session.loaded,
		Running: s.session.running,
		Rows:    make([]models.ImportRowView, 0, len(s.session.rows)),
	}
	for _, row := range s.session.rows {
		status := models.RowStatusNew
		switch {
		case s.session.imported[row.DetailURL]:
			status = models.RowStatusImported
			resp.Counts.Imported++
		case s.session.failed[row.DetailURL]:
			status = models.RowStatusFailed
			resp.Counts.Failed++
		case s.session.existing[row.DetailURL]:
			status = models.RowStatusExists
		}
		// New and Exists partition the candidates and stay constant across
		// a run; Imported and Failed track queue progress.
		if s.session.existing[row.DetailURL] {
			resp.Counts.Exists++
		} else {
			resp.Counts.New++
		}
		resp.Rows = append(resp.Rows, models.ImportRowView{SheetRow: row, Status: status})
	}
	resp.Counts.Total = len(s.session.rows)
	return resp
}
