package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"becas-backend/models"
	"becas-backend/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newImportFixture(repo *mockScholarshipRepo, sheets *mockSheetFetcher, scraper *mockScraper) services.ImportService {
	logger := zap.NewNop()
	scholarships := services.NewScholarshipService(repo, newMockCategoryRepo(), logger)
	return services.NewImportService(repo, sheets, scraper, scholarships, 0, nil, logger)
}

func sheetValues(rows ...[]string) [][]string {
	values := [][]string{
		{"Area", "Bandera", "Pais", "Paises", "Titulo", "Duracion", "URL"},
		{"", "", "", "", "", "", ""},
	}
	return append(values, rows...)
}

func waitForRun(t *testing.T, svc services.ImportService) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return !svc.Status().Running
	}, 2*time.Second, 5*time.Millisecond)
}

// --- Row normalization ---

func TestParseSheetRowsSkipsHeadersAndShortRows(t *testing.T) {
	values := sheetValues(
		[]string{"Ingenieria", "", "Alemania", "Alemania", "Beca A", "2 años", "http://a.com/x"},
		[]string{"too", "short"},
		[]string{"Arte", "", "Francia", "Francia", "", "1 año", "http://b.com/y"},
	)

	rows := services.ParseSheetRows(values)

	assert.Len(t, rows, 1)
	assert.Equal(t, "Beca A", rows[0].Title)
	assert.Equal(t, "Alemania", rows[0].Country)
	assert.Equal(t, "http://a.com/x", rows[0].DetailURL)
	assert.Equal(t, 2, rows[0].RowIndex)
}

func TestParseSheetRowsDeduplicatesByURL(t *testing.T) {
	values := sheetValues(
		[]string{"", "", "Chile", "", "Beca A", "", "http://a.com/x"},
		[]string{"", "", "Chile", "", "Beca A dup", "", "HTTP://A.COM/X"},
		[]string{"", "", "Chile", "", "Beca B", "", "http://a.com/x/extra"},
	)

	rows := services.ParseSheetRows(values)

	assert.Len(t, rows, 2)
	assert.Equal(t, "Beca A", rows[0].Title)
	assert.Equal(t, "http://a.com/x", rows[0].DetailURL)
	assert.Equal(t, "Beca B", rows[1].Title)
}

func TestParseSheetRowsIsIdempotent(t *testing.T) {
	values := sheetValues(
		[]string{"", "", "Chile", "", "Beca A", "", "http://a.com/x"},
		[]string{"", "", "Peru", "", "Beca B", "", "http://b.com/y"},
	)

	first := services.ParseSheetRows(values)
	second := services.ParseSheetRows(values)

	assert.Equal(t, first, second)
}

// --- Duplicate check ---

func TestCheckDuplicatesSlashToggle(t *testing.T) {
	repo := newMockScholarshipRepo()
	repo.seed(models.Scholarship{Title: "Stored", SourceURL: "https://x.com/a"})
	svc := newImportFixture(repo, &mockSheetFetcher{}, &mockScraper{})

	existing, svcErr := svc.CheckDuplicates(context.Background(), []string{
		"https://x.com/a/",
		"https://x.com/a?ref=1",
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, []string{"https://x.com/a/"}, existing)
}

func TestCheckDuplicatesReportsOriginalForm(t *testing.T) {
	repo := newMockScholarshipRepo()
	repo.seed(models.Scholarship{Title: "Stored", SourceURL: "http://b.com/y/"})
	svc := newImportFixture(repo, &mockSheetFetcher{}, &mockScraper{})

	existing, svcErr := svc.CheckDuplicates(context.Background(), []string{"http://b.com/y"})

	assert.Nil(t, svcErr)
	assert.Equal(t, []string{"http://b.com/y"}, existing)
}

func TestCheckDuplicatesMatchesApplyURL(t *testing.T) {
	repo := newMockScholarshipRepo()
	repo.seed(models.Scholarship{Title: "Stored", SourceURL: "http://src.com/1", ApplyURL: "http://apply.com/1"})
	svc := newImportFixture(repo, &mockSheetFetcher{}, &mockScraper{})

	existing, svcErr := svc.CheckDuplicates(context.Background(), []string{"http://apply.com/1/"})

	assert.Nil(t, svcErr)
	assert.Equal(t, []string{"http://apply.com/1/"}, existing)
}

func TestCheckDuplicatesSurfacesStoreError(t *testing.T) {
	repo := newMockScholarshipRepo()
	repo.failStore = true
	svc := newImportFixture(repo, &mockSheetFetcher{}, &mockScraper{})

	existing, svcErr := svc.CheckDuplicates(context.Background(), []string{"http://a.com/x"})

	assert.Nil(t, existing)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 500, svcErr.StatusCode)
}

// --- Session load ---

func TestLoadSessionCounts(t *testing.T) {
	repo := newMockScholarshipRepo()
	repo.seed(models.Scholarship{Title: "Stored", SourceURL: "http://a.com/known"})
	sheets := &mockSheetFetcher{values: sheetValues(
		[]string{"", "", "Chile", "", "Beca Conocida", "", "http://a.com/known"},
		[]string{"", "", "Peru", "", "Beca Nueva", "", "http://a.com/new"},
	)}
	svc := newImportFixture(repo, sheets, &mockScraper{})

	status, svcErr := svc.LoadSession(context.Background())

	assert.Nil(t, svcErr)
	assert.True(t, status.Loaded)
	assert.False(t, status.Running)
	assert.Equal(t, 2, status.Counts.Total)
	assert.Equal(t, 1, status.Counts.Exists)
	assert.Equal(t, 1, status.Counts.New)
	assert.Equal(t, models.RowStatusExists, status.Rows[0].Status)
	assert.Equal(t, models.RowStatusNew, status.Rows[1].Status)
}

func TestLoadSessionSheetFetchError(t *testing.T) {
	sheets := &mockSheetFetcher{err: errors.New("network down")}
	svc := newImportFixture(newMockScholarshipRepo(), sheets, &mockScraper{})

	status, svcErr := svc.LoadSession(context.Background())

	assert.Nil(t, status)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
}

// --- Queue runner ---

func TestRunImportsNewRowsOnly(t *testing.T) {
	repo := newMockScholarshipRepo()
	repo.seed(models.Scholarship{Title: "Stored", SourceURL: "http://a.com/known"})
	sheets := &mockSheetFetcher{values: sheetValues(
		[]string{"", "", "Chile", "", "Beca Conocida", "", "http://a.com/known"},
		[]string{"", "", "Peru", "", "Beca Nueva", "", "http://a.com/new"},
	)}
	scraper := &mockScraper{}
	svc := newImportFixture(repo, sheets, scraper)

	_, svcErr := svc.LoadSession(context.Background())
	assert.Nil(t, svcErr)

	started, svcErr := svc.StartRun()
	assert.Nil(t, svcErr)
	assert.True(t, started)
	waitForRun(t, svc)

	status := svc.Status()
	assert.Equal(t, 1, status.Counts.Imported)
	assert.Equal(t, 1, status.Counts.Exists)
	assert.Equal(t, 0, status.Counts.Failed)
	assert.Equal(t, 0, scraper.callCount("http://a.com/known"))
	assert.Equal(t, 1, scraper.callCount("http://a.com/new"))
	assert.NotNil(t, repo.bySourceURL("http://a.com/new"))
}

func TestRunFallsBackToSheetTitleAndCountry(t *testing.T) {
	repo := newMockScholarshipRepo()
	sheets := &mockSheetFetcher{values: sheetValues(
		[]string{"", "", "Chile", "", "Beca Z", "", "http://a.com/z"},
	)}
	scraper := &mockScraper{fn: func(url string) (*models.ScrapedScholarship, error) {
		return &models.ScrapedScholarship{Title: "", Country: "", Description: "detalle"}, nil
	}}
	svc := newImportFixture(repo, sheets, scraper)

	_, svcErr := svc.LoadSession(context.Background())
	assert.Nil(t, svcErr)
	started, svcErr := svc.StartRun()
	assert.Nil(t, svcErr)
	assert.True(t, started)
	waitForRun(t, svc)

	created := repo.bySourceURL("http://a.com/z")
	assert.NotNil(t, created)
	assert.Equal(t, "Beca Z", created.Title)
	assert.Equal(t, "Chile", created.Country)
	assert.Equal(t, "detalle", created.Description)
}

func TestRunFailureIsolation(t *testing.T) {
	repo := newMockScholarshipRepo()
	sheets := &mockSheetFetcher{values: sheetValues(
		[]string{"", "", "Chile", "", "Beca 1", "", "http://a.com/1"},
		[]string{"", "", "Chile", "", "Beca 2", "", "http://a.com/2"},
		[]string{"", "", "Chile", "", "Beca 3", "", "http://a.com/3"},
	)}
	scraper := &mockScraper{fn: func(url string) (*models.ScrapedScholarship, error) {
		if url == "http://a.com/2" {
			return nil, errors.New("extraction failed")
		}
		return &models.ScrapedScholarship{Title: "Beca " + url}, nil
	}}
	svc := newImportFixture(repo, sheets, scraper)

	_, svcErr := svc.LoadSession(context.Background())
	assert.Nil(t, svcErr)
	started, svcErr := svc.StartRun()
	assert.Nil(t, svcErr)
	assert.True(t, started)
	waitForRun(t, svc)

	status := svc.Status()
	assert.Equal(t, 2, status.Counts.Imported)
	assert.Equal(t, 1, status.Counts.Failed)
	assert.Equal(t, 3, status.Counts.New)
	for _, row := range status.Rows {
		assert.NotEqual(t, models.RowStatusNew, row.Status)
	}
}

func TestNewCountConstantAcrossRun(t *testing.T) {
	repo := newMockScholarshipRepo()
	sheets := &mockSheetFetcher{values: sheetValues(
		[]string{"", "", "Chile", "", "Beca 1", "", "http://a.com/1"},
		[]string{"", "", "Peru", "", "Beca 2", "", "http://a.com/2"},
	)}
	svc := newImportFixture(repo, sheets, &mockScraper{})

	status, svcErr := svc.LoadSession(context.Background())
	assert.Nil(t, svcErr)
	assert.Equal(t, 2, status.Counts.New)

	started, svcErr := svc.StartRun()
	assert.Nil(t, svcErr)
	assert.True(t, started)
	waitForRun(t, svc)

	status = svc.Status()
	assert.Equal(t, 2, status.Counts.New)
	assert.Equal(t, 0, status.Counts.Exists)
	assert.Equal(t, 2, status.Counts.Imported)
	for _, row := range status.Rows {
		assert.Equal(t, models.RowStatusImported, row.Status)
	}
}

func TestRunCreateFailureMarksRowFailed(t *testing.T) {
	repo := newMockScholarshipRepo()
	repo.failCreateFor["http://a.com/bad"] = true
	sheets := &mockSheetFetcher{values: sheetValues(
		[]string{"", "", "Chile", "", "Beca Mala", "", "http://a.com/bad"},
		[]string{"", "", "Chile", "", "Beca Buena", "", "http://a.com/good"},
	)}
	svc := newImportFixture(repo, sheets, &mockScraper{})

	_, svcErr := svc.LoadSession(context.Background())
	assert.Nil(t, svcErr)
	started, svcErr := svc.StartRun()
	assert.Nil(t, svcErr)
	assert.True(t, started)
	waitForRun(t, svc)

	status := svc.Status()
	assert.Equal(t, 1, status.Counts.Imported)
	assert.Equal(t, 1, status.Counts.Failed)
}

func TestRunWithoutLoadedSession(t *testing.T) {
	svc := newImportFixture(newMockScholarshipRepo(), &mockSheetFetcher{}, &mockScraper{})

	started, svcErr := svc.StartRun()

	assert.False(t, started)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestAtMostOneConcurrentRun(t *testing.T) {
	repo := newMockScholarshipRepo()
	sheets := &mockSheetFetcher{values: sheetValues(
		[]string{"", "", "Chile", "", "Beca Lenta", "", "http://a.com/slow"},
	)}
	release := make(chan struct{})
	scraper := &mockScraper{fn: func(url string) (*models.ScrapedScholarship, error) {
		<-release
		return &models.ScrapedScholarship{Title: "Beca Lenta"}, nil
	}}
	svc := newImportFixture(repo, sheets, scraper)

	_, svcErr := svc.LoadSession(context.Background())
	assert.Nil(t, svcErr)

	started, svcErr := svc.StartRun()
	assert.Nil(t, svcErr)
	assert.True(t, started)

	again, svcErr := svc.StartRun()
	assert.Nil(t, svcErr)
	assert.False(t, again)

	close(release)
	waitForRun(t, svc)

	assert.Equal(t, 1, scraper.callCount("http://a.com/slow"))
	assert.Equal(t, 1, svc.Status().Counts.Imported)
}

func TestLoadRejectedWhileRunInProgress(t *testing.T) {
	repo := newMockScholarshipRepo()
	sheets := &mockSheetFetcher{values: sheetValues(
		[]string{"", "", "Chile", "", "Beca Lenta", "", "http://a.com/slow"},
	)}
	scrapeRelease := make(chan struct{})
	scraper := &mockScraper{fn: func(url string) (*models.ScrapedScholarship, error) {
		<-scrapeRelease
		return &models.ScrapedScholarship{Title: "Beca Lenta"}, nil
	}}
	svc := newImportFixture(repo, sheets, scraper)

	_, svcErr := svc.LoadSession(context.Background())
	assert.Nil(t, svcErr)

	// The second load stalls on the sheet fetch while the run starts, so it
	// must not wipe the running session when the fetch completes.
	sheets.gate = make(chan struct{})
	loadResult := make(chan *services.ServiceError, 1)
	go func() {
		_, loadErr := svc.LoadSession(context.Background())
		loadResult <- loadErr
	}()

	started, svcErr := svc.StartRun()
	assert.Nil(t, svcErr)
	assert.True(t, started)

	close(sheets.gate)
	loadErr := <-loadResult
	assert.NotNil(t, loadErr)
	assert.Equal(t, 409, loadErr.StatusCode)
	assert.True(t, svc.Status().Running)

	again, svcErr := svc.StartRun()
	assert.Nil(t, svcErr)
	assert.False(t, again)

	close(scrapeRelease)
	waitForRun(t, svc)
	assert.Equal(t, 1, scraper.callCount("http://a.com/slow"))
	assert.Equal(t, 1, svc.Status().Counts.Imported)
}

func TestFailedItemEligibleForSecondRun(t *testing.T) {
	repo := newMockScholarshipRepo()
	sheets := &mockSheetFetcher{values: sheetValues(
		[]string{"", "", "Chile", "", "Beca Inestable", "", "http://a.com/flaky"},
	)}
	attempts := 0
	scraper := &mockScraper{}
	scraper.fn = func(url string) (*models.ScrapedScholarship, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("temporary failure")
		}
		return &models.ScrapedScholarship{Title: "Beca Inestable"}, nil
	}
	svc := newImportFixture(repo, sheets, scraper)

	_, svcErr := svc.LoadSession(context.Background())
	assert.Nil(t, svcErr)

	started, svcErr := svc.StartRun()
	assert.Nil(t, svcErr)
	assert.True(t, started)
	waitForRun(t, svc)
	assert.Equal(t, 1, svc.Status().Counts.Failed)

	started, svcErr = svc.StartRun()
	assert.Nil(t, svcErr)
	assert.True(t, started)
	waitForRun(t, svc)

	status := svc.Status()
	assert.Equal(t, 1, status.Counts.Imported)
	assert.Equal(t, 0, status.Counts.Failed)
	assert.Equal(t, 2, scraper.callCount("http://a.com/flaky"))
}
