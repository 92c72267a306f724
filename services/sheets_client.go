package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"becas-backend/models"

	"github.com/go-resty/resty/v2"
)

// SheetFetcher retrieves the raw cell grid of the source spreadsheet.
type SheetFetcher interface {
	FetchRows(ctx context.Context) ([][]string, error)
}

type sheetValuesResponse struct {
	Values [][]string `json:"values"`
}

// RestySheetFetcher fetches spreadsheet values over HTTP.
type RestySheetFetcher struct {
	client *resty.Client
	url    string
}

// NewRestySheetFetcher creates a fetcher for the given sheet values URL.
func NewRestySheetFetcher(url string) *RestySheetFetcher {
	client := resty.New().
		SetTimeout(20 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &RestySheetFetcher{client: client, url: url}
}

// FetchRows downloads the sheet and returns its rows.
func (f *RestySheetFetcher) FetchRows(ctx context.Context) ([][]string, error) {
	var body sheetValuesResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch sheet: status %d", resp.StatusCode())
	}
	return body.Values, nil
}

// ParseSheetRows converts the raw cell grid into candidate rows. The first
// two rows are headers. Rows shorter than 7 columns or missing a title or
// detail URL are skipped, and repeated URLs (compared case-insensitively)
// keep only their first occurrence. The emitted URL keeps its original
// casing.
func ParseSheetRows(values [][]string) []models.SheetRow {
	rows := make([]models.SheetRow, 0, len(values))
	seen := make(map[string]struct{})

	for index, row := range values {
		if index < 2 {
			continue
		}
		if len(row) < 7 {
			continue
		}

		title := strings.TrimSpace(cell(row, 4))
		rawURL := strings.TrimSpace(cell(row, 6))
		if title == "" || rawURL == "" {
			continue
		}

		key := strings.ToLower(rawURL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rows = append(rows, models.SheetRow{
			AreaOriginal:  strings.TrimSpace(cell(row, 0)),
			Country:       strings.TrimSpace(cell(row, 2)), // column 1 holds a flag image
			CountriesList: strings.TrimSpace(cell(row, 3)),
			Title:         title,
			Duration:      strings.TrimSpace(cell(row, 5)),
			DetailURL:     rawURL,
			RowIndex:      index,
		})
	}
	return rows
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
