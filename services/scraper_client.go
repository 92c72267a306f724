package services

import (
	"context"
	"fmt"
	"time"

	"becas-backend/models"

	"github.com/go-resty/resty/v2"
)

// Scraper extracts a structured scholarship record from a detail URL.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*models.ScrapedScholarship, error)
}

type scrapeRequest struct {
	URL string `json:"url"`
}

type scrapeErrorResponse struct {
	Error string `json:"error"`
}

// RestyScraper calls the external extraction service over HTTP.
type RestyScraper struct {
	client *resty.Client
	url    string
}

// NewRestyScraper creates a scraper client for the given endpoint.
func NewRestyScraper(url string) *RestyScraper {
	client := resty.New().
		SetTimeout(90 * time.Second)
	return &RestyScraper{client: client, url: url}
}

// Scrape posts the detail URL and decodes the extracted record. A non-2xx
// response is returned as an error carrying the service's message.
func (s *RestyScraper) Scrape(ctx context.Context, url string) (*models.ScrapedScholarship, error) {
	var scraped models.ScrapedScholarship
	var apiErr scrapeErrorResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(scrapeRequest{URL: url}).
		SetResult(&scraped).
		SetError(&apiErr).
		Post(s.url)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", url, err)
	}
	if resp.IsError() {
		if apiErr.Error != "" {
			return nil, fmt.Errorf("scrape %s: %s", url, apiErr.Error)
		}
		return nil, fmt.Errorf("scrape %s: status %d", url, resp.StatusCode())
	}
	return &scraped, nil
}
