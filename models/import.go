package models

// SheetRow is a candidate scholarship parsed from one spreadsheet row. Rows
// live only for the duration of an import session and are never persisted.
type SheetRow struct {
	AreaOriginal  string `json:"area_original"`
	Country       string `json:"country"`
	CountriesList string `json:"countries_list"`
	Title         string `json:"title"`
	Duration      string `json:"duration"`
	DetailURL     string `json:"detail_url"`
	RowIndex      int    `json:"row_index"`
}

// Per-row import statuses reported by GET /admin/import/status.
// Precedence: imported > failed > exists > new.
const (
	RowStatusNew      = "new"
	RowStatusExists   = "exists"
	RowStatusImported = "imported"
	RowStatusFailed   = "failed"
)

// ScrapedScholarship is the structured record returned by the extraction
// service for a single detail URL. Dates arrive as YYYY-MM-DD strings.
type ScrapedScholarship struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Country        string   `json:"country"`
	Deadline       *string  `json:"deadline"`
	StartDate      *string  `json:"start_date"`
	FundingType    string   `json:"funding_type"`
	EducationLevel string   `json:"education_level"`
	Areas          string   `json:"areas"`
	Benefits       string   `json:"benefits"`
	Requirements   string   `json:"requirements"`
	Duration       string   `json:"duracion"`
	ApplyURL       string   `json:"apply_url"`
	OfficialURL    string   `json:"official_url"`
	Status         string   `json:"status"`
	SourceURL      string   `json:"source_url"`
	CategorySlugs  []string `json:"category_slugs"`
	RawData        string   `json:"raw_data"`
}

// CheckURLsRequest is the payload of POST /scholarships/check.
type CheckURLsRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// CheckURLsResponse lists the request URLs already present in the store.
type CheckURLsResponse struct {
	ExistingURLs []string `json:"existing_urls"`
}

// ImportRowView is one row of the import status table.
type ImportRowView struct {
	SheetRow
	Status string `json:"status"`
}

// ImportCounts summarises an import session. New and Exists partition the
// candidate rows against the store check at load time; Imported and Failed
// track queue progress.
type ImportCounts struct {
	Total    int `json:"total"`
	New      int `json:"new"`
	Exists   int `json:"exists"`
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// ImportStatusResponse is the payload of GET /admin/import/status.
type ImportStatusResponse struct {
	Loaded  bool            `json:"loaded"`
	Running bool            `json:"running"`
	Counts  ImportCounts    `json:"counts"`
	Rows    []ImportRowView `json:"rows"`
}
