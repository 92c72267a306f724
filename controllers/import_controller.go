package controllers

import (
	"net/http"

	"becas-backend/models"
	"becas-backend/services"

	"github.com/gin-gonic/gin"
)

// ImportController handles the admin bulk import endpoints.
type ImportController struct {
	service services.ImportService
	scraper services.Scraper
}

// NewImportController creates a new ImportController.
func NewImportController(service services.ImportService, scraper services.Scraper) *ImportController {
	return &ImportController{service: service, scraper: scraper}
}

// Check handles POST /scholarships/check: which of the given URLs already
// exist in the catalog.
func (ic *ImportController) Check(ctx *gin.Context) {
	var req models.CheckURLsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	existing, svcErr := ic.service.CheckDuplicates(ctx.Request.Context(), req.URLs)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, models.CheckURLsResponse{ExistingURLs: existing})
}

// Load handles POST /admin/import/load: fetch the source sheet and
// build a fresh import session.
func (ic *ImportController) Load(ctx *gin.Context) {
	status, svcErr := ic.service.LoadSession(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, status)
}

// Run handles POST /admin/import/run: start the queue.
func (ic *ImportController) Run(ctx *gin.Context) {
	started, svcErr := ic.service.StartRun()
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	if !started {
		ctx.JSON(http.StatusConflict, gin.H{"error": "A run is already in progress"})
		return
	}
	ctx.JSON(http.StatusAccepted, gin.H{"started": true})
}

// Status handles GET /admin/import/status.
func (ic *ImportController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, ic.service.Status())
}

// Scrape handles POST /admin/scrape: one-off extraction of a single URL so
// an admin can prefill the editing form.
func (ic *ImportController) Scrape(ctx *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required,url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	scraped, err := ic.scraper.Scrape(ctx.Request.Context(), req.URL)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, scraped)
}
