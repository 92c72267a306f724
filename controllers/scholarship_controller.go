package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"becas-backend/models"
	"becas-backend/services"

	"github.com/gin-gonic/gin"
)

// ScholarshipController handles HTTP requests for the scholarship catalog.
type ScholarshipController struct {
	service services.ScholarshipService
	cache   *CacheManager
}

// NewScholarshipController creates a new ScholarshipController.
func NewScholarshipController(service services.ScholarshipService, cache *CacheManager) *ScholarshipController {
	return &ScholarshipController{service: service, cache: cache}
}

// List handles GET /scholarships. Anonymous callers only ever see published
// records; the status filter is honored for admins.
func (sc *ScholarshipController) List(ctx *gin.Context) {
	filter := models.ScholarshipFilter{
		Search:         strings.TrimSpace(ctx.Query("search")),
		Country:        strings.TrimSpace(ctx.Query("country")),
		Category:       strings.TrimSpace(ctx.Query("category")),
		FundingType:    ctx.Query("funding_type"),
		EducationLevel: ctx.Query("education_level"),
	}
	filter.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	if isAdmin(ctx) {
		filter.Status = ctx.Query("status")
	} else {
		filter.Status = models.StatusPublished
	}

	if raw := ctx.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}

	if cached, ok := sc.cache.GetList(ctx.Request.Context(), filter); ok {
		ctx.JSON(http.StatusOK, cached)
		return
	}

	views, total, svcErr := sc.service.List(ctx.Request.Context(), filter)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	response := map[string]any{
		"scholarships": views,
		"total":        total,
		"page":         filter.Page,
		"limit":        filter.Limit,
	}
	sc.cache.SetListAsync(filter, response)
	ctx.JSON(http.StatusOK, response)
}

// Get handles GET /scholarships/:id.
func (sc *ScholarshipController) Get(ctx *gin.Context) {
	view, svcErr := sc.service.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	if view.Status != models.StatusPublished && !isAdmin(ctx) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Scholarship not found"})
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// Create handles POST /scholarships (admin only).
func (sc *ScholarshipController) Create(ctx *gin.Context) {
	var req models.CreateScholarshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	created, svcErr := sc.service.Create(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	sc.cache.Invalidate(ctx.Request.Context())
	ctx.JSON(http.StatusCreated, created)
}

// Update handles PUT /scholarships/:id (admin only).
func (sc *ScholarshipController) Update(ctx *gin.Context) {
	var req models.UpdateScholarshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	updated, svcErr := sc.service.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	sc.cache.Invalidate(ctx.Request.Context())
	ctx.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /scholarships/:id (admin only).
func (sc *ScholarshipController) Delete(ctx *gin.Context) {
	if svcErr := sc.service.Delete(ctx.Request.Context(), ctx.Param("id")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	sc.cache.Invalidate(ctx.Request.Context())
	ctx.JSON(http.StatusOK, gin.H{"message": "Scholarship deleted"})
}

// Bulk handles POST /scholarships/bulk (admin only).
func (sc *ScholarshipController) Bulk(ctx *gin.Context) {
	var req models.BulkScholarshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	affected, svcErr := sc.service.Bulk(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	sc.cache.Invalidate(ctx.Request.Context())
	ctx.JSON(http.StatusOK, gin.H{
		"affected": affected,
		"message":  fmt.Sprintf("%d scholarships updated", affected),
	})
}

// Countries handles GET /countries: the distinct country values of the
// stored catalog, cached separately from listings.
func (sc *ScholarshipController) Countries(ctx *gin.Context) {
	if cached, ok := sc.cache.GetCountries(ctx.Request.Context()); ok {
		ctx.JSON(http.StatusOK, gin.H{"countries": cached})
		return
	}

	countries, svcErr := sc.service.Countries(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	sc.cache.SetCountriesAsync(countries)
	ctx.JSON(http.StatusOK, gin.H{"countries": countries})
}

// isAdmin reports whether the auth middleware tagged this request as an
// administrator session.
func isAdmin(ctx *gin.Context) bool {
	role, ok := ctx.Get("role")
	return ok && role == services.RoleAdmin
}
