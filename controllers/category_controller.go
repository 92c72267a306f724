package controllers

import (
	"errors"
	"net/http"
	"strings"

	"becas-backend/models"
	"becas-backend/repository"
	"becas-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryController serves the category taxonomy.
type CategoryController struct {
	repo repository.CategoryRepository
}

// NewCategoryController creates a new CategoryController.
func NewCategoryController(repo repository.CategoryRepository) *CategoryController {
	return &CategoryController{repo: repo}
}

// List handles GET /categories.
func (cc *CategoryController) List(ctx *gin.Context) {
	categories, err := cc.repo.ListAll(ctx.Request.Context())
	if err != nil {
		zap.L().Error("Failed to list categories", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Create handles POST /categories. Posting a name whose slug already exists
// returns the existing record instead of a conflict.
func (cc *CategoryController) Create(ctx *gin.Context) {
	var req models.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	slug := services.Slugify(req.Name)
	if slug == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name produces an empty slug"})
		return
	}

	existing, err := cc.repo.FindBySlug(ctx.Request.Context(), slug)
	if err == nil {
		ctx.JSON(http.StatusOK, gin.H{"category": existing})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		zap.L().Error("Failed to look up category", zap.String("slug", slug), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	category := &models.Category{Name: strings.TrimSpace(req.Name), Slug: slug}
	if err := cc.repo.Create(ctx.Request.Context(), category); err != nil {
		zap.L().Error("Failed to create category", zap.String("slug", slug), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"category": category})
}

// ListCountries handles GET /admin/countries: the curated country table, as
// opposed to the public distinct-country filter list.
func (cc *CategoryController) ListCountries(ctx *gin.Context) {
	countries, err := cc.repo.ListCountries(ctx.Request.Context())
	if err != nil {
		zap.L().Error("Failed to list countries", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list countries"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"countries": countries})
}

// CreateCountry handles POST /countries.
func (cc *CategoryController) CreateCountry(ctx *gin.Context) {
	var req models.CreateCountryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	slug := services.Slugify(req.Name)
	if slug == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name produces an empty slug"})
		return
	}

	country := &models.Country{
		Name:    strings.TrimSpace(req.Name),
		Slug:    slug,
		ISOCode: strings.ToUpper(strings.TrimSpace(req.ISOCode)),
	}
	if err := cc.repo.CreateCountry(ctx.Request.Context(), country); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			ctx.JSON(http.StatusConflict, gin.H{"error": "A country with this name already exists"})
			return
		}
		zap.L().Error("Failed to create country", zap.String("slug", slug), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create country"})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"country": country})
}
