package controllers

import (
	"net/http"

	"becas-backend/services"

	"github.com/gin-gonic/gin"
)

// FavoriteController handles the user favorites endpoints.
type FavoriteController struct {
	service services.FavoriteService
}

// NewFavoriteController creates a new FavoriteController.
func NewFavoriteController(service services.FavoriteService) *FavoriteController {
	return &FavoriteController{service: service}
}

// List handles GET /user/favorites.
func (fc *FavoriteController) List(ctx *gin.Context) {
	views, svcErr := fc.service.List(ctx.Request.Context(), ctx.GetString("userID"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"favorites": views})
}

// Add handles POST /user/favorites/:id.
func (fc *FavoriteController) Add(ctx *gin.Context) {
	if svcErr := fc.service.Add(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Favorite added"})
}

// Remove handles DELETE /user/favorites/:id.
func (fc *FavoriteController) Remove(ctx *gin.Context) {
	if svcErr := fc.service.Remove(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}
