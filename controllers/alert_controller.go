package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"becas-backend/models"
	"becas-backend/services"

	"github.com/gin-gonic/gin"
)

// AlertController handles the saved-search alert endpoints plus the cron
// digest trigger.
type AlertController struct {
	service    services.AlertService
	cronSecret string
}

// NewAlertController creates a new AlertController.
func NewAlertController(service services.AlertService, cronSecret string) *AlertController {
	return &AlertController{service: service, cronSecret: cronSecret}
}

// List handles GET /user/alerts.
func (alc *AlertController) List(ctx *gin.Context) {
	views, svcErr := alc.service.List(ctx.Request.Context(), ctx.GetString("userID"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"alerts": views})
}

// Create handles POST /user/alerts.
func (alc *AlertController) Create(ctx *gin.Context) {
	var req models.CreateAlertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	view, svcErr := alc.service.Create(ctx.Request.Context(), ctx.GetString("userID"), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, view)
}

// Update handles PUT /user/alerts/:id.
func (alc *AlertController) Update(ctx *gin.Context) {
	var req models.UpdateAlertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	view, svcErr := alc.service.Update(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id"), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// Delete handles DELETE /user/alerts/:id.
func (alc *AlertController) Delete(ctx *gin.Context) {
	if svcErr := alc.service.Delete(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id")); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Alert deleted"})
}

// ProcessAlerts handles GET /cron/process-alerts. The scheduler authenticates
// with a bearer secret, not a session.
func (alc *AlertController) ProcessAlerts(ctx *gin.Context) {
	if alc.cronSecret == "" {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cron secret not configured"})
		return
	}
	supplied := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(alc.cronSecret)) != 1 {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, svcErr := alc.service.ProcessAlerts(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}
