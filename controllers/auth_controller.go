package controllers

import (
	"net/http"

	"becas-backend/models"
	"becas-backend/services"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "session"

// AuthController handles registration, login and session endpoints.
type AuthController struct {
	service      services.AuthService
	cookieSecure bool
}

// NewAuthController creates a new AuthController. cookieSecure marks session
// cookies Secure (disable only for local development over plain HTTP).
func NewAuthController(service services.AuthService, cookieSecure bool) *AuthController {
	return &AuthController{service: service, cookieSecure: cookieSecure}
}

// Register handles POST /auth/register. A fresh account is logged in right
// away through the session cookie.
func (ac *AuthController) Register(ctx *gin.Context) {
	var req models.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	token, user, svcErr := ac.service.Register(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ac.setSession(ctx, token, 30*24*3600)
	ctx.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /auth/login. The session token travels in an HttpOnly
// cookie, not the response body.
func (ac *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	token, user, svcErr := ac.service.Login(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ac.setSession(ctx, token, 30*24*3600)
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// AdminLogin handles POST /auth/admin/login.
func (ac *AuthController) AdminLogin(ctx *gin.Context) {
	var req models.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	token, svcErr := ac.service.AdminLogin(&req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ac.setSession(ctx, token, 7*24*3600)
	ctx.JSON(http.StatusOK, gin.H{"role": services.RoleAdmin})
}

// Logout handles POST /auth/logout.
func (ac *AuthController) Logout(ctx *gin.Context) {
	ac.setSession(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me handles GET /auth/me.
func (ac *AuthController) Me(ctx *gin.Context) {
	userID := ctx.GetString("userID")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if ctx.GetString("role") == services.RoleAdmin {
		ctx.JSON(http.StatusOK, gin.H{"role": services.RoleAdmin, "username": userID})
		return
	}

	user, svcErr := ac.service.Me(ctx.Request.Context(), userID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user, "role": services.RoleUser})
}

func (ac *AuthController) setSession(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(sessionCookie, token, maxAge, "/", "", ac.cookieSecure, true)
}
