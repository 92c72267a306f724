package routes

import (
	"becas-backend/controllers"
	"becas-backend/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything route registration needs.
type Controllers struct {
	Scholarships *controllers.ScholarshipController
	Imports      *controllers.ImportController
	Auth         *controllers.AuthController
	Favorites    *controllers.FavoriteController
	Alerts       *controllers.AlertController
	Categories   *controllers.CategoryController
}

// Register sets up all application routes.
func Register(r *gin.Engine, c Controllers, jwtSecret string) {
	// Public catalog. OptionalAuth lets admin sessions see unpublished
	// records through the same endpoints.
	catalog := r.Group("")
	catalog.Use(middleware.OptionalAuth(jwtSecret))
	catalog.GET("/scholarships", c.Scholarships.List)
	catalog.GET("/scholarships/:id", c.Scholarships.Get)
	catalog.GET("/categories", c.Categories.List)
	catalog.GET("/countries", c.Scholarships.Countries)

	// Session endpoints.
	auth := r.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	auth.POST("/register", c.Auth.Register)
	auth.POST("/login", c.Auth.Login)
	auth.POST("/admin/login", c.Auth.AdminLogin)
	auth.POST("/logout", c.Auth.Logout)
	auth.GET("/me", middleware.Auth(jwtSecret), c.Auth.Me)

	// Authenticated user features.
	user := r.Group("/user")
	user.Use(middleware.Auth(jwtSecret))
	user.GET("/favorites", c.Favorites.List)
	user.POST("/favorites/:id", c.Favorites.Add)
	user.DELETE("/favorites/:id", c.Favorites.Remove)
	user.GET("/alerts", c.Alerts.List)
	user.POST("/alerts", c.Alerts.Create)
	user.PUT("/alerts/:id", c.Alerts.Update)
	user.DELETE("/alerts/:id", c.Alerts.Delete)

	// Admin back office.
	admin := r.Group("")
	admin.Use(middleware.Auth(jwtSecret), middleware.AdminOnly())
	admin.POST("/scholarships", c.Scholarships.Create)
	admin.PUT("/scholarships/:id", c.Scholarships.Update)
	admin.DELETE("/scholarships/:id", c.Scholarships.Delete)
	admin.POST("/scholarships/bulk", c.Scholarships.Bulk)
	admin.POST("/scholarships/check", c.Imports.Check)
	admin.POST("/categories", c.Categories.Create)
	admin.POST("/countries", c.Categories.CreateCountry)
	admin.GET("/admin/countries", c.Categories.ListCountries)
	admin.POST("/admin/import/load", c.Imports.Load)
	admin.POST("/admin/import/run", c.Imports.Run)
	admin.GET("/admin/import/status", c.Imports.Status)
	admin.POST("/admin/scrape", c.Imports.Scrape)

	// Scheduler trigger; authenticated by bearer secret inside the handler.
	r.GET("/cron/process-alerts", c.Alerts.ProcessAlerts)
}
