package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController reports service and database health
type HealthController struct {
	db *gorm.DB
}

// NewHealthController creates a health controller
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// HealthCheck handles GET /api/v1/health
func (ctl *HealthController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "FixNow API is running",
	})
}

// DatabaseStatus handles GET /api/v1/database/status - checks connectivity and lists tables
func (ctl *HealthController) DatabaseStatus(c *gin.Context) {
	sqlDB, err := ctl.db.DB()
	if err != nil {
		respondFailure(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to get database instance")
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		log.Printf("Database ping failed: %v", err)
		respondFailure(c, http.StatusServiceUnavailable, "DATABASE_CONNECTION_ERROR", "Database connection failed")
		return
	}

	tables, err := ctl.db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		respondFailure(c, http.StatusInternalServerError, "DATABASE_QUERY_ERROR", "Failed to query tables")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
