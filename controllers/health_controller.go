package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adcut-studio/adcut-api/config"
)

// HealthCheck handles GET /api/v1/health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "AdCut API is running",
	})
}

// DatabaseStatus handles GET /api/v1/database/status - checks connectivity and lists tables
func DatabaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		writeError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Database is not initialized", nil)
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to get database instance", nil)
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		writeError(c, http.StatusInternalServerError, "DATABASE_CONNECTION_ERROR", "Database connection failed", nil)
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DATABASE_QUERY_ERROR", "Failed to query tables", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
