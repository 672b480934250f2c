package services

import (
	"fmt"
	"log"
	"time"

	"github.com/plotvista/plotvista/internal/config"
	"github.com/plotvista/plotvista/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck reports service health, currently database connectivity.
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// sqlite is file-backed and has no host to reach
	if cfg.DBType != "sqlite" {
		dbURL := fmt.Sprintf("tcp://%s:%s", cfg.DBHost, cfg.DBPort)
		if err := utils.PingService(dbURL, 1500*time.Millisecond); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_dial_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database host unreachable: %v", err)
			log.Printf("Health check failed - database dial: %v", err)
			return result
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
		return result
	}

	if err := sqlDB.Ping(); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		log.Printf("Health check failed - database ping: %v", err)
		return result
	}

	result.Database = "ok"
	result.Details["database_type"] = cfg.DBType
	result.Details["database_name"] = cfg.DBDatabase
	return result
}
