package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/localnerve/excel-analyzer/internal/storage"
	"github.com/localnerve/excel-analyzer/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Storage      string            `json:"storage"`
	AI           string            `json:"ai"`
	Authorizer   string            `json:"authorizer,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

func (r *HealthCheckResult) fail(component, message string, err error) {
	r.Status = "unhealthy"
	r.Details[component+"_error"] = err.Error()
	msg := fmt.Sprintf("%s: %v", message, err)
	if r.ErrorMessage == "" {
		r.ErrorMessage = msg
	} else {
		r.ErrorMessage += "; " + msg
	}
	log.Printf("Health check failed - %s: %v", component, err)
}

// HealthCheck checks the database, the object store and, in session mode,
// Authorizer. A missing AI key is reported but does not fail the check,
// since only summaries depend on it.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, store storage.ObjectStore) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.fail("database", "Database connection error", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		result.fail("database", "Database ping failed", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
	}

	if store == nil {
		result.Storage = "unconfigured"
		result.fail("storage", "Object store missing", fmt.Errorf("no object store"))
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := store.Ping(pingCtx)
		cancel()
		if err != nil {
			result.Storage = "unreachable"
			result.fail("storage", "Object store ping failed", err)
		} else {
			result.Storage = "ok"
			result.Details["storage_driver"] = cfg.StorageDriver
		}
	}

	if cfg.AIAPIKey == "" {
		result.AI = "unconfigured"
	} else {
		result.AI = "ok"
		result.Details["ai_provider"] = cfg.AIProvider
	}

	if cfg.AuthProvider == config.AuthProviderAuthorizer {
		if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
			result.Authorizer = "unreachable"
			result.fail("authorizer", "Authorizer ping failed", err)
		} else {
			result.Authorizer = "ok"
			result.Details["authorizer_url"] = cfg.AuthzURL
		}
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - all systems operational")
	}

	return result
}
