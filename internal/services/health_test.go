package services

import (
	"context"
	"testing"

	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/localnerve/excel-analyzer/internal/testutil"
)

func TestHealthCheck(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := &config.Config{DBType: "sqlite", StorageDriver: "local", AuthProvider: config.AuthProviderJWT}

	res := HealthCheck(context.Background(), cfg, db, testutil.NewLocalStore(t))
	if res.Status != "healthy" || res.Database != "ok" || res.Storage != "ok" {
		t.Errorf("Expected healthy, got %+v", res)
	}
	if res.AI != "unconfigured" || res.Authorizer != "" {
		t.Errorf("Unexpected optional components %+v", res)
	}

	res = HealthCheck(context.Background(), cfg, db, brokenStore{})
	if res.Status != "unhealthy" || res.Storage != "unreachable" || res.Details["storage_error"] == "" {
		t.Errorf("Expected storage failure, got %+v", res)
	}

	cfg.AuthProvider = config.AuthProviderAuthorizer
	cfg.AuthzURL = "http://127.0.0.1:1"
	res = HealthCheck(context.Background(), cfg, db, testutil.NewLocalStore(t))
	if res.Status != "unhealthy" || res.Authorizer != "unreachable" {
		t.Errorf("Expected authorizer failure, got %+v", res)
	}
}
