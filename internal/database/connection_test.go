package database

import (
	"path/filepath"
	"testing"

	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/localnerve/excel-analyzer/internal/models"
)

func TestDialectorSwitch(t *testing.T) {
	cases := map[string]string{
		"mysql":     "mysql",
		"mariadb":   "mysql",
		"postgres":  "postgres",
		"sqlite":    "sqlite",
		"sqlite3":   "sqlite",
		"sqlserver": "sqlserver",
	}
	for dbType, want := range cases {
		d, err := Dialector(&config.Config{DBType: dbType, DBDatabase: "x"})
		if err != nil {
			t.Errorf("%s: unexpected error %v", dbType, err)
			continue
		}
		if d.Name() != want {
			t.Errorf("%s: expected dialector %s, got %s", dbType, want, d.Name())
		}
	}

	if _, err := Dialector(&config.Config{DBType: "oracle"}); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestConnectSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		DBType:            "sqlite",
		DBDatabase:        filepath.Join(t.TempDir(), "analyzer.db"),
		DBConnectionLimit: 2,
	}

	db, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer Close(db)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	for _, table := range []string{"users", "files", "analyses"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s", table)
		}
	}
	if err := Ping(db); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	if err := db.Create(&models.User{Name: "Ann", Email: "ann@example.com"}).Error; err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	var count int64
	if err := Reader(db, "test.count").Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("Tagged count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}

	if UseIndex(db, "idx_files_owner_created") != db {
		t.Error("Index hints should be skipped outside MySQL")
	}
	if !SupportsTransactions(db) {
		t.Error("SQLite supports transactions")
	}
}
