package database

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureSchema_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	// 1. Initialize schema
	if err := EnsureSchema(dbPath); err != nil {
		t.Fatalf("First EnsureSchema failed: %v", err)
	}

	// 2. Insert a record
	err := WithDB(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(`INSERT INTO region (code, name) VALUES ('01', '北海道')`)
		return err
	})
	if err != nil {
		t.Fatalf("Failed to insert record: %v", err)
	}

	// 3. Initialize schema again (should not drop table)
	if err := EnsureSchema(dbPath); err != nil {
		t.Fatalf("Second EnsureSchema failed: %v", err)
	}

	// 4. Verify record exists
	var count int
	err = WithDB(dbPath, func(db *sql.DB) error {
		return db.QueryRow("SELECT COUNT(*) FROM region WHERE code = '01'").Scan(&count)
	})
	if err != nil {
		t.Fatalf("Failed to query record: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 record, got %d. Data was likely lost due to table drop.", count)
	}
}

func TestEnsureSchema_WeatherKeyIsUnique(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := EnsureSchema(dbPath); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	err := WithDB(dbPath, func(db *sql.DB) error {
		insert := `INSERT INTO weather (date, area_id, code) VALUES ('2024-06-01', 1, '016010')`
		if _, err := db.Exec(insert); err != nil {
			return err
		}
		_, err := db.Exec(insert)
		return err
	})
	if err == nil {
		t.Error("Expected duplicate (date, area_id, code) to violate the unique index")
	}
}

func TestReset(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "weather.db")

	// Missing file and directory
	if err := Reset(dbPath); err != nil {
		t.Fatalf("Reset on missing file failed: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Fatalf("Expected data directory to exist: %v", err)
	}

	if err := EnsureSchema(dbPath); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	if err := Reset(dbPath); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Errorf("Expected database file to be removed, stat err = %v", err)
	}
}

func TestWithDB_ClosesOnError(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	sentinel := errors.New("boom")

	var opened *sql.DB
	err := WithDB(dbPath, func(db *sql.DB) error {
		opened = db
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithDB() error = %v, want %v", err, sentinel)
	}
	if pingErr := opened.Ping(); pingErr == nil {
		t.Error("Expected connection to be closed after WithDB returned")
	}
}
