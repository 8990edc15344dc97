package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestMigrateRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "blockday-migrate-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up after down: %v", err)
	}

	// The schema must be usable after the round trip.
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	ctx := context.Background()
	sched := sampleSchedule(t)
	if err := repo.SaveSchedule(ctx, sched); err != nil {
		t.Fatalf("save after migrate round trip: %v", err)
	}
	got, err := repo.GetSchedule(ctx, sched.Date)
	if err != nil {
		t.Fatalf("get after migrate round trip: %v", err)
	}
	if len(got.Blocks) != len(sched.Blocks) {
		t.Fatalf("blocks = %d, want %d", len(got.Blocks), len(sched.Blocks))
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "blockday-migrate-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up: %v", err)
	}
}

func TestMigrateDownDropsTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "blockday-migrate-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	_, err = repo.GetSchedule(context.Background(), "2026-09-01")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected missing-table error, got: %v", err)
	}
}
