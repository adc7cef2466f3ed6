package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatihsenyuz/Randevu/internal/domain"
	"github.com/fatihsenyuz/Randevu/internal/repo"
)

func TestLoadEnvFile(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("RANDEVU_TEST_A=from-file\nRANDEVU_TEST_B=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RANDEVU_TEST_A", "from-env")
	t.Setenv("RANDEVU_TEST_B", "")
	os.Unsetenv("RANDEVU_TEST_B")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("RANDEVU_TEST_A"); got != "from-env" {
		t.Fatalf("existing variable overridden: %q", got)
	}
	if got := os.Getenv("RANDEVU_TEST_B"); got != "from-file" {
		t.Fatalf("file variable not applied: %q", got)
	}
}

func TestMigrateCommand_CreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "randevu.db")
	t.Setenv("DB_PATH", dbPath)

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"migrate", "--env-file", ""})
	if err := root.Execute(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out.String(), dbPath) {
		t.Fatalf("unexpected output %q", out.String())
	}

	db, err := repo.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer closeDB(db)
	for _, m := range []any{&domain.Service{}, &domain.Appointment{}, &domain.Transaction{}, &domain.Settings{}, &domain.Idempotency{}} {
		if !db.Migrator().HasTable(m) {
			t.Fatalf("table for %T missing", m)
		}
	}
}

func TestMigrateCommand_BadConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	root := newRootCommand()
	root.SetArgs([]string{"migrate", "--env-file", ""})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected configuration error")
	}
}

func TestPurgeIdempotency_RemovesExpired(t *testing.T) {
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "purge.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer closeDB(db)
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	if _, err := repo.CreateIdempotency(ctx, db, "POST /api/appointments", "old", "a1", 201, time.Millisecond); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.CreateIdempotency(ctx, db, "POST /api/appointments", "fresh", "a2", 201, time.Hour); err != nil {
		t.Fatalf("seed: %v", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		purgeIdempotency(runCtx, db, 10*time.Millisecond, func() time.Time { return time.Now().Add(time.Minute) })
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		var n int64
		db.Model(&domain.Idempotency{}).Count(&n)
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expired key not purged, %d rows left", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	if _, err := repo.GetIdempotency(ctx, db, "POST /api/appointments", "fresh", time.Now()); err != nil {
		t.Fatalf("fresh key should survive: %v", err)
	}
}
