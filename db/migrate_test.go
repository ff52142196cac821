package main

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-migrate/migrate/v4"
)

type fakeMigrator struct {
	upCalled    bool
	downCalled  bool
	stepsArg    *int
	forceArg    *int
	returnError error
}

func (f *fakeMigrator) Up() error {
	f.upCalled = true
	return f.returnError
}

func (f *fakeMigrator) Down() error {
	f.downCalled = true
	return f.returnError
}

func (f *fakeMigrator) Steps(n int) error {
	f.stepsArg = &n
	return f.returnError
}

func (f *fakeMigrator) Force(version int) error {
	f.forceArg = &version
	return f.returnError
}

func withFakeMigrator(t *testing.T, f *fakeMigrator) {
	t.Helper()
	orig := newMigrator
	newMigrator = func(db *sql.DB) (migrator, error) { return f, nil }
	t.Cleanup(func() { newMigrator = orig })
}

func testDeps(t *testing.T) deps {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return deps{
		loadEnv: func(...string) error { return nil },
		getenv: func(key string) string {
			if key == "DATABASE_URL" {
				return "postgres://localhost/test?sslmode=disable"
			}
			return ""
		},
		openDB:   func(driverName, dataSourceName string) (*sql.DB, error) { return db, nil },
		migrateF: performMigrations,
	}
}

func TestParseArgs(t *testing.T) {
	o, err := parseArgs([]string{"-direction=down", "-steps=2"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if o.direction != "down" || o.steps != 2 || o.force != -1 {
		t.Fatalf("unexpected options %#v", o)
	}

	if _, err := parseArgs([]string{"-direction=sideways"}); err == nil {
		t.Fatal("expected error for invalid direction")
	}
}

func TestRun_RequiresDatabaseURL(t *testing.T) {
	d := testDeps(t)
	d.getenv = func(string) string { return "" }

	_, err := run([]string{"-direction=up"}, d)
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error got %v", err)
	}
}

func TestRun_UpAll(t *testing.T) {
	f := &fakeMigrator{}
	withFakeMigrator(t, f)

	msg, err := run([]string{"-direction=up"}, testDeps(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !f.upCalled {
		t.Fatal("expected Up to be called")
	}
	if !strings.Contains(msg, "completed successfully") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRun_DownWithSteps(t *testing.T) {
	f := &fakeMigrator{}
	withFakeMigrator(t, f)

	_, err := run([]string{"-direction=down", "-steps=3"}, testDeps(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if f.downCalled {
		t.Fatal("Down should not be called when steps are given")
	}
	if f.stepsArg == nil || *f.stepsArg != -3 {
		t.Fatalf("expected Steps(-3) got %v", f.stepsArg)
	}
}

func TestRun_NoChangeIsNotAnError(t *testing.T) {
	f := &fakeMigrator{returnError: migrate.ErrNoChange}
	withFakeMigrator(t, f)

	msg, err := run([]string{"-direction=up"}, testDeps(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if msg != "No migrations to apply" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRun_Force(t *testing.T) {
	f := &fakeMigrator{}
	withFakeMigrator(t, f)

	msg, err := run([]string{"-direction=up", "-force=4"}, testDeps(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if f.forceArg == nil || *f.forceArg != 4 {
		t.Fatalf("expected Force(4) got %v", f.forceArg)
	}
	if f.upCalled {
		t.Fatal("Up should not run in force mode")
	}
	if !strings.Contains(msg, "version 4") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRun_MigrationFailureSurfaces(t *testing.T) {
	f := &fakeMigrator{returnError: errors.New("boom")}
	withFakeMigrator(t, f)

	_, err := run([]string{"-direction=up"}, testDeps(t))
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected wrapped failure got %v", err)
	}
}

func TestApplyDirection_InvalidDirection(t *testing.T) {
	if err := applyDirection(&fakeMigrator{}, "sideways", 0); err == nil {
		t.Fatal("expected error for invalid direction")
	}
}
