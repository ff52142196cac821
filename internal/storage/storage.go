// Package storage is the access layer for every persisted entity. Each entity
// gets one method per operation (create, list-by-owner, targeted update) over
// parameterized SQL; all list queries are scoped to the owning user and
// ordered newest first. There is no locking or conflict detection: concurrent
// updates are last-writer-wins, coordination is left to Postgres.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by update/delete operations when the target row
// does not exist. Handlers map it to HTTP 404.
var ErrNotFound = errors.New("record not found")

// ValidationError reports an insert payload that violates the schema
// constraints. It is raised before any SQL is issued; handlers map it to
// HTTP 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a payload validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Storage wraps the shared database handle. It is constructed once at process
// start and injected into the route layer.
type Storage struct {
	db *sql.DB
}

func New(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func statusAllowed(status string, allowed []string) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}
