package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

type NewTaskReminder struct {
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	Type         string    `json:"type"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

func (r *NewTaskReminder) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return invalid("userId", "is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return invalid("title", "is required")
	}
	if strings.TrimSpace(r.Type) == "" {
		return invalid("type", "is required")
	}
	if r.ScheduledFor.IsZero() {
		return invalid("scheduledFor", "is required")
	}
	return nil
}

const reminderColumns = `id, user_id, title, description, type, scheduled_for, completed, created_at`

func scanReminder(scan func(dest ...any) error) (*models.TaskReminder, error) {
	var t models.TaskReminder
	var description sql.NullString
	err := scan(&t.ID, &t.UserID, &t.Title, &description, &t.Type, &t.ScheduledFor, &t.Completed, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Description = nullStringPtr(description)
	return &t, nil
}

func (s *Storage) CreateTaskReminder(ctx context.Context, in NewTaskReminder) (*models.TaskReminder, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO public.task_reminders (user_id, title, description, type, scheduled_for)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+reminderColumns+`
	`, in.UserID, in.Title, in.Description, in.Type, in.ScheduledFor)
	return scanReminder(row.Scan)
}

// ListRemindersByOwner orders by scheduled time, upcoming first.
func (s *Storage) ListRemindersByOwner(ctx context.Context, ownerID string) ([]models.TaskReminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reminderColumns+`
		FROM public.task_reminders
		WHERE user_id = $1
		ORDER BY scheduled_for DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []models.TaskReminder{}
	for rows.Next() {
		t, err := scanReminder(rows.Scan)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *t)
	}
	return reminders, rows.Err()
}

// UpdateTaskCompletion flips the completed flag. No recurrence logic.
func (s *Storage) UpdateTaskCompletion(ctx context.Context, id string, completed bool) (*models.TaskReminder, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE public.task_reminders
		SET completed = $2
		WHERE id = $1
		RETURNING `+reminderColumns+`
	`, id, completed)
	return scanReminder(row.Scan)
}
