package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

// FormSubmissionStatuses is the declared status set for form submissions.
var FormSubmissionStatuses = []string{"pending", "processed", "converted"}

// NewFormSubmission arrives from an external form webhook, so unlike other
// creates the userId is taken from the payload.
type NewFormSubmission struct {
	UserID      string          `json:"userId"`
	FormData    json.RawMessage `json:"formData"`
	Status      string          `json:"status,omitempty"`
	AdGenerated bool            `json:"adGenerated,omitempty"`
}

func (f *NewFormSubmission) Validate() error {
	if strings.TrimSpace(f.UserID) == "" {
		return invalid("userId", "is required")
	}
	if len(f.FormData) == 0 {
		return invalid("formData", "is required")
	}
	if f.Status == "" {
		f.Status = "pending"
	}
	if !statusAllowed(f.Status, FormSubmissionStatuses) {
		return invalid("status", "must be one of pending, processed, converted")
	}
	return nil
}

// FormSubmissionFilter narrows a listing to one status when set.
type FormSubmissionFilter struct {
	Status string
}

func (f FormSubmissionFilter) Validate() error {
	if f.Status != "" && !statusAllowed(f.Status, FormSubmissionStatuses) {
		return invalid("status", "must be one of pending, processed, converted")
	}
	return nil
}

const formColumns = `id, user_id, form_data, status, ad_generated, created_at`

func scanFormSubmission(scan func(dest ...any) error) (*models.FormSubmission, error) {
	var f models.FormSubmission
	var formData []byte
	err := scan(&f.ID, &f.UserID, &formData, &f.Status, &f.AdGenerated, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	f.FormData = json.RawMessage(formData)
	return &f, nil
}

func (s *Storage) CreateFormSubmission(ctx context.Context, in NewFormSubmission) (*models.FormSubmission, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO public.form_submissions (user_id, form_data, status, ad_generated)
		VALUES ($1, $2::jsonb, $3, $4)
		RETURNING `+formColumns+`
	`, in.UserID, string(in.FormData), in.Status, in.AdGenerated)
	return scanFormSubmission(row.Scan)
}

func (s *Storage) ListFormSubmissionsByOwner(ctx context.Context, ownerID string, filter FormSubmissionFilter) ([]models.FormSubmission, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + formColumns + `
		FROM public.form_submissions
		WHERE user_id = $1
	`
	args := []any{ownerID}
	if filter.Status != "" {
		query += " AND status = $2"
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.FormSubmission{}
	for rows.Next() {
		f, err := scanFormSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (s *Storage) UpdateFormSubmissionStatus(ctx context.Context, id, status string) (*models.FormSubmission, error) {
	if !statusAllowed(status, FormSubmissionStatuses) {
		return nil, invalid("status", "must be one of pending, processed, converted")
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE public.form_submissions
		SET status = $2
		WHERE id = $1
		RETURNING `+formColumns+`
	`, id, status)
	return scanFormSubmission(row.Scan)
}
