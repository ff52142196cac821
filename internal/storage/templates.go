package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

type NewContentTemplate struct {
	UserID   string  `json:"userId"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Platform string  `json:"platform"`
	Category *string `json:"category,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (t *NewContentTemplate) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return invalid("userId", "is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title", "is required")
	}
	if strings.TrimSpace(t.Content) == "" {
		return invalid("content", "is required")
	}
	if strings.TrimSpace(t.Platform) == "" {
		return invalid("platform", "is required")
	}
	if t.IsActive == nil {
		active := true
		t.IsActive = &active
	}
	return nil
}

// TemplateFilter narrows a listing to one platform when set.
type TemplateFilter struct {
	Platform string
}

const templateColumns = `id, user_id, title, content, platform, category, is_active, created_at`

func scanTemplate(scan func(dest ...any) error) (*models.ContentTemplate, error) {
	var t models.ContentTemplate
	var category sql.NullString
	err := scan(&t.ID, &t.UserID, &t.Title, &t.Content, &t.Platform, &category, &t.IsActive, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Category = nullStringPtr(category)
	return &t, nil
}

func (s *Storage) CreateContentTemplate(ctx context.Context, in NewContentTemplate) (*models.ContentTemplate, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO public.content_templates (user_id, title, content, platform, category, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+templateColumns+`
	`, in.UserID, in.Title, in.Content, in.Platform, in.Category, *in.IsActive)
	return scanTemplate(row.Scan)
}

func (s *Storage) ListContentTemplatesByOwner(ctx context.Context, ownerID string, filter TemplateFilter) ([]models.ContentTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM public.content_templates
		WHERE user_id = $1
	`
	args := []any{ownerID}
	if filter.Platform != "" {
		query += " AND platform = $2"
		args = append(args, filter.Platform)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ContentTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// DeleteContentTemplate is a hard delete scoped to the owner.
func (s *Storage) DeleteContentTemplate(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM public.content_templates
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
