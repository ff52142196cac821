package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

// NewVisualization carries the chart blobs verbatim; config and data contents
// are opaque to the backend.
type NewVisualization struct {
	UserID string          `json:"userId"`
	Title  string          `json:"title"`
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config"`
	Data   json.RawMessage `json:"data"`
}

func (v *NewVisualization) Validate() error {
	if strings.TrimSpace(v.UserID) == "" {
		return invalid("userId", "is required")
	}
	if strings.TrimSpace(v.Title) == "" {
		return invalid("title", "is required")
	}
	if strings.TrimSpace(v.Type) == "" {
		return invalid("type", "is required")
	}
	if len(v.Config) == 0 {
		return invalid("config", "is required")
	}
	if len(v.Data) == 0 {
		return invalid("data", "is required")
	}
	return nil
}

const vizColumns = `id, user_id, title, type, config, data, created_at, updated_at`

func scanVisualization(scan func(dest ...any) error) (*models.Visualization, error) {
	var v models.Visualization
	var config, data []byte
	err := scan(&v.ID, &v.UserID, &v.Title, &v.Type, &config, &data, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.Config = json.RawMessage(config)
	v.Data = json.RawMessage(data)
	return &v, nil
}

func (s *Storage) CreateVisualization(ctx context.Context, in NewVisualization) (*models.Visualization, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO public.visualizations (user_id, title, type, config, data)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb)
		RETURNING `+vizColumns+`
	`, in.UserID, in.Title, in.Type, string(in.Config), string(in.Data))
	return scanVisualization(row.Scan)
}

func (s *Storage) ListVisualizationsByOwner(ctx context.Context, ownerID string) ([]models.Visualization, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+vizColumns+`
		FROM public.visualizations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Visualization{}
	for rows.Next() {
		v, err := scanVisualization(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// DeleteVisualization is a hard delete, scoped to the owner so one user can
// never remove another user's chart.
func (s *Storage) DeleteVisualization(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM public.visualizations
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
