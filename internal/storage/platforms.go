package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

// NewConnectedPlatform stores third-party credentials as-is. There is no
// token-refresh logic; tokens are opaque pass-through values.
type NewConnectedPlatform struct {
	UserID       string          `json:"userId"`
	Platform     string          `json:"platform"`
	AccessToken  *string         `json:"accessToken,omitempty"`
	RefreshToken *string         `json:"refreshToken,omitempty"`
	IsActive     *bool           `json:"isActive,omitempty"`
	Settings     json.RawMessage `json:"settings,omitempty"`
}

func (p *NewConnectedPlatform) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return invalid("userId", "is required")
	}
	if strings.TrimSpace(p.Platform) == "" {
		return invalid("platform", "is required")
	}
	if p.IsActive == nil {
		active := true
		p.IsActive = &active
	}
	if len(p.Settings) == 0 {
		p.Settings = json.RawMessage(`{}`)
	}
	return nil
}

const platformColumns = `id, user_id, platform, access_token, refresh_token, is_active, settings, created_at, updated_at`

func scanConnectedPlatform(scan func(dest ...any) error) (*models.ConnectedPlatform, error) {
	var p models.ConnectedPlatform
	var accessToken, refreshToken sql.NullString
	var settings []byte
	err := scan(&p.ID, &p.UserID, &p.Platform, &accessToken, &refreshToken, &p.IsActive, &settings, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.AccessToken = nullStringPtr(accessToken)
	p.RefreshToken = nullStringPtr(refreshToken)
	if len(settings) == 0 {
		settings = []byte(`{}`)
	}
	p.Settings = json.RawMessage(settings)
	return &p, nil
}

func (s *Storage) CreateConnectedPlatform(ctx context.Context, in NewConnectedPlatform) (*models.ConnectedPlatform, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO public.connected_platforms (user_id, platform, access_token, refresh_token, is_active, settings)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		RETURNING `+platformColumns+`
	`, in.UserID, in.Platform, in.AccessToken, in.RefreshToken, *in.IsActive, string(in.Settings))
	return scanConnectedPlatform(row.Scan)
}

func (s *Storage) ListConnectedPlatformsByOwner(ctx context.Context, ownerID string) ([]models.ConnectedPlatform, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+platformColumns+`
		FROM public.connected_platforms
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ConnectedPlatform{}
	for rows.Next() {
		p, err := scanConnectedPlatform(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Storage) UpdatePlatformStatus(ctx context.Context, id string, isActive bool) (*models.ConnectedPlatform, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE public.connected_platforms
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+platformColumns+`
	`, id, isActive)
	return scanConnectedPlatform(row.Scan)
}
