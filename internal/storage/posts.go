package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/tobitech/marketing-dashboard/internal/models"
)

// PostStatuses is the declared status set for posts. Transitions are
// unguarded: any declared value is accepted from any prior status.
var PostStatuses = []string{"draft", "scheduled", "published"}

type NewPost struct {
	UserID       string     `json:"userId"`
	Content      string     `json:"content"`
	Platforms    []string   `json:"platforms"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	Status       string     `json:"status,omitempty"`
}

func (p *NewPost) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return invalid("userId", "is required")
	}
	if strings.TrimSpace(p.Content) == "" {
		return invalid("content", "is required")
	}
	if p.Platforms == nil {
		return invalid("platforms", "is required")
	}
	if p.Status == "" {
		p.Status = "draft"
	}
	if !statusAllowed(p.Status, PostStatuses) {
		return invalid("status", "must be one of draft, scheduled, published")
	}
	return nil
}

const postColumns = `id, user_id, content, platforms, scheduled_for, status, created_at`

func scanPost(scan func(dest ...any) error) (*models.Post, error) {
	var p models.Post
	var scheduledFor sql.NullTime
	err := scan(&p.ID, &p.UserID, &p.Content, pq.Array(&p.Platforms), &scheduledFor, &p.Status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.ScheduledFor = nullTimePtr(scheduledFor)
	if p.Platforms == nil {
		p.Platforms = []string{}
	}
	return &p, nil
}

func (s *Storage) CreatePost(ctx context.Context, in NewPost) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO public.posts (user_id, content, platforms, scheduled_for, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+postColumns+`
	`, in.UserID, in.Content, pq.Array(in.Platforms), in.ScheduledFor, in.Status)
	return scanPost(row.Scan)
}

func (s *Storage) ListPostsByOwner(ctx context.Context, ownerID string) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM public.posts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (s *Storage) UpdatePostStatus(ctx context.Context, id, status string) (*models.Post, error) {
	if !statusAllowed(status, PostStatuses) {
		return nil, invalid("status", "must be one of draft, scheduled, published")
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE public.posts
		SET status = $2
		WHERE id = $1
		RETURNING `+postColumns+`
	`, id, status)
	return scanPost(row.Scan)
}
