package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

type NewAnalyticsRecord struct {
	UserID   string    `json:"userId"`
	Platform string    `json:"platform"`
	Metric   string    `json:"metric"`
	Value    int       `json:"value"`
	Date     time.Time `json:"date"`
}

func (a *NewAnalyticsRecord) Validate() error {
	if strings.TrimSpace(a.UserID) == "" {
		return invalid("userId", "is required")
	}
	if strings.TrimSpace(a.Platform) == "" {
		return invalid("platform", "is required")
	}
	if strings.TrimSpace(a.Metric) == "" {
		return invalid("metric", "is required")
	}
	if a.Date.IsZero() {
		return invalid("date", "is required")
	}
	return nil
}

// AnalyticsFilter narrows an owner-scoped analytics listing. Predicates are
// ANDed together; the zero value selects everything.
type AnalyticsFilter struct {
	Platform string
	From     *time.Time
	To       *time.Time
}

func (f AnalyticsFilter) Validate() error {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return invalid("from", "must not be after to")
	}
	return nil
}

const analyticsColumns = `id, user_id, platform, metric, value, date, created_at`

func (s *Storage) CreateAnalyticsRecord(ctx context.Context, in NewAnalyticsRecord) (*models.AnalyticsRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO public.analytics (user_id, platform, metric, value, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+analyticsColumns+`
	`, in.UserID, in.Platform, in.Metric, in.Value, in.Date)
	var a models.AnalyticsRecord
	if err := row.Scan(&a.ID, &a.UserID, &a.Platform, &a.Metric, &a.Value, &a.Date, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Storage) ListAnalyticsByOwner(ctx context.Context, ownerID string, filter AnalyticsFilter) ([]models.AnalyticsRecord, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + analyticsColumns + `
		FROM public.analytics
		WHERE user_id = $1
	`
	args := []any{ownerID}
	argN := 2

	if filter.Platform != "" {
		query += fmt.Sprintf(" AND platform = $%d", argN)
		args = append(args, filter.Platform)
		argN++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", argN)
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", argN)
		args = append(args, *filter.To)
		argN++
	}
	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.AnalyticsRecord{}
	for rows.Next() {
		var a models.AnalyticsRecord
		if err := rows.Scan(&a.ID, &a.UserID, &a.Platform, &a.Metric, &a.Value, &a.Date, &a.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
