package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

// CampaignStatuses is the declared status set for email campaigns.
var CampaignStatuses = []string{"draft", "sending", "sent"}

type NewEmailCampaign struct {
	UserID         string     `json:"userId"`
	Subject        string     `json:"subject"`
	Content        string     `json:"content"`
	RecipientCount int        `json:"recipientCount,omitempty"`
	Status         string     `json:"status,omitempty"`
	ScheduledFor   *time.Time `json:"scheduledFor,omitempty"`
}

func (c *NewEmailCampaign) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return invalid("userId", "is required")
	}
	if strings.TrimSpace(c.Subject) == "" {
		return invalid("subject", "is required")
	}
	if strings.TrimSpace(c.Content) == "" {
		return invalid("content", "is required")
	}
	if c.RecipientCount < 0 {
		return invalid("recipientCount", "must not be negative")
	}
	if c.Status == "" {
		c.Status = "draft"
	}
	if !statusAllowed(c.Status, CampaignStatuses) {
		return invalid("status", "must be one of draft, sending, sent")
	}
	return nil
}

const campaignColumns = `id, user_id, subject, content, recipient_count, status, scheduled_for, sent_at, created_at`

func scanCampaign(scan func(dest ...any) error) (*models.EmailCampaign, error) {
	var c models.EmailCampaign
	var scheduledFor, sentAt sql.NullTime
	err := scan(&c.ID, &c.UserID, &c.Subject, &c.Content, &c.RecipientCount, &c.Status, &scheduledFor, &sentAt, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.ScheduledFor = nullTimePtr(scheduledFor)
	c.SentAt = nullTimePtr(sentAt)
	return &c, nil
}

func (s *Storage) CreateEmailCampaign(ctx context.Context, in NewEmailCampaign) (*models.EmailCampaign, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO public.email_campaigns (user_id, subject, content, recipient_count, status, scheduled_for)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+campaignColumns+`
	`, in.UserID, in.Subject, in.Content, in.RecipientCount, in.Status, in.ScheduledFor)
	return scanCampaign(row.Scan)
}

func (s *Storage) ListCampaignsByOwner(ctx context.Context, ownerID string) ([]models.EmailCampaign, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+campaignColumns+`
		FROM public.email_campaigns
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []models.EmailCampaign{}
	for rows.Next() {
		c, err := scanCampaign(rows.Scan)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

// UpdateCampaignStatus moves a campaign to any declared status. sent_at is
// stamped the first time the campaign reaches "sent".
func (s *Storage) UpdateCampaignStatus(ctx context.Context, id, status string) (*models.EmailCampaign, error) {
	if !statusAllowed(status, CampaignStatuses) {
		return nil, invalid("status", "must be one of draft, sending, sent")
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE public.email_campaigns
		SET status = $2,
		    sent_at = CASE WHEN $2 = 'sent' THEN COALESCE(sent_at, NOW()) ELSE sent_at END
		WHERE id = $1
		RETURNING `+campaignColumns+`
	`, id, status)
	return scanCampaign(row.Scan)
}
