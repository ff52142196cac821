package models

import (
	"encoding/json"
	"time"
)

// User is the root of ownership for every other entity. Rows are upserted on
// login with whatever the identity provider knows about the user.
type User struct {
	ID                   string    `json:"id"`
	Email                *string   `json:"email,omitempty"`
	FirstName            *string   `json:"firstName,omitempty"`
	LastName             *string   `json:"lastName,omitempty"`
	ProfileImageURL      *string   `json:"profileImageUrl,omitempty"`
	StripeCustomerID     *string   `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID *string   `json:"stripeSubscriptionId,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Post statuses: draft, scheduled, published.
type Post struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Content      string     `json:"content"`
	Platforms    []string   `json:"platforms"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// EmailCampaign statuses: draft, sending, sent. SentAt is set only when the
// status becomes "sent".
type EmailCampaign struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Subject        string     `json:"subject"`
	Content        string     `json:"content"`
	RecipientCount int        `json:"recipientCount"`
	Status         string     `json:"status"`
	ScheduledFor   *time.Time `json:"scheduledFor,omitempty"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Visualization config/data are opaque chart blobs owned by the UI.
type Visualization struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Title     string          `json:"title"`
	Type      string          `json:"type"`
	Config    json.RawMessage `json:"config"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatConversation holds the single running assistant thread per user
// (chat_conversations.user_id carries a unique constraint).
type ChatConversation struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// AnalyticsRecord is an append-only fact row (one platform metric at a point
// in time).
type AnalyticsRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Platform  string    `json:"platform"`
	Metric    string    `json:"metric"`
	Value     int       `json:"value"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskReminder types: daily, weekly, custom.
type TaskReminder struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	Type         string    `json:"type"`
	ScheduledFor time.Time `json:"scheduledFor"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FormSubmission statuses: pending, processed, converted.
type FormSubmission struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	FormData    json.RawMessage `json:"formData"`
	Status      string          `json:"status"`
	AdGenerated bool            `json:"adGenerated"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type ConnectedPlatform struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Platform     string          `json:"platform"`
	AccessToken  *string         `json:"accessToken,omitempty"`
	RefreshToken *string         `json:"refreshToken,omitempty"`
	IsActive     bool            `json:"isActive"`
	Settings     json.RawMessage `json:"settings"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ContentTemplate categories: inspiration, promotion, educational.
type ContentTemplate struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Platform  string    `json:"platform"`
	Category  *string   `json:"category,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
