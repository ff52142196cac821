package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tobitech/marketing-dashboard/internal/models"
)

// UpsertUser is the payload applied on every login. Only the id is required;
// missing profile fields never clobber existing values.
type UpsertUser struct {
	ID              string  `json:"id"`
	Email           *string `json:"email,omitempty"`
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

func (u *UpsertUser) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return invalid("id", "is required")
	}
	return nil
}

const userColumns = `id, email, first_name, last_name, profile_image_url, stripe_customer_id, stripe_subscription_id, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var email, firstName, lastName, imageURL, custID, subID sql.NullString
	err := row.Scan(&u.ID, &email, &firstName, &lastName, &imageURL, &custID, &subID, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Email = nullStringPtr(email)
	u.FirstName = nullStringPtr(firstName)
	u.LastName = nullStringPtr(lastName)
	u.ProfileImageURL = nullStringPtr(imageURL)
	u.StripeCustomerID = nullStringPtr(custID)
	u.StripeSubscriptionID = nullStringPtr(subID)
	return &u, nil
}

func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM public.users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

// UpsertUser inserts or refreshes the user row for the authenticated id.
// Existing non-null profile fields survive logins that don't carry them.
func (s *Storage) UpsertUser(ctx context.Context, in UpsertUser) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO public.users (id, email, first_name, last_name, profile_image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(EXCLUDED.email, public.users.email),
			first_name = COALESCE(EXCLUDED.first_name, public.users.first_name),
			last_name = COALESCE(EXCLUDED.last_name, public.users.last_name),
			profile_image_url = COALESCE(EXCLUDED.profile_image_url, public.users.profile_image_url),
			updated_at = NOW()
		RETURNING `+userColumns+`
	`, in.ID, in.Email, in.FirstName, in.LastName, in.ProfileImageURL)
	return scanUser(row)
}

// UpdateUserStripeInfo persists the payment-provider references returned by
// a subscription creation onto the user row.
func (s *Storage) UpdateUserStripeInfo(ctx context.Context, id, stripeCustomerID, stripeSubscriptionID string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE public.users
		SET stripe_customer_id = $2, stripe_subscription_id = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, stripeCustomerID, stripeSubscriptionID)
	return scanUser(row)
}
