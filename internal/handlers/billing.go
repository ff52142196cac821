package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/tobitech/marketing-dashboard/internal/middleware"
	"github.com/tobitech/marketing-dashboard/internal/models"
	"github.com/tobitech/marketing-dashboard/internal/storage"
)

// BillingHandler owns the payment-provider integration. It is only
// constructed (and its route only mounted) when STRIPE_SECRET_KEY is set;
// otherwise the subscription feature is absent rather than broken.
type BillingHandler struct {
	store   *storage.Storage
	stripe  *client.API
	priceID string
}

// NewBilling returns nil when Stripe is not configured.
func NewBilling(store *storage.Storage) *BillingHandler {
	secretKey := strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY"))
	if secretKey == "" {
		log.Printf("[Billing] STRIPE_SECRET_KEY not set, subscription route disabled")
		return nil
	}

	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &BillingHandler{
		store:   store,
		stripe:  sc,
		priceID: strings.TrimSpace(os.Getenv("STRIPE_PRICE_ID")),
	}
}

type subscriptionResponse struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientSecret   string `json:"clientSecret,omitempty"`
}

// GetOrCreateSubscription is idempotent: a user who already carries a
// subscription reference gets its current client secret back; otherwise a
// customer and subscription are created and both references persisted.
func (b *BillingHandler) GetOrCreateSubscription(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	user, err := b.store.GetUser(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("[Billing][Subscription] user query error userId=%s err=%v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	if user.StripeSubscriptionID != nil {
		params := &stripe.SubscriptionParams{}
		params.AddExpand("latest_invoice.payment_intent")
		sub, err := b.stripe.Subscriptions.Get(*user.StripeSubscriptionID, params)
		if err != nil {
			b.writeStripeError(w, userID, err)
			return
		}
		writeJSON(w, http.StatusOK, subscriptionResponse{
			SubscriptionID: sub.ID,
			ClientSecret:   clientSecret(sub),
		})
		return
	}

	if user.Email == nil || strings.TrimSpace(*user.Email) == "" {
		writeError(w, http.StatusBadRequest, "No user email on file")
		return
	}

	customer, err := b.stripe.Customers.New(&stripe.CustomerParams{
		Email: stripe.String(*user.Email),
		Name:  stripe.String(displayName(user)),
	})
	if err != nil {
		b.writeStripeError(w, userID, err)
		return
	}

	subParams := &stripe.SubscriptionParams{
		Customer: stripe.String(customer.ID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(b.priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	subParams.AddExpand("latest_invoice.payment_intent")
	sub, err := b.stripe.Subscriptions.New(subParams)
	if err != nil {
		b.writeStripeError(w, userID, err)
		return
	}

	// Remote creations cannot be rolled back, so this persist is deliberately
	// outside any transaction; it is a single last-writer-wins statement.
	if _, err := b.store.UpdateUserStripeInfo(r.Context(), userID, customer.ID, sub.ID); err != nil {
		log.Printf("[Billing][Subscription] persist error userId=%s customer=%s sub=%s err=%v", userID, customer.ID, sub.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to save subscription")
		return
	}

	writeJSON(w, http.StatusOK, subscriptionResponse{
		SubscriptionID: sub.ID,
		ClientSecret:   clientSecret(sub),
	})
}

func (b *BillingHandler) writeStripeError(w http.ResponseWriter, userID string, err error) {
	log.Printf("[Billing][Subscription] stripe error userId=%s err=%v", userID, err)

	msg := err.Error()
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg = stripeErr.Msg
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]string{"message": msg},
	})
}

func clientSecret(sub *stripe.Subscription) string {
	if sub.LatestInvoice == nil || sub.LatestInvoice.PaymentIntent == nil {
		return ""
	}
	return sub.LatestInvoice.PaymentIntent.ClientSecret
}

func displayName(user *models.User) string {
	if user.FirstName != nil && user.LastName != nil {
		return *user.FirstName + " " + *user.LastName
	}
	return *user.Email
}
