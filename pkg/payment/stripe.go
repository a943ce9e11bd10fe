package payment

import (
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
	"github.com/wandertours/backend/internal/models"
)

// StripeGateway owns its own API client instead of setting the package-global
// stripe.Key, so credentials are fixed at construction and the gateway can be
// injected like any other dependency.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	publicURL     string
}

func NewStripeGateway(secretKey, webhookSecret, publicURL string) *StripeGateway {
	g := &StripeGateway{
		webhookSecret: strings.TrimSpace(webhookSecret),
		publicURL:     strings.TrimRight(publicURL, "/"),
	}

	// An empty or placeholder key ("<your key here>") leaves the gateway
	// unconfigured rather than failing at startup.
	key := strings.TrimSpace(secretKey)
	if key == "" || strings.Contains(key, "<") {
		return g
	}

	g.api = &client.API{}
	g.api.Init(key, nil)
	return g
}

func (g *StripeGateway) Configured() bool {
	return g.api != nil
}

func (g *StripeGateway) WebhookConfigured() bool {
	return g.webhookSecret != ""
}

// CreateCheckoutSession opens a one-time card payment session for a single
// tour. The tour id travels as the client reference so the webhook and the
// redirect poll can correlate the payment back to the tour.
func (g *StripeGateway) CreateCheckoutSession(tour *models.Tour, customerEmail string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(int64(math.Round(tour.Price * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("%s Tour", tour.Name)),
						Description: stripe.String(tour.Summary),
						Images: stripe.StringSlice([]string{
							fmt.Sprintf("%s/img/tours/%s", g.publicURL, tour.ImageCover),
						}),
					},
				},
			},
		},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(fmt.Sprintf("%s/my-bookings?alert=booking&session_id={CHECKOUT_SESSION_ID}", g.publicURL)),
		CancelURL:          stripe.String(fmt.Sprintf("%s/tours/%s", g.publicURL, tour.Slug)),
		CustomerEmail:      stripe.String(customerEmail),
		ClientReferenceID:  stripe.String(fmt.Sprintf("%d", tour.ID)),
	}

	return g.api.CheckoutSessions.New(params)
}

func (g *StripeGateway) RetrieveCheckoutSession(sessionID string) (*stripe.CheckoutSession, error) {
	return g.api.CheckoutSessions.Get(sessionID, nil)
}

// VerifyWebhook checks the Stripe-Signature header against the raw payload.
func (g *StripeGateway) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signatureHeader, g.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
}
