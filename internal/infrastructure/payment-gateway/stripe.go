package paymentgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const StripeSignatureHeader = "Stripe-Signature"

type StripeGateway struct {
	api           *client.API
	webhookSecret string
	currency      string
}

func CreateStripeGateway(secretKey, webhookSecret, currency string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeGateway{api: api, webhookSecret: webhookSecret, currency: currency}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.currency),
					UnitAmount: stripe.Int64(int64(math.Round(req.Amount * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.CustomerName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		CustomerEmail:     stripe.String(req.CustomerEmail),
		ClientReferenceID: stripe.String(req.CartID),
	}
	params.Context = ctx
	params.AddMetadata("details", req.ShippingAddress.Details)
	params.AddMetadata("phone", req.ShippingAddress.Phone)
	params.AddMetadata("city", req.ShippingAddress.City)
	params.AddMetadata("postalCode", req.ShippingAddress.PostalCode)

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "StripeCreateCheckoutSession").Msg("")
		return CheckoutSession{}, fmt.Errorf("%w: %v", errs.ErrPaymentGateway, err)
	}

	return CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, header http.Header) (*CompletedCheckout, error) {
	event, err := webhook.ConstructEventWithOptions(payload, header.Get(StripeSignatureHeader), g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSignature, err)
	}

	if event.Type != "checkout.session.completed" {
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrClient, err)
	}

	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}

	return &CompletedCheckout{
		CartID:        session.ClientReferenceID,
		CustomerEmail: email,
		AmountTotal:   float64(session.AmountTotal) / 100,
		ShippingAddress: domain.ShippingAddress{
			Details:    session.Metadata["details"],
			Phone:      session.Metadata["phone"],
			City:       session.Metadata["city"],
			PostalCode: session.Metadata["postalCode"],
		},
	}, nil
}
