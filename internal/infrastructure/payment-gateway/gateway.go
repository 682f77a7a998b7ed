package paymentgateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/sony/gobreaker/v2"
)

type CheckoutRequest struct {
	CartID          string
	CustomerEmail   string
	CustomerName    string
	Amount          float64
	ShippingAddress domain.ShippingAddress
	SuccessURL      string
	CancelURL       string
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CompletedCheckout is what a verified payment notification tells us about the paid cart.
type CompletedCheckout struct {
	CartID          string
	CustomerEmail   string
	AmountTotal     float64
	ShippingAddress domain.ShippingAddress
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	// ParseWebhook verifies the notification and returns nil for events other than a completed payment.
	ParseWebhook(payload []byte, header http.Header) (*CompletedCheckout, error)
}

type breakerGateway struct {
	Gateway
	cb *gobreaker.CircuitBreaker[CheckoutSession]
}

// WithCircuitBreaker guards outbound session creation. Webhook parsing is local and is not guarded.
func WithCircuitBreaker(g Gateway, cb *gobreaker.CircuitBreaker[CheckoutSession]) Gateway {
	return &breakerGateway{Gateway: g, cb: cb}
}

func (b *breakerGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	session, err := b.cb.Execute(func() (CheckoutSession, error) {
		return b.Gateway.CreateCheckoutSession(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return session, errs.ErrPaymentGateway
	}

	return session, err
}
