package dto

import (
	"github.com/alimikegami/e-commerce/internal/domain"
	paymentgateway "github.com/alimikegami/e-commerce/internal/infrastructure/payment-gateway"
)

type AuthResponse struct {
	Data  *domain.User `json:"data,omitempty"`
	Token string       `json:"token"`
}

type CartResponse struct {
	Status         string      `json:"status"`
	Message        string      `json:"message,omitempty"`
	NumOfCartItems int         `json:"numOfCartItems"`
	Data           domain.Cart `json:"data"`
}

type CheckoutSessionResponse struct {
	Status  string                         `json:"status"`
	Session paymentgateway.CheckoutSession `json:"session"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type ListData struct {
	Status  string      `json:"status"`
	Results int         `json:"results"`
	Data    interface{} `json:"data"`
}

// OrderEvent is the payload published for order lifecycle events.
type OrderEvent struct {
	OrderID           string  `json:"order_id"`
	UserID            string  `json:"user_id"`
	Email             string  `json:"email"`
	Name              string  `json:"name"`
	TotalOrderPrice   float64 `json:"total_order_price"`
	PaymentMethodType string  `json:"payment_method_type"`
	Items             int     `json:"items"`
}
