package paymentgateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

// PaymentNotification is the body midtrans posts to the notification url.
type PaymentNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusMessage     string `json:"status_message"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
	OrderID           string `json:"order_id"`
	MerchantID        string `json:"merchant_id"`
	GrossAmount       string `json:"gross_amount"`
	FraudStatus       string `json:"fraud_status"`
	Currency          string `json:"currency"`
	CustomField1      string `json:"custom_field1"`
	CustomField2      string `json:"custom_field2"`
	CustomField3      string `json:"custom_field3"`
}

type MidtransGateway struct {
	client    snap.Client
	serverKey string
}

func CreateMidtransGateway(serverKey, environment string) *MidtransGateway {
	env := midtrans.Sandbox
	if environment == "production" {
		env = midtrans.Production
	}

	g := &MidtransGateway{serverKey: serverKey}
	g.client.New(serverKey, env)

	return g
}

// CreateCheckoutSession opens a Snap transaction. Cart id, shipping address and email travel in the custom fields.
func (g *MidtransGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	address, err := json.Marshal(req.ShippingAddress)
	if err != nil {
		return CheckoutSession{}, err
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  ulid.Make().String(),
			GrossAmt: int64(math.Round(req.Amount)),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		},
		Callbacks: &snap.Callbacks{
			Finish: req.SuccessURL,
		},
		CustomField1: req.CartID,
		CustomField2: string(address),
		CustomField3: req.CustomerEmail,
	}

	resp, midtransErr := g.client.CreateTransaction(snapReq)
	if midtransErr != nil {
		log.Ctx(ctx).Error().Err(midtransErr).Str("component", "MidtransCreateCheckoutSession").Msg("")
		return CheckoutSession{}, fmt.Errorf("%w: %s", errs.ErrPaymentGateway, midtransErr.Message)
	}

	return CheckoutSession{ID: resp.Token, URL: resp.RedirectURL}, nil
}

func (g *MidtransGateway) ParseWebhook(payload []byte, header http.Header) (*CompletedCheckout, error) {
	var notification PaymentNotification
	if err := json.Unmarshal(payload, &notification); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSignature, err)
	}

	expected := Signature(notification.OrderID, notification.StatusCode, notification.GrossAmount, g.serverKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(notification.SignatureKey)) != 1 {
		return nil, errs.ErrInvalidSignature
	}

	paid := notification.TransactionStatus == "settlement" ||
		(notification.TransactionStatus == "capture" && notification.FraudStatus == "accept")
	if !paid {
		return nil, nil
	}

	amount, err := strconv.ParseFloat(notification.GrossAmount, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrClient, err)
	}

	var address domain.ShippingAddress
	if notification.CustomField2 != "" {
		if err := json.Unmarshal([]byte(notification.CustomField2), &address); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrClient, err)
		}
	}

	return &CompletedCheckout{
		CartID:          notification.CustomField1,
		CustomerEmail:   notification.CustomField3,
		AmountTotal:     amount,
		ShippingAddress: address,
	}, nil
}

// Signature is SHA512(order_id + status_code + gross_amount + server_key), hex encoded.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
