package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/infrastructure/message-queue/kafka"
	paymentgateway "github.com/alimikegami/e-commerce/internal/infrastructure/payment-gateway"
	"github.com/alimikegami/e-commerce/internal/repository"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/utils"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	taxPrice      = 0
	shippingPrice = 0
)

type OrderService interface {
	ResourceService[domain.Order]
	CreateCashOrder(ctx context.Context, cartID string, req dto.OrderRequest) (res domain.Order, err error)
	MarkPaid(ctx context.Context, id string) (res domain.Order, err error)
	MarkDelivered(ctx context.Context, id string) (res domain.Order, err error)
	CreateCheckoutSession(ctx context.Context, cartID string, req dto.OrderRequest) (res paymentgateway.CheckoutSession, err error)
	HandleWebhook(ctx context.Context, payload []byte, header http.Header) (err error)
	HandleOrderCreated(ctx context.Context, msg kafka.KafkaMessage) (err error)
}

type OrderServiceImpl struct {
	*ResourceServiceImpl[domain.Order]
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	trx         repository.TransactionManager
	gateway     paymentgateway.Gateway
	publisher   kafka.EventPublisher
	mailer      utils.EmailSender
	baseURL     string
	now         func() time.Time
}

func CreateOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	trx repository.TransactionManager,
	gateway paymentgateway.Gateway,
	publisher kafka.EventPublisher,
	mailer utils.EmailSender,
	baseURL string,
) *OrderServiceImpl {
	return &OrderServiceImpl{
		ResourceServiceImpl: CreateResourceService[domain.Order](orderRepo, ResourceOptions[domain.Order]{}),
		orderRepo:           orderRepo,
		cartRepo:            cartRepo,
		productRepo:         productRepo,
		userRepo:            userRepo,
		trx:                 trx,
		gateway:             gateway,
		publisher:           publisher,
		mailer:              mailer,
		baseURL:             strings.TrimRight(baseURL, "/"),
		now:                 time.Now,
	}
}

// CreateCashOrder turns the caller's cart into an unpaid cash order.
func (s *OrderServiceImpl) CreateCashOrder(ctx context.Context, cartID string, req dto.OrderRequest) (res domain.Order, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return res, errs.ErrNotLoggedIn
	}

	cart, err := s.ownedCart(ctx, cartID, user)
	if err != nil {
		return
	}

	order := domain.Order{
		User:              user.ID,
		CartItems:         cart.CartItems,
		TaxPrice:          taxPrice,
		ShippingPrice:     shippingPrice,
		ShippingAddress:   req.ShippingAddress,
		TotalOrderPrice:   cart.Payable() + taxPrice + shippingPrice,
		PaymentMethodType: domain.PaymentMethodCash,
	}

	res, err = s.placeOrder(ctx, cart, order)
	if err != nil {
		return
	}

	s.publish(ctx, kafka.EventOrderCreated, res, user)
	return res, nil
}

// placeOrder stores the order, moves stock into sold and drops the cart as one unit.
func (s *OrderServiceImpl) placeOrder(ctx context.Context, cart domain.Cart, order domain.Order) (res domain.Order, err error) {
	err = s.trx.HandleTrx(ctx, func(ctx context.Context) error {
		res, err = s.orderRepo.Create(ctx, order)
		if err != nil {
			return err
		}

		adjustments := make([]repository.StockAdjustment, 0, len(cart.CartItems))
		for _, item := range cart.CartItems {
			adjustments = append(adjustments, repository.StockAdjustment{ProductID: item.Product, Quantity: item.Quantity})
		}

		if err = s.productRepo.AdjustStock(ctx, adjustments); err != nil {
			return err
		}

		return s.cartRepo.DeleteByID(ctx, cart.ID.Hex(), nil)
	})

	return
}

func (s *OrderServiceImpl) MarkPaid(ctx context.Context, id string) (res domain.Order, err error) {
	res, err = s.setStatus(ctx, id, bson.M{"isPaid": true, "paidAt": s.now()})
	if err != nil {
		return
	}

	s.publish(ctx, kafka.EventOrderPaid, res, domain.User{})
	return
}

func (s *OrderServiceImpl) MarkDelivered(ctx context.Context, id string) (res domain.Order, err error) {
	res, err = s.setStatus(ctx, id, bson.M{"isDelivered": true, "deliveredAt": s.now()})
	if err != nil {
		return
	}

	s.publish(ctx, kafka.EventOrderDelivered, res, domain.User{})
	return
}

func (s *OrderServiceImpl) setStatus(ctx context.Context, id string, fields bson.M) (res domain.Order, err error) {
	res, err = s.orderRepo.UpdateByID(ctx, id, nil, fields)
	if errors.Is(err, errs.ErrNotFound) {
		return res, errs.ErrOrderNotFound
	}

	return
}

// CreateCheckoutSession opens a hosted payment page for the caller's cart. The order
// itself is only created once the gateway reports the payment through the webhook.
func (s *OrderServiceImpl) CreateCheckoutSession(ctx context.Context, cartID string, req dto.OrderRequest) (res paymentgateway.CheckoutSession, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return res, errs.ErrNotLoggedIn
	}

	cart, err := s.ownedCart(ctx, cartID, user)
	if err != nil {
		return
	}

	return s.gateway.CreateCheckoutSession(ctx, paymentgateway.CheckoutRequest{
		CartID:          cart.ID.Hex(),
		CustomerEmail:   user.Email,
		CustomerName:    user.Name,
		Amount:          cart.Payable() + taxPrice + shippingPrice,
		ShippingAddress: req.ShippingAddress,
		SuccessURL:      s.baseURL + "/api/v1/orders",
		CancelURL:       s.baseURL + "/api/v1/cart",
	})
}

// HandleWebhook verifies the notification signature. Once verified, a failure to
// build the order is only logged so the gateway does not keep redelivering.
func (s *OrderServiceImpl) HandleWebhook(ctx context.Context, payload []byte, header http.Header) (err error) {
	completed, err := s.gateway.ParseWebhook(payload, header)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "HandleWebhook").Msg("")
		return fmt.Errorf("%w: %s", errs.ErrInvalidSignature, err.Error())
	}

	if completed == nil {
		return nil
	}

	if _, err := s.createCardOrder(ctx, *completed); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "HandleWebhook").Str("cart_id", completed.CartID).Msg("")
	}

	return nil
}

func (s *OrderServiceImpl) createCardOrder(ctx context.Context, completed paymentgateway.CompletedCheckout) (res domain.Order, err error) {
	cart, err := s.cartRepo.FindByID(ctx, completed.CartID, nil)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return res, fmt.Errorf("%w %s", errs.ErrCartIDNotFound, completed.CartID)
		}
		return
	}

	user, err := s.userRepo.FindByEmail(ctx, completed.CustomerEmail)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return res, errs.ErrAccountNotFound
		}
		return
	}

	paidAt := s.now()
	res, err = s.placeOrder(ctx, cart, domain.Order{
		User:              user.ID,
		CartItems:         cart.CartItems,
		TaxPrice:          taxPrice,
		ShippingPrice:     shippingPrice,
		ShippingAddress:   completed.ShippingAddress,
		TotalOrderPrice:   completed.AmountTotal,
		PaymentMethodType: domain.PaymentMethodCard,
		IsPaid:            true,
		PaidAt:            &paidAt,
	})
	if err != nil {
		return
	}

	s.publish(ctx, kafka.EventOrderCreated, res, user)
	return res, nil
}

// HandleOrderCreated mails an order confirmation to the buyer.
func (s *OrderServiceImpl) HandleOrderCreated(ctx context.Context, msg kafka.KafkaMessage) (err error) {
	var event dto.OrderEvent
	if err = json.Unmarshal(msg.Data, &event); err != nil {
		return
	}

	if event.Email == "" {
		return nil
	}

	body := fmt.Sprintf("Hi %s,\nWe received your order %s with %d item(s).\nTotal: %.2f (%s).\nThank you for shopping with us.",
		event.Name, event.OrderID, event.Items, event.TotalOrderPrice, event.PaymentMethodType)

	return s.mailer.SendEmail(ctx, event.Email, "Order confirmation", body)
}

func (s *OrderServiceImpl) ownedCart(ctx context.Context, cartID string, user domain.User) (cart domain.Cart, err error) {
	cart, err = s.cartRepo.FindByID(ctx, cartID, bson.M{"user": user.ID})
	if errors.Is(err, errs.ErrNotFound) {
		return cart, fmt.Errorf("%w %s", errs.ErrCartIDNotFound, cartID)
	}

	return
}

// publish logs publisher failures instead of returning them.
func (s *OrderServiceImpl) publish(ctx context.Context, eventType string, order domain.Order, user domain.User) {
	event := dto.OrderEvent{
		OrderID:           order.ID.Hex(),
		UserID:            order.User.Hex(),
		Email:             user.Email,
		Name:              user.Name,
		TotalOrderPrice:   order.TotalOrderPrice,
		PaymentMethodType: order.PaymentMethodType,
		Items:             len(order.CartItems),
	}

	if err := s.publisher.Publish(ctx, eventType, event.OrderID, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "PublishOrderEvent").Str("event_type", eventType).Msg("")
	}
}
