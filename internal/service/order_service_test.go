package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/infrastructure/message-queue/kafka"
	paymentgateway "github.com/alimikegami/e-commerce/internal/infrastructure/payment-gateway"
	"github.com/alimikegami/e-commerce/internal/repository"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderServiceTestSuite struct {
	suite.Suite
	orders    *fakeOrderRepo
	carts     *fakeCartRepo
	products  *fakeProductRepo
	users     *fakeUserRepo
	trx       *fakeTrx
	gateway   *fakeGateway
	publisher *fakePublisher
	mailer    *fakeMailer
	svc       *OrderServiceImpl
	user      domain.User
	cart      domain.Cart
	ctx       context.Context
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.user = domain.User{ID: primitive.NewObjectID(), Name: "buyer", Email: "buyer@example.com", Role: domain.RoleUser}

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	s.cart = domain.Cart{ID: primitive.NewObjectID(), User: s.user.ID}
	s.cart.AddProduct(a, "", 50)
	s.cart.AddProduct(a, "", 50)
	s.cart.AddProduct(b, "red", 20)

	s.orders = &fakeOrderRepo{}
	s.carts = &fakeCartRepo{carts: map[primitive.ObjectID]domain.Cart{s.cart.ID: s.cart}}
	s.products = &fakeProductRepo{products: map[primitive.ObjectID]domain.Product{}}
	s.users = &fakeUserRepo{users: map[primitive.ObjectID]domain.User{s.user.ID: s.user}}
	s.trx = &fakeTrx{}
	s.gateway = &fakeGateway{}
	s.publisher = &fakePublisher{}
	s.mailer = &fakeMailer{}

	s.svc = CreateOrderService(s.orders, s.carts, s.products, s.users, s.trx, s.gateway, s.publisher, s.mailer, "http://shop.example.com/")
	s.ctx = requestctx.WithUser(context.Background(), s.user)
}

func (s *OrderServiceTestSuite) Test_CreateCashOrder() {
	address := domain.ShippingAddress{Details: "street 1", City: "Cairo", Phone: "0100"}

	order, err := s.svc.CreateCashOrder(s.ctx, s.cart.ID.Hex(), dto.OrderRequest{ShippingAddress: address})
	s.Require().NoError(err)

	s.Equal(domain.PaymentMethodCash, order.PaymentMethodType)
	s.Equal(120.0, order.TotalOrderPrice)
	s.False(order.IsPaid)
	s.Equal(address, order.ShippingAddress)
	s.Len(order.CartItems, 2)

	s.Equal(1, s.trx.calls)
	s.Equal([]repository.StockAdjustment{
		{ProductID: s.cart.CartItems[0].Product, Quantity: 2},
		{ProductID: s.cart.CartItems[1].Product, Quantity: 1},
	}, s.products.adjustments)
	s.Equal([]primitive.ObjectID{s.cart.ID}, s.carts.deleted)

	s.Require().Len(s.publisher.events, 1)
	s.Equal(kafka.EventOrderCreated, s.publisher.events[0].EventType)
	s.Equal(order.ID.Hex(), s.publisher.events[0].Key)
}

func (s *OrderServiceTestSuite) Test_CreateCashOrderUsesDiscountedTotal() {
	cart := s.carts.carts[s.cart.ID]
	cart.ApplyDiscount(10)
	s.carts.carts[s.cart.ID] = cart

	order, err := s.svc.CreateCashOrder(s.ctx, s.cart.ID.Hex(), dto.OrderRequest{})
	s.Require().NoError(err)
	s.Equal(108.0, order.TotalOrderPrice)
}

func (s *OrderServiceTestSuite) Test_CreateCashOrderRejectsForeignCart() {
	other := domain.User{ID: primitive.NewObjectID(), Role: domain.RoleUser}
	ctx := requestctx.WithUser(context.Background(), other)

	_, err := s.svc.CreateCashOrder(ctx, s.cart.ID.Hex(), dto.OrderRequest{})
	s.ErrorIs(err, errs.ErrCartIDNotFound)
	s.Equal("There is no cart with this id "+s.cart.ID.Hex(), err.Error())
	s.Empty(s.orders.created)
	s.Empty(s.products.adjustments)
	s.Contains(s.carts.carts, s.cart.ID)
}

func (s *OrderServiceTestSuite) Test_CreateCashOrderStockFailureKeepsCart() {
	s.products.adjustErr = errors.New("bulk write failed")

	_, err := s.svc.CreateCashOrder(s.ctx, s.cart.ID.Hex(), dto.OrderRequest{})
	s.Error(err)
	s.Empty(s.carts.deleted)
	s.Empty(s.publisher.events)
}

func (s *OrderServiceTestSuite) Test_CreateCheckoutSession() {
	session, err := s.svc.CreateCheckoutSession(s.ctx, s.cart.ID.Hex(), dto.OrderRequest{ShippingAddress: domain.ShippingAddress{City: "Giza"}})
	s.Require().NoError(err)
	s.Equal("cs_test", session.ID)

	s.Require().Len(s.gateway.requests, 1)
	req := s.gateway.requests[0]
	s.Equal(s.cart.ID.Hex(), req.CartID)
	s.Equal(s.user.Email, req.CustomerEmail)
	s.Equal(120.0, req.Amount)
	s.Equal("Giza", req.ShippingAddress.City)
	s.Equal("http://shop.example.com/api/v1/orders", req.SuccessURL)
	s.Empty(s.orders.created)
}

func (s *OrderServiceTestSuite) Test_HandleWebhook() {
	testCases := []struct {
		Name           string
		Completed      *paymentgateway.CompletedCheckout
		ParseErr       error
		ExpectedErr    error
		ExpectedOrders int
	}{
		{Name: "bad signature", ParseErr: errors.New("signature mismatch"), ExpectedErr: errs.ErrInvalidSignature},
		{Name: "ignored event"},
		{Name: "unknown cart is only logged", Completed: &paymentgateway.CompletedCheckout{CartID: primitive.NewObjectID().Hex(), CustomerEmail: s.user.Email}},
		{
			Name:           "completed payment",
			Completed:      &paymentgateway.CompletedCheckout{CartID: s.cart.ID.Hex(), CustomerEmail: s.user.Email, AmountTotal: 120, ShippingAddress: domain.ShippingAddress{City: "Alex"}},
			ExpectedOrders: 1,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			s.orders.created = nil
			s.carts.carts = map[primitive.ObjectID]domain.Cart{s.cart.ID: s.cart}
			s.carts.deleted = nil
			s.gateway.completed = tc.Completed
			s.gateway.parseErr = tc.ParseErr

			err := s.svc.HandleWebhook(context.Background(), []byte(`{}`), http.Header{})
			if tc.ExpectedErr != nil {
				s.ErrorIs(err, tc.ExpectedErr)
			} else {
				s.NoError(err)
			}

			s.Len(s.orders.created, tc.ExpectedOrders)
			if tc.ExpectedOrders == 0 {
				return
			}

			order := s.orders.created[0]
			s.Equal(domain.PaymentMethodCard, order.PaymentMethodType)
			s.True(order.IsPaid)
			s.NotNil(order.PaidAt)
			s.Equal(s.user.ID, order.User)
			s.Equal("Alex", order.ShippingAddress.City)
			s.Equal([]primitive.ObjectID{s.cart.ID}, s.carts.deleted)
		})
	}
}

func (s *OrderServiceTestSuite) Test_HandleOrderCreatedSendsConfirmation() {
	data, err := json.Marshal(dto.OrderEvent{OrderID: "abc", Email: "buyer@example.com", Name: "buyer", TotalOrderPrice: 120, Items: 2})
	s.Require().NoError(err)

	err = s.svc.HandleOrderCreated(context.Background(), kafka.KafkaMessage{EventType: kafka.EventOrderCreated, Data: data})
	s.Require().NoError(err)

	s.Require().Len(s.mailer.sent, 1)
	s.Equal("buyer@example.com", s.mailer.sent[0].To)
	s.Contains(s.mailer.sent[0].Body, "abc")
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
