package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alimikegami/e-commerce/config"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/alimikegami/e-commerce/pkg/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type RoutesTestSuite struct {
	suite.Suite
	e *echo.Echo
}

func (s *RoutesTestSuite) SetupTest() {
	s.e = echo.New()
	s.e.Validator = validation.NewValidator()
	s.e.HTTPErrorHandler = response.HTTPErrorHandler
	registerRoutes(s.e, services{}, config.RateLimitConfig{Max: 5, Window: time.Minute})
}

func (s *RoutesTestSuite) Test_Registered() {
	registered := map[string]bool{}
	for _, r := range s.e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"GET /api/v1/ping",
		"GET /api/v1/categories/:id/subcategories",
		"POST /api/v1/products/:id/reviews",
		"POST /api/v1/auth/login",
		"PUT /api/v1/auth/resetPassword",
		"GET /api/v1/users/getMe",
		"POST /api/v1/wishlist",
		"DELETE /api/v1/addresses/:addressId",
		"PUT /api/v1/cart/applyCoupon",
		"GET /api/v1/orders/checkout-session/:cartId",
		"PUT /api/v1/orders/:id/deliver",
		"POST /webhook-checkout",
	} {
		s.True(registered[route], route)
	}
}

func (s *RoutesTestSuite) Test_Access() {
	testCases := []struct {
		Name           string
		Method         string
		Path           string
		ExpectedStatus int
	}{
		{Name: "ping", Method: http.MethodGet, Path: "/api/v1/ping", ExpectedStatus: http.StatusOK},
		{Name: "cart without token", Method: http.MethodGet, Path: "/api/v1/cart", ExpectedStatus: http.StatusUnauthorized},
		{Name: "create category without token", Method: http.MethodPost, Path: "/api/v1/categories", ExpectedStatus: http.StatusUnauthorized},
		{Name: "unknown route", Method: http.MethodGet, Path: "/api/v1/unknown", ExpectedStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			rec := httptest.NewRecorder()
			s.e.ServeHTTP(rec, httptest.NewRequest(tc.Method, tc.Path, nil))
			s.Equal(tc.ExpectedStatus, rec.Code)
		})
	}
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}
