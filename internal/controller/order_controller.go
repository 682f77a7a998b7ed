package controller

import (
	"io"
	"net/http"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/middleware"
	"github.com/alimikegami/e-commerce/internal/service"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type OrderController struct {
	service service.OrderService
}

// CreateOrderController registers the order routes on g and the payment webhook on root,
// since the gateway posts outside the API prefix.
func CreateOrderController(root *echo.Echo, g *echo.Group, svc service.OrderService, guards Guards) {
	oc := OrderController{service: svc}
	h := &ResourceHandlers[domain.Order, struct{}, struct{}]{Service: svc}
	own := middleware.ScopeToOwner("user")

	g.GET("/orders/checkout-session/:cartId", oc.CheckoutSession, guards.User()...)
	g.POST("/orders/:id", oc.CreateCashOrder, guards.User()...)
	g.GET("/orders", h.GetAll, append(guards.Roles(domain.RoleUser, domain.RoleAdmin, domain.RoleManager), own)...)
	g.GET("/orders/:id", h.GetOne, guards.Protect, own)
	g.PUT("/orders/:id/pay", oc.MarkPaid, guards.Staff()...)
	g.PUT("/orders/:id/deliver", oc.MarkDelivered, guards.Staff()...)

	root.POST("/webhook-checkout", oc.Webhook)
}

// CreateCashOrder takes the cart id from the route.
func (oc *OrderController) CreateCashOrder(e echo.Context) error {
	payload := dto.OrderRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Ctx(e.Request().Context()).Warn().Err(err).Str("component", "CreateCashOrder").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	res, err := oc.service.CreateCashOrder(e.Request().Context(), e.Param("id"), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponseWithStatus(e, http.StatusCreated, "", res)
}

func (oc *OrderController) MarkPaid(e echo.Context) error {
	res, err := oc.service.MarkPaid(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", res)
}

func (oc *OrderController) MarkDelivered(e echo.Context) error {
	res, err := oc.service.MarkDelivered(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", res)
}

func (oc *OrderController) CheckoutSession(e echo.Context) error {
	payload := dto.OrderRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Ctx(e.Request().Context()).Warn().Err(err).Str("component", "CheckoutSession").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	session, err := oc.service.CreateCheckoutSession(e.Request().Context(), e.Param("cartId"), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.JSON(http.StatusOK, dto.CheckoutSessionResponse{Status: "success", Session: session})
}

// Webhook reads the raw body, the signature is computed over the exact bytes sent.
func (oc *OrderController) Webhook(e echo.Context) error {
	payload, err := io.ReadAll(e.Request().Body)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err := oc.service.HandleWebhook(e.Request().Context(), payload, e.Request().Header); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.JSON(http.StatusOK, dto.WebhookResponse{Received: true})
}
