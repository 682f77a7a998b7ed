package controller

import (
	"net/http"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/service"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/labstack/echo/v4"
)

type CartController struct {
	service service.CartService
}

func CreateCartController(g *echo.Group, svc service.CartService, guards Guards) {
	cc := CartController{service: svc}

	g.POST("/cart", cc.AddProduct, guards.User()...)
	g.GET("/cart", cc.GetCart, guards.User()...)
	g.DELETE("/cart", cc.ClearCart, guards.User()...)
	g.PUT("/cart/applyCoupon", cc.ApplyCoupon, guards.User()...)
	g.PUT("/cart/:itemId", cc.UpdateItemQuantity, guards.User()...)
	g.DELETE("/cart/:itemId", cc.RemoveItem, guards.User()...)
}

func (cc *CartController) AddProduct(e echo.Context) error {
	payload := dto.AddToCartRequest{}
	if ok, err := bindAndValidate(e, &payload, "AddToCart", nil); !ok {
		return err
	}

	res, err := cc.service.AddProduct(e.Request().Context(), payload)
	return writeCart(e, res, err, "Product added to cart successfully")
}

func (cc *CartController) GetCart(e echo.Context) error {
	res, err := cc.service.GetCart(e.Request().Context())
	return writeCart(e, res, err, "")
}

func (cc *CartController) ClearCart(e echo.Context) error {
	if err := cc.service.ClearCart(e.Request().Context()); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.NoContent(http.StatusNoContent)
}

func (cc *CartController) ApplyCoupon(e echo.Context) error {
	payload := dto.ApplyCouponRequest{}
	if ok, err := bindAndValidate(e, &payload, "ApplyCoupon", nil); !ok {
		return err
	}

	res, err := cc.service.ApplyCoupon(e.Request().Context(), payload)
	return writeCart(e, res, err, "")
}

func (cc *CartController) UpdateItemQuantity(e echo.Context) error {
	payload := dto.UpdateCartItemRequest{}
	if ok, err := bindAndValidate(e, &payload, "UpdateCartItem", nil); !ok {
		return err
	}

	res, err := cc.service.UpdateItemQuantity(e.Request().Context(), e.Param("itemId"), payload)
	return writeCart(e, res, err, "")
}

func (cc *CartController) RemoveItem(e echo.Context) error {
	res, err := cc.service.RemoveItem(e.Request().Context(), e.Param("itemId"))
	return writeCart(e, res, err, "")
}

func writeCart(e echo.Context, cart domain.Cart, err error, message string) error {
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.JSON(http.StatusOK, dto.CartResponse{
		Status:         "success",
		Message:        message,
		NumOfCartItems: len(cart.CartItems),
		Data:           cart,
	})
}
