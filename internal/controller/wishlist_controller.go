package controller

import (
	"net/http"

	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/service"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/labstack/echo/v4"
)

type WishlistController struct {
	service service.UserService
}

func CreateWishlistController(g *echo.Group, svc service.UserService, guards Guards) {
	wc := WishlistController{service: svc}

	g.POST("/wishlist", wc.AddProduct, guards.User()...)
	g.DELETE("/wishlist/:productId", wc.RemoveProduct, guards.User()...)
	g.GET("/wishlist", wc.GetWishlist, guards.User()...)

	g.POST("/addresses", wc.AddAddress, guards.User()...)
	g.DELETE("/addresses/:addressId", wc.RemoveAddress, guards.User()...)
	g.GET("/addresses", wc.GetAddresses, guards.User()...)
}

func (wc *WishlistController) AddProduct(e echo.Context) error {
	payload := dto.WishlistRequest{}
	if ok, err := bindAndValidate(e, &payload, "AddToWishlist", nil); !ok {
		return err
	}

	res, err := wc.service.AddToWishlist(e.Request().Context(), payload.ProductID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Product added successfully to your wishlist.", res)
}

func (wc *WishlistController) RemoveProduct(e echo.Context) error {
	res, err := wc.service.RemoveFromWishlist(e.Request().Context(), e.Param("productId"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Product removed successfully from your wishlist.", res)
}

func (wc *WishlistController) GetWishlist(e echo.Context) error {
	res, err := wc.service.GetWishlist(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.JSON(http.StatusOK, dto.ListData{Status: "success", Results: len(res), Data: res})
}

func (wc *WishlistController) AddAddress(e echo.Context) error {
	payload := dto.AddressRequest{}
	if ok, err := bindAndValidate(e, &payload, "AddAddress", nil); !ok {
		return err
	}

	res, err := wc.service.AddAddress(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Address added successfully.", res)
}

func (wc *WishlistController) RemoveAddress(e echo.Context) error {
	res, err := wc.service.RemoveAddress(e.Request().Context(), e.Param("addressId"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Address removed successfully.", res)
}

func (wc *WishlistController) GetAddresses(e echo.Context) error {
	res, err := wc.service.GetAddresses(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.JSON(http.StatusOK, dto.ListData{Status: "success", Results: len(res), Data: res})
}
