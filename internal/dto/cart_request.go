package dto

import "github.com/alimikegami/e-commerce/internal/domain"

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,mongodb"`
	Color     string `json:"color"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type ApplyCouponRequest struct {
	Coupon string `json:"coupon" validate:"required"`
}

type OrderRequest struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
}
