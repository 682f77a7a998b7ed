package service

import (
	"context"
	"errors"
	"time"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/repository"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartService interface {
	AddProduct(ctx context.Context, req dto.AddToCartRequest) (res domain.Cart, err error)
	GetCart(ctx context.Context) (res domain.Cart, err error)
	RemoveItem(ctx context.Context, itemID string) (res domain.Cart, err error)
	ClearCart(ctx context.Context) (err error)
	UpdateItemQuantity(ctx context.Context, itemID string, req dto.UpdateCartItemRequest) (res domain.Cart, err error)
	ApplyCoupon(ctx context.Context, req dto.ApplyCouponRequest) (res domain.Cart, err error)
}

type CartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	now         func() time.Time
}

func CreateCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, couponRepo repository.CouponRepository) *CartServiceImpl {
	return &CartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		now:         time.Now,
	}
}

// AddProduct captures the current catalog price on the new line. A user without a
// cart gets one created.
func (s *CartServiceImpl) AddProduct(ctx context.Context, req dto.AddToCartRequest) (res domain.Cart, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return res, errs.ErrNotLoggedIn
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID, nil)
	if err != nil {
		return res, notFound(err, req.ProductID)
	}

	cart, err := s.cartRepo.FindByUser(ctx, user.ID)
	if err != nil && !errors.Is(err, errs.ErrCartNotFound) {
		return
	}
	if errors.Is(err, errs.ErrCartNotFound) {
		cart = domain.Cart{User: user.ID, CartItems: []domain.CartItem{}}
	}

	cart.AddProduct(product.ID, req.Color, product.Price)

	return s.cartRepo.Save(ctx, cart)
}

func (s *CartServiceImpl) GetCart(ctx context.Context) (res domain.Cart, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return res, errs.ErrNotLoggedIn
	}

	return s.cartRepo.FindByUser(ctx, user.ID)
}

func (s *CartServiceImpl) RemoveItem(ctx context.Context, itemID string) (res domain.Cart, err error) {
	cart, id, err := s.cartAndItem(ctx, itemID)
	if err != nil {
		return
	}

	if !cart.RemoveItem(id) {
		return res, errs.ErrCartItemNotFound
	}

	return s.cartRepo.Save(ctx, cart)
}

func (s *CartServiceImpl) ClearCart(ctx context.Context) (err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return errs.ErrNotLoggedIn
	}

	return s.cartRepo.DeleteByUser(ctx, user.ID)
}

func (s *CartServiceImpl) UpdateItemQuantity(ctx context.Context, itemID string, req dto.UpdateCartItemRequest) (res domain.Cart, err error) {
	cart, id, err := s.cartAndItem(ctx, itemID)
	if err != nil {
		return
	}

	if !cart.SetItemQuantity(id, req.Quantity) {
		return res, errs.ErrCartItemNotFound
	}

	return s.cartRepo.Save(ctx, cart)
}

// ApplyCoupon keeps totalCartPrice and stores the discounted price next to it.
func (s *CartServiceImpl) ApplyCoupon(ctx context.Context, req dto.ApplyCouponRequest) (res domain.Cart, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return res, errs.ErrNotLoggedIn
	}

	coupon, err := s.couponRepo.FindValidByName(ctx, req.Coupon, s.now())
	if err != nil {
		return
	}

	cart, err := s.cartRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return
	}

	cart.ApplyDiscount(coupon.Discount)

	return s.cartRepo.Save(ctx, cart)
}

func (s *CartServiceImpl) cartAndItem(ctx context.Context, itemID string) (cart domain.Cart, id primitive.ObjectID, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return cart, id, errs.ErrNotLoggedIn
	}

	id, err = primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return cart, id, errs.ErrInvalidID
	}

	cart, err = s.cartRepo.FindByUser(ctx, user.ID)
	return
}
