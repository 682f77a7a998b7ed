package app

import (
	"github.com/alimikegami/e-commerce/config"
	"github.com/alimikegami/e-commerce/internal/controller"
	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/infrastructure/storage"
	localmiddleware "github.com/alimikegami/e-commerce/internal/middleware"
	"github.com/alimikegami/e-commerce/internal/service"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/labstack/echo/v4"
)

type services struct {
	store         storage.ImageStore
	categories    service.ResourceService[domain.Category]
	subCategories service.ResourceService[domain.SubCategory]
	brands        service.ResourceService[domain.Brand]
	products      service.ResourceService[domain.Product]
	coupons       service.ResourceService[domain.Coupon]
	reviews       service.ResourceService[domain.Review]
	users         service.UserService
	auth          service.AuthService
	carts         service.CartService
	orders        service.OrderService
}

func registerRoutes(e *echo.Echo, svcs services, limits config.RateLimitConfig) {
	g := e.Group("/api/v1")
	guards := controller.Guards{Protect: localmiddleware.Protect(svcs.auth)}

	// login and forgotPassword draw from one budget per client
	limiter := localmiddleware.RateLimiter(limits.Max, limits.Window)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	controller.CreateCategoryController(g, svcs.categories, guards, svcs.store)
	controller.CreateSubCategoryController(g, svcs.subCategories, guards)
	controller.CreateBrandController(g, svcs.brands, guards, svcs.store)
	controller.CreateProductController(g, svcs.products, guards, svcs.store)
	controller.CreateReviewController(g, svcs.reviews, guards)
	controller.CreateCouponController(g, svcs.coupons, guards)
	controller.CreateUserController(g, svcs.users, guards, svcs.store)
	controller.CreateAuthController(g, svcs.auth, limiter)
	controller.CreateWishlistController(g, svcs.users, guards)
	controller.CreateCartController(g, svcs.carts, guards)
	controller.CreateOrderController(e, g, svcs.orders, guards)
}
