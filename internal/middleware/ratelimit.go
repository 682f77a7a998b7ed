package middleware

import (
	"time"

	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimiter gives each client IP a token bucket holding max tokens that refills at
// max per window, so a burst of max requests is allowed and the budget then recovers
// gradually instead of resetting at the end of a fixed window. The returned middleware
// keeps one store, so routes sharing it share the bucket.
func RateLimiter(max int, window time.Duration) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(max) / window.Seconds()),
		Burst:     max,
		ExpiresIn: window,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.WriteErrorResponse(c, errs.ErrClient, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return response.WriteErrorResponse(c, errs.ErrTooManyRequests, nil)
		},
	})
}
