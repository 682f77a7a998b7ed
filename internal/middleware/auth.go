package middleware

import (
	"context"
	"strings"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/labstack/echo/v4"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.User, error)
}

// Protect requires a valid bearer token and stores the resolved user in the request context.
func Protect(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
			}

			ctx := c.Request().Context()
			user, err := auth.Authenticate(ctx, strings.TrimSpace(token))
			if err != nil {
				return response.WriteErrorResponse(c, err, nil)
			}

			c.SetRequest(c.Request().WithContext(requestctx.WithUser(ctx, user)))
			return next(c)
		}
	}
}

// AllowedTo must run after Protect.
func AllowedTo(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := requestctx.User(c.Request().Context())
			if !ok {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
			}
			if !user.HasRole(roles...) {
				return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
			}

			return next(c)
		}
	}
}
