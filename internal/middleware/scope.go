package middleware

import (
	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScopeByParam limits a nested route to documents whose field references the
// parent id found in the route param, e.g. subcategories of /categories/:id.
func ScopeByParam(param, field string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			parentID, err := primitive.ObjectIDFromHex(c.Param(param))
			if err != nil {
				return response.WriteErrorResponse(c, errs.ErrInvalidID, nil)
			}

			ctx := requestctx.WithScope(c.Request().Context(), bson.M{field: parentID})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ScopeToOwner limits plain users to their own documents. Admins and managers see everything.
func ScopeToOwner(field string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := requestctx.User(c.Request().Context())
			if ok && user.Role == domain.RoleUser {
				ctx := requestctx.WithScope(c.Request().Context(), bson.M{field: user.ID})
				c.SetRequest(c.Request().WithContext(ctx))
			}

			return next(c)
		}
	}
}
