package controller

import (
	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/middleware"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Guards builds the middleware chains for the access levels routes are registered with.
type Guards struct {
	Protect echo.MiddlewareFunc
}

func (g Guards) Roles(roles ...string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.Protect, middleware.AllowedTo(roles...)}
}

func (g Guards) Staff(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	return append(g.Roles(domain.RoleAdmin, domain.RoleManager), extra...)
}

func (g Guards) Admin() []echo.MiddlewareFunc {
	return g.Roles(domain.RoleAdmin)
}

func (g Guards) User(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	return append(g.Roles(domain.RoleUser), extra...)
}

func parseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return id, errs.ErrInvalidID
	}
	return id, nil
}

func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, hex := range hexes {
		id, err := parseObjectID(hex)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// scopedID returns the parent id a nested route put into the request scope.
func scopedID(e echo.Context, field string) string {
	if id, ok := requestctx.Scope(e.Request().Context())[field].(primitive.ObjectID); ok {
		return id.Hex()
	}
	return ""
}

// uploaded returns the stored file name for field, or fallback when nothing was uploaded.
func uploaded(e echo.Context, field, fallback string) string {
	if name := requestctx.Upload(e.Request().Context(), field); name != "" {
		return name
	}
	return fallback
}
