package controller

import (
	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/middleware"
	"github.com/alimikegami/e-commerce/internal/service"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

func CreateReviewController(g *echo.Group, svc service.ResourceService[domain.Review], guards Guards) {
	h := &ResourceHandlers[domain.Review, dto.ReviewRequest, dto.ReviewUpdateRequest]{
		Service: svc,
		PrepareCreate: func(e echo.Context, payload *dto.ReviewRequest) {
			if payload.Product == "" {
				payload.Product = scopedID(e, "product")
			}
		},
		ToEntity: func(e echo.Context, payload dto.ReviewRequest) (domain.Review, error) {
			productID, err := parseObjectID(payload.Product)
			if err != nil {
				return domain.Review{}, err
			}
			return domain.Review{Review: payload.Review, Rating: payload.Rating, Product: productID}, nil
		},
		ToFields: func(e echo.Context, payload dto.ReviewUpdateRequest) (bson.M, error) {
			fields := bson.M{}
			setIf(fields, "review", payload.Review)
			if payload.Rating > 0 {
				fields["rating"] = payload.Rating
			}
			return fields, nil
		},
	}

	nested := middleware.ScopeByParam("id", "product")

	g.GET("/reviews", h.GetAll)
	g.POST("/reviews", h.CreateOne, guards.User()...)
	g.GET("/reviews/:id", h.GetOne)
	g.PUT("/reviews/:id", h.UpdateOne, guards.User()...)
	g.DELETE("/reviews/:id", h.DeleteOne, guards.Roles(domain.RoleUser, domain.RoleManager, domain.RoleAdmin)...)

	g.GET("/products/:id/reviews", h.GetAll, nested)
	g.POST("/products/:id/reviews", h.CreateOne, guards.User(nested)...)
}
