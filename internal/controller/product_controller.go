package controller

import (
	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/internal/middleware"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/internal/service"
	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

var productImages = []middleware.ImageField{
	{Name: "imageCover", MaxCount: 1, Width: 2000, Height: 1333},
	{Name: "images", MaxCount: 5, Width: 2000, Height: 1333},
}

func CreateProductController(g *echo.Group, svc service.ResourceService[domain.Product], guards Guards, store storage.ImageStore) {
	h := &ResourceHandlers[domain.Product, dto.ProductRequest, dto.ProductUpdateRequest]{
		Service: svc,
		PrepareCreate: func(e echo.Context, payload *dto.ProductRequest) {
			payload.ImageCover = uploaded(e, "imageCover", payload.ImageCover)
			if images := requestctx.Uploads(e.Request().Context(), "images"); len(images) > 0 {
				payload.Images = images
			}
		},
		PrepareUpdate: func(e echo.Context, payload *dto.ProductUpdateRequest) {
			payload.ImageCover = uploaded(e, "imageCover", payload.ImageCover)
			if images := requestctx.Uploads(e.Request().Context(), "images"); len(images) > 0 {
				payload.Images = images
			}
		},
		ToEntity: productFromRequest,
		ToFields: productFields,
	}

	upload := middleware.UploadImages(store, service.FolderProducts, "product", productImages...)

	g.GET("/products", h.GetAll)
	g.POST("/products", h.CreateOne, guards.Staff(upload)...)
	g.GET("/products/:id", h.GetOne)
	g.PUT("/products/:id", h.UpdateOne, guards.Staff(upload)...)
	g.DELETE("/products/:id", h.DeleteOne, guards.Admin()...)
}

func productFromRequest(e echo.Context, payload dto.ProductRequest) (domain.Product, error) {
	categoryID, err := parseObjectID(payload.Category)
	if err != nil {
		return domain.Product{}, err
	}

	subcategories, err := parseObjectIDs(payload.Subcategories)
	if err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		Title:              payload.Title,
		Slug:               slug.Make(payload.Title),
		Description:        payload.Description,
		Quantity:           *payload.Quantity,
		Sold:               payload.Sold,
		Price:              payload.Price,
		PriceAfterDiscount: payload.PriceAfterDiscount,
		Colors:             payload.Colors,
		ImageCover:         payload.ImageCover,
		Images:             payload.Images,
		CategoryID:         categoryID,
		Subcategories:      subcategories,
		RatingsAverage:     payload.RatingsAverage,
		RatingsQuantity:    payload.RatingsQuantity,
	}

	if payload.Brand != "" {
		brandID, err := parseObjectID(payload.Brand)
		if err != nil {
			return domain.Product{}, err
		}
		product.Brand = &brandID
	}

	return product, nil
}

func productFields(e echo.Context, payload dto.ProductUpdateRequest) (bson.M, error) {
	fields := bson.M{}
	if payload.Title != "" {
		fields["title"] = payload.Title
		fields["slug"] = slug.Make(payload.Title)
	}
	setIf(fields, "description", payload.Description)
	setIf(fields, "imageCover", payload.ImageCover)
	if payload.Quantity != nil {
		fields["quantity"] = *payload.Quantity
	}
	if payload.Price > 0 {
		fields["price"] = payload.Price
	}
	if payload.PriceAfterDiscount > 0 {
		fields["priceAfterDiscount"] = payload.PriceAfterDiscount
	}
	if len(payload.Colors) > 0 {
		fields["colors"] = payload.Colors
	}
	if len(payload.Images) > 0 {
		fields["images"] = payload.Images
	}
	if payload.Category != "" {
		categoryID, err := parseObjectID(payload.Category)
		if err != nil {
			return nil, err
		}
		fields["category"] = categoryID
	}
	if len(payload.Subcategories) > 0 {
		subcategories, err := parseObjectIDs(payload.Subcategories)
		if err != nil {
			return nil, err
		}
		fields["subcategories"] = subcategories
	}
	if payload.Brand != "" {
		brandID, err := parseObjectID(payload.Brand)
		if err != nil {
			return nil, err
		}
		fields["brand"] = brandID
	}

	return fields, nil
}
