package controller

import (
	"fmt"
	"time"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/internal/middleware"
	"github.com/alimikegami/e-commerce/internal/service"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

var squareImage = middleware.ImageField{Name: "image", MaxCount: 1, Width: 600, Height: 600}

func CreateCategoryController(g *echo.Group, svc service.ResourceService[domain.Category], guards Guards, store storage.ImageStore) {
	h := &ResourceHandlers[domain.Category, dto.CategoryRequest, dto.CategoryUpdateRequest]{
		Service: svc,
		PrepareCreate: func(e echo.Context, payload *dto.CategoryRequest) {
			payload.Image = uploaded(e, "image", payload.Image)
		},
		PrepareUpdate: func(e echo.Context, payload *dto.CategoryUpdateRequest) {
			payload.Image = uploaded(e, "image", payload.Image)
		},
		ToEntity: func(e echo.Context, payload dto.CategoryRequest) (domain.Category, error) {
			return domain.Category{Name: payload.Name, Slug: slug.Make(payload.Name), Image: payload.Image}, nil
		},
		ToFields: func(e echo.Context, payload dto.CategoryUpdateRequest) (bson.M, error) {
			fields := bson.M{}
			setName(fields, payload.Name)
			setIf(fields, "image", payload.Image)
			return fields, nil
		},
	}

	upload := middleware.UploadImages(store, service.FolderCategories, "category", squareImage)

	g.GET("/categories", h.GetAll)
	g.POST("/categories", h.CreateOne, guards.Staff(upload)...)
	g.GET("/categories/:id", h.GetOne)
	g.PUT("/categories/:id", h.UpdateOne, guards.Staff(upload)...)
	g.DELETE("/categories/:id", h.DeleteOne, guards.Admin()...)
}

func CreateSubCategoryController(g *echo.Group, svc service.ResourceService[domain.SubCategory], guards Guards) {
	h := &ResourceHandlers[domain.SubCategory, dto.SubCategoryRequest, dto.SubCategoryUpdateRequest]{
		Service: svc,
		PrepareCreate: func(e echo.Context, payload *dto.SubCategoryRequest) {
			if payload.Category == "" {
				payload.Category = scopedID(e, "category")
			}
		},
		ToEntity: func(e echo.Context, payload dto.SubCategoryRequest) (domain.SubCategory, error) {
			categoryID, err := parseObjectID(payload.Category)
			if err != nil {
				return domain.SubCategory{}, err
			}
			return domain.SubCategory{Name: payload.Name, Slug: slug.Make(payload.Name), Category: categoryID}, nil
		},
		ToFields: func(e echo.Context, payload dto.SubCategoryUpdateRequest) (bson.M, error) {
			fields := bson.M{}
			setName(fields, payload.Name)
			if payload.Category != "" {
				categoryID, err := parseObjectID(payload.Category)
				if err != nil {
					return nil, err
				}
				fields["category"] = categoryID
			}
			return fields, nil
		},
	}

	nested := middleware.ScopeByParam("id", "category")

	g.GET("/subcategories", h.GetAll)
	g.POST("/subcategories", h.CreateOne, guards.Staff()...)
	g.GET("/subcategories/:id", h.GetOne)
	g.PUT("/subcategories/:id", h.UpdateOne, guards.Staff()...)
	g.DELETE("/subcategories/:id", h.DeleteOne, guards.Admin()...)

	g.GET("/categories/:id/subcategories", h.GetAll, nested)
	g.POST("/categories/:id/subcategories", h.CreateOne, append(guards.Staff(), nested)...)
}

func CreateBrandController(g *echo.Group, svc service.ResourceService[domain.Brand], guards Guards, store storage.ImageStore) {
	h := &ResourceHandlers[domain.Brand, dto.BrandRequest, dto.BrandUpdateRequest]{
		Service: svc,
		PrepareCreate: func(e echo.Context, payload *dto.BrandRequest) {
			payload.Image = uploaded(e, "image", payload.Image)
		},
		PrepareUpdate: func(e echo.Context, payload *dto.BrandUpdateRequest) {
			payload.Image = uploaded(e, "image", payload.Image)
		},
		ToEntity: func(e echo.Context, payload dto.BrandRequest) (domain.Brand, error) {
			return domain.Brand{Name: payload.Name, Slug: slug.Make(payload.Name), Image: payload.Image}, nil
		},
		ToFields: func(e echo.Context, payload dto.BrandUpdateRequest) (bson.M, error) {
			fields := bson.M{}
			setName(fields, payload.Name)
			setIf(fields, "image", payload.Image)
			return fields, nil
		},
	}

	upload := middleware.UploadImages(store, service.FolderBrands, "brand", squareImage)

	g.GET("/brands", h.GetAll)
	g.POST("/brands", h.CreateOne, guards.Staff(upload)...)
	g.GET("/brands/:id", h.GetOne)
	g.PUT("/brands/:id", h.UpdateOne, guards.Staff(upload)...)
	g.DELETE("/brands/:id", h.DeleteOne, guards.Admin()...)
}

func CreateCouponController(g *echo.Group, svc service.ResourceService[domain.Coupon], guards Guards) {
	h := &ResourceHandlers[domain.Coupon, dto.CouponRequest, dto.CouponUpdateRequest]{
		Service: svc,
		ToEntity: func(e echo.Context, payload dto.CouponRequest) (domain.Coupon, error) {
			expire, err := parseDate(payload.Expire)
			if err != nil {
				return domain.Coupon{}, err
			}
			return domain.Coupon{Name: payload.Name, Expire: expire, Discount: payload.Discount}, nil
		},
		ToFields: func(e echo.Context, payload dto.CouponUpdateRequest) (bson.M, error) {
			fields := bson.M{}
			setIf(fields, "name", payload.Name)
			if payload.Expire != "" {
				expire, err := parseDate(payload.Expire)
				if err != nil {
					return nil, err
				}
				fields["expire"] = expire
			}
			if payload.Discount > 0 {
				fields["discount"] = payload.Discount
			}
			return fields, nil
		},
	}

	g.GET("/coupons", h.GetAll, guards.Staff()...)
	g.POST("/coupons", h.CreateOne, guards.Staff()...)
	g.GET("/coupons/:id", h.GetOne, guards.Staff()...)
	g.PUT("/coupons/:id", h.UpdateOne, guards.Staff()...)
	g.DELETE("/coupons/:id", h.DeleteOne, guards.Staff()...)
}

func setName(fields bson.M, name string) {
	if name == "" {
		return
	}
	fields["name"] = name
	fields["slug"] = slug.Make(name)
}

func setIf(fields bson.M, key, value string) {
	if value != "" {
		fields[key] = value
	}
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", errs.ErrValidation, raw)
}
