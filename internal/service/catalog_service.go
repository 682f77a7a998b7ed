package service

import (
	"context"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/internal/repository"
)

const (
	FolderCategories = "categories"
	FolderBrands     = "brands"
	FolderProducts   = "products"
	FolderUsers      = "users"
)

var nameSearch = []string{"name"}

func CreateCategoryService(repo repository.CategoryRepository, store storage.ImageStore) ResourceService[domain.Category] {
	return CreateResourceService[domain.Category](repo, ResourceOptions[domain.Category]{
		SearchFields: nameSearch,
		AfterLoad: func(ctx context.Context, docs []*domain.Category) error {
			for _, doc := range docs {
				doc.Image = store.URL(FolderCategories, doc.Image)
			}
			return nil
		},
	})
}

func CreateBrandService(repo repository.Repository[domain.Brand], store storage.ImageStore) ResourceService[domain.Brand] {
	return CreateResourceService[domain.Brand](repo, ResourceOptions[domain.Brand]{
		SearchFields: nameSearch,
		AfterLoad: func(ctx context.Context, docs []*domain.Brand) error {
			for _, doc := range docs {
				doc.Image = store.URL(FolderBrands, doc.Image)
			}
			return nil
		},
	})
}

func CreateSubCategoryService(repo repository.SubCategoryRepository) ResourceService[domain.SubCategory] {
	return CreateResourceService[domain.SubCategory](repo, ResourceOptions[domain.SubCategory]{
		SearchFields: nameSearch,
	})
}

func CreateCouponService(repo repository.CouponRepository) ResourceService[domain.Coupon] {
	return CreateResourceService[domain.Coupon](repo, ResourceOptions[domain.Coupon]{
		SearchFields: nameSearch,
	})
}
