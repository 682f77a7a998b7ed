package service

import (
	"context"
	"errors"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/internal/repository"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type productHooks struct {
	products      repository.ProductRepository
	categories    repository.CategoryRepository
	subcategories repository.SubCategoryRepository
	reviews       repository.ReviewRepository
	users         repository.UserRepository
	store         storage.ImageStore
}

func CreateProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	subcategories repository.SubCategoryRepository,
	reviews repository.ReviewRepository,
	users repository.UserRepository,
	store storage.ImageStore,
) *ResourceServiceImpl[domain.Product] {
	h := &productHooks{products: repo, categories: categories, subcategories: subcategories, reviews: reviews, users: users, store: store}

	return CreateResourceService[domain.Product](repo, ResourceOptions[domain.Product]{
		SearchFields: []string{"title", "description"},
		BeforeCreate: h.validateRefs,
		BeforeUpdate: h.validateUpdateRefs,
		AfterLoad:    h.afterLoad,
		Populate:     h.populateReviews,
	})
}

func (h *productHooks) validateRefs(ctx context.Context, p *domain.Product) error {
	return h.checkCategory(ctx, p.CategoryID, p.Subcategories)
}

// validateUpdateRefs checks the updated fields against the stored product, so a partial
// update cannot leave subcategories outside the category or the discount above the price.
func (h *productHooks) validateUpdateRefs(ctx context.Context, id string, fields bson.M) error {
	categoryID, hasCategory := fields["category"].(primitive.ObjectID)
	subcategories, hasSubcategories := fields["subcategories"].([]primitive.ObjectID)
	price, hasPrice := fields["price"].(float64)
	discount, hasDiscount := fields["priceAfterDiscount"].(float64)
	if !hasCategory && !hasSubcategories && !hasPrice && !hasDiscount {
		return nil
	}

	existing, err := h.products.FindByID(ctx, id, requestctx.Scope(ctx))
	if err != nil {
		return notFound(err, id)
	}

	if hasPrice || hasDiscount {
		if !hasPrice {
			price = existing.Price
		}
		if !hasDiscount {
			discount = existing.PriceAfterDiscount
		}
		if discount > 0 && discount >= price {
			return errs.ErrDiscountNotBelowPrice
		}
	}

	if !hasCategory && !hasSubcategories {
		return nil
	}
	if !hasCategory {
		categoryID = existing.CategoryID
	}
	if !hasSubcategories {
		subcategories = existing.Subcategories
	}

	return h.checkCategory(ctx, categoryID, subcategories)
}

// checkCategory verifies the category exists and every subcategory belongs to it.
func (h *productHooks) checkCategory(ctx context.Context, categoryID primitive.ObjectID, subcategories []primitive.ObjectID) error {
	_, err := h.categories.FindByID(ctx, categoryID.Hex(), nil)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrCategoryNotFound
		}
		return err
	}

	if len(subcategories) == 0 {
		return nil
	}

	unique := map[primitive.ObjectID]struct{}{}
	for _, id := range subcategories {
		unique[id] = struct{}{}
	}

	count, err := h.subcategories.CountInCategory(ctx, subcategories, categoryID)
	if err != nil {
		return err
	}
	if count != int64(len(unique)) {
		return errs.ErrSubCategoryMismatch
	}

	return nil
}

func (h *productHooks) afterLoad(ctx context.Context, docs []*domain.Product) error {
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		doc.ImageCover = h.store.URL(FolderProducts, doc.ImageCover)
		for i := range doc.Images {
			doc.Images[i] = h.store.URL(FolderProducts, doc.Images[i])
		}
		if !doc.CategoryID.IsZero() {
			ids = append(ids, doc.CategoryID)
		}
	}

	if len(ids) == 0 {
		return nil
	}

	categories, err := h.categories.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	names := make(map[primitive.ObjectID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	for _, doc := range docs {
		if doc.CategoryID.IsZero() {
			continue
		}
		doc.Category = &domain.CategorySummary{ID: doc.CategoryID, Name: names[doc.CategoryID]}
	}

	return nil
}

func (h *productHooks) populateReviews(ctx context.Context, p *domain.Product) error {
	reviews, err := h.reviews.FindByProduct(ctx, p.ID)
	if err != nil {
		return err
	}

	if err := populateReviewUsers(ctx, h.users, reviews); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "populateReviews").Msg("")
	}

	p.Reviews = reviews
	return nil
}
