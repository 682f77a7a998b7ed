package service

import (
	"context"
	"errors"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/repository"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewServiceImpl adds ownership rules and rating aggregation on top of the generic resource service.
type ReviewServiceImpl struct {
	*ResourceServiceImpl[domain.Review]
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func CreateReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository) *ReviewServiceImpl {
	s := &ReviewServiceImpl{reviewRepo: reviewRepo, productRepo: productRepo}
	s.ResourceServiceImpl = CreateResourceService[domain.Review](reviewRepo, ResourceOptions[domain.Review]{
		SearchFields: []string{"review"},
		BeforeCreate: s.beforeCreate,
		AfterLoad: func(ctx context.Context, docs []*domain.Review) error {
			reviews := make([]domain.Review, len(docs))
			for i, doc := range docs {
				reviews[i] = *doc
			}
			if err := populateReviewUsers(ctx, userRepo, reviews); err != nil {
				return err
			}
			for i, doc := range docs {
				doc.User = reviews[i].User
			}
			return nil
		},
	})

	return s
}

func (s *ReviewServiceImpl) beforeCreate(ctx context.Context, review *domain.Review) error {
	user, ok := requestctx.User(ctx)
	if !ok {
		return errs.ErrNotLoggedIn
	}
	if review.UserID.IsZero() {
		review.UserID = user.ID
	}

	if _, err := s.productRepo.FindByID(ctx, review.Product.Hex(), nil); err != nil {
		return notFound(err, review.Product.Hex())
	}

	exists, err := s.reviewRepo.ExistsForUser(ctx, review.Product, review.UserID)
	if err != nil {
		return err
	}
	if exists {
		return errs.ErrReviewExists
	}

	return nil
}

func (s *ReviewServiceImpl) Create(ctx context.Context, review domain.Review) (res domain.Review, err error) {
	res, err = s.ResourceServiceImpl.Create(ctx, review)
	if err != nil {
		return
	}

	s.recalculate(ctx, res.Product)
	return
}

// Update is only allowed to the author of the review.
func (s *ReviewServiceImpl) Update(ctx context.Context, id string, fields bson.M) (res domain.Review, err error) {
	existing, err := s.owned(ctx, id, false)
	if err != nil {
		return
	}

	delete(fields, "user")
	delete(fields, "product")

	res, err = s.ResourceServiceImpl.Update(ctx, id, fields)
	if err != nil {
		return
	}

	s.recalculate(ctx, existing.Product)
	return
}

// Delete is allowed to the author, and to admins and managers for any review.
func (s *ReviewServiceImpl) Delete(ctx context.Context, id string) (err error) {
	existing, err := s.owned(ctx, id, true)
	if err != nil {
		return
	}

	if err = s.ResourceServiceImpl.Delete(ctx, id); err != nil {
		return
	}

	s.recalculate(ctx, existing.Product)
	return
}

func (s *ReviewServiceImpl) owned(ctx context.Context, id string, staffAllowed bool) (review domain.Review, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return review, errs.ErrNotLoggedIn
	}

	review, err = s.reviewRepo.FindByID(ctx, id, requestctx.Scope(ctx))
	if err != nil {
		return review, notFound(err, id)
	}

	if staffAllowed && user.HasRole(domain.RoleAdmin, domain.RoleManager) {
		return review, nil
	}
	if review.UserID != user.ID {
		return review, errs.ErrUnauthorized
	}

	return review, nil
}

// recalculate refreshes the product rating summary. Failures are logged, the review change stands.
func (s *ReviewServiceImpl) recalculate(ctx context.Context, productID primitive.ObjectID) {
	average, quantity, err := s.reviewRepo.AggregateRatings(ctx, productID)
	if err == nil {
		err = s.productRepo.SetRatings(ctx, productID, average, quantity)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "recalculateRatings").Msg("")
	}
}

func populateReviewUsers(ctx context.Context, users repository.UserRepository, reviews []domain.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.UserID)
	}

	found, err := users.FindByIDs(ctx, ids)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	names := make(map[primitive.ObjectID]string, len(found))
	for _, u := range found {
		names[u.ID] = u.Name
	}

	for i := range reviews {
		reviews[i].User = &domain.UserSummary{ID: reviews[i].UserID, Name: names[reviews[i].UserID]}
	}

	return nil
}
