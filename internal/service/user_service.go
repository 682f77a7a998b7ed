package service

import (
	"context"
	"errors"
	"time"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/internal/repository"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/utils"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type UserService interface {
	ResourceService[domain.User]
	ChangePassword(ctx context.Context, id string, req dto.ChangePasswordRequest) (res domain.User, err error)
	GetMe(ctx context.Context) (res domain.User, err error)
	ChangeMyPassword(ctx context.Context, req dto.ChangePasswordRequest) (res dto.AuthResponse, err error)
	UpdateMe(ctx context.Context, fields bson.M) (res domain.User, err error)
	DeleteMe(ctx context.Context) (err error)
	AddToWishlist(ctx context.Context, productID string) (res []primitive.ObjectID, err error)
	RemoveFromWishlist(ctx context.Context, productID string) (res []primitive.ObjectID, err error)
	GetWishlist(ctx context.Context) (res []domain.Product, err error)
	AddAddress(ctx context.Context, req dto.AddressRequest) (res []domain.Address, err error)
	RemoveAddress(ctx context.Context, addressID string) (res []domain.Address, err error)
	GetAddresses(ctx context.Context) (res []domain.Address, err error)
	ClearExpiredResetCodes(ctx context.Context) (err error)
}

// ProductTransformer rewrites stored product documents into their public form.
type ProductTransformer interface {
	Transform(ctx context.Context, docs ...*domain.Product) error
}

type UserServiceImpl struct {
	*ResourceServiceImpl[domain.User]
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	products    ProductTransformer
	jwtSecret   string
	jwtTTL      time.Duration
}

func CreateUserService(userRepo repository.UserRepository, productRepo repository.ProductRepository, products ProductTransformer, store storage.ImageStore, jwtSecret string, jwtTTL time.Duration) UserService {
	s := &UserServiceImpl{
		userRepo:    userRepo,
		productRepo: productRepo,
		products:    products,
		jwtSecret:   jwtSecret,
		jwtTTL:      jwtTTL,
	}
	s.ResourceServiceImpl = CreateResourceService[domain.User](userRepo, ResourceOptions[domain.User]{
		SearchFields: nameSearch,
		BeforeCreate: s.beforeCreate,
		BeforeUpdate: s.beforeUpdate,
		AfterLoad: func(ctx context.Context, docs []*domain.User) error {
			for _, doc := range docs {
				doc.ProfileImg = store.URL(FolderUsers, doc.ProfileImg)
			}
			return nil
		},
	})

	return s
}

func (s *UserServiceImpl) beforeCreate(ctx context.Context, user *domain.User) error {
	if err := s.ensureEmailFree(ctx, user.Email, primitive.NilObjectID); err != nil {
		return err
	}

	hashed, err := hashPassword(user.Password)
	if err != nil {
		return err
	}

	user.Password = hashed
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	user.Active = true

	return nil
}

func (s *UserServiceImpl) beforeUpdate(ctx context.Context, id string, fields bson.M) error {
	email, ok := fields["email"].(string)
	if !ok || email == "" {
		return nil
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrInvalidID
	}

	return s.ensureEmailFree(ctx, email, oid)
}

func (s *UserServiceImpl) ensureEmailFree(ctx context.Context, email string, owner primitive.ObjectID) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != owner {
		return errs.ErrEmailAlreadyUsed
	}

	return nil
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, id string, req dto.ChangePasswordRequest) (res domain.User, err error) {
	user, err := s.userRepo.FindByID(ctx, id, nil)
	if err != nil {
		return res, notFound(err, id)
	}

	if err = s.setPassword(ctx, user, req); err != nil {
		return
	}

	return s.GetByID(ctx, id)
}

func (s *UserServiceImpl) GetMe(ctx context.Context) (res domain.User, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return res, errs.ErrNotLoggedIn
	}

	return s.GetByID(ctx, user.ID.Hex())
}

// ChangeMyPassword updates the caller's password and returns a fresh token, since
// tokens issued before the change stop being accepted.
func (s *UserServiceImpl) ChangeMyPassword(ctx context.Context, req dto.ChangePasswordRequest) (res dto.AuthResponse, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return res, errs.ErrNotLoggedIn
	}

	if err = s.setPassword(ctx, user, req); err != nil {
		return
	}

	updated, err := s.GetByID(ctx, user.ID.Hex())
	if err != nil {
		return
	}

	token, err := utils.CreateJWTToken(user.ID.Hex(), s.jwtSecret, s.jwtTTL)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ChangeMyPassword").Msg("")
		return res, errs.ErrInternalServer
	}

	return dto.AuthResponse{Data: &updated, Token: token}, nil
}

func (s *UserServiceImpl) setPassword(ctx context.Context, user domain.User, req dto.ChangePasswordRequest) error {
	if req.Password != req.PasswordConfirm {
		return errs.ErrInvalidPasswordConfirmation
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		return errs.ErrWrongPassword
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, hashed, time.Now())
}

func (s *UserServiceImpl) UpdateMe(ctx context.Context, fields bson.M) (res domain.User, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return res, errs.ErrNotLoggedIn
	}

	allowed := bson.M{}
	for _, key := range []string{"name", "email", "phone"} {
		if v, ok := fields[key]; ok {
			allowed[key] = v
		}
	}

	return s.Update(ctx, user.ID.Hex(), allowed)
}

func (s *UserServiceImpl) DeleteMe(ctx context.Context) (err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return errs.ErrNotLoggedIn
	}

	_, err = s.userRepo.UpdateByID(ctx, user.ID.Hex(), nil, bson.M{"active": false})
	return
}

func (s *UserServiceImpl) AddToWishlist(ctx context.Context, productID string) (res []primitive.ObjectID, err error) {
	user, pid, err := s.callerAnd(ctx, productID)
	if err != nil {
		return
	}

	if _, err = s.productRepo.FindByID(ctx, productID, nil); err != nil {
		return res, notFound(err, productID)
	}

	updated, err := s.userRepo.AddToWishlist(ctx, user.ID, pid)
	return updated.Wishlist, err
}

func (s *UserServiceImpl) RemoveFromWishlist(ctx context.Context, productID string) (res []primitive.ObjectID, err error) {
	user, pid, err := s.callerAnd(ctx, productID)
	if err != nil {
		return
	}

	updated, err := s.userRepo.RemoveFromWishlist(ctx, user.ID, pid)
	return updated.Wishlist, err
}

func (s *UserServiceImpl) GetWishlist(ctx context.Context) (res []domain.Product, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return res, errs.ErrNotLoggedIn
	}

	if len(user.Wishlist) == 0 {
		return []domain.Product{}, nil
	}

	res, err = s.productRepo.FindByIDs(ctx, user.Wishlist)
	if err != nil {
		return
	}

	ptrs := make([]*domain.Product, len(res))
	for i := range res {
		ptrs[i] = &res[i]
	}
	err = s.products.Transform(ctx, ptrs...)
	return
}

func (s *UserServiceImpl) AddAddress(ctx context.Context, req dto.AddressRequest) (res []domain.Address, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return res, errs.ErrNotLoggedIn
	}

	updated, err := s.userRepo.AddAddress(ctx, user.ID, domain.Address{
		ID:         primitive.NewObjectID(),
		Alias:      req.Alias,
		Details:    req.Details,
		Phone:      req.Phone,
		City:       req.City,
		PostalCode: req.PostalCode,
	})
	return updated.Addresses, err
}

func (s *UserServiceImpl) RemoveAddress(ctx context.Context, addressID string) (res []domain.Address, err error) {
	user, aid, err := s.callerAnd(ctx, addressID)
	if err != nil {
		return
	}

	updated, err := s.userRepo.RemoveAddress(ctx, user.ID, aid)
	return updated.Addresses, err
}

func (s *UserServiceImpl) GetAddresses(ctx context.Context) (res []domain.Address, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return res, errs.ErrNotLoggedIn
	}

	if user.Addresses == nil {
		return []domain.Address{}, nil
	}
	return user.Addresses, nil
}

func (s *UserServiceImpl) ClearExpiredResetCodes(ctx context.Context) (err error) {
	cleared, err := s.userRepo.ClearExpiredResetCodes(ctx, time.Now())
	if err != nil {
		return
	}

	if cleared > 0 {
		log.Ctx(ctx).Info().Int64("cleared", cleared).Msg("expired reset codes removed")
	}
	return nil
}

func (s *UserServiceImpl) callerAnd(ctx context.Context, hexID string) (user domain.User, id primitive.ObjectID, err error) {
	user, ok := requestctx.User(ctx)
	if !ok {
		return user, id, errs.ErrNotLoggedIn
	}

	id, err = primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return user, id, errs.ErrInvalidID
	}

	return user, id, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}
