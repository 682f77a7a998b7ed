package service

import (
	"context"
	"testing"
	"time"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/internal/requestctx"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/utils"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceTestSuite struct {
	suite.Suite
	users       *fakeUserRepo
	products    *fakeProductRepo
	transformer *fakeTransformer
	svc         UserService

	user    domain.User
	product domain.Product
}

func (s *UserServiceTestSuite) SetupTest() {
	hashed, err := bcrypt.GenerateFromPassword([]byte("pass123"), bcrypt.MinCost)
	s.Require().NoError(err)

	s.user = domain.User{
		ID:       primitive.NewObjectID(),
		Name:     "Ahmed",
		Email:    "ahmed@example.com",
		Password: string(hashed),
		Role:     domain.RoleUser,
		Active:   true,
	}
	s.product = domain.Product{ID: primitive.NewObjectID(), Title: "Wireless headphones", ImageCover: "cover.jpeg"}

	s.users = &fakeUserRepo{users: map[primitive.ObjectID]domain.User{s.user.ID: s.user}}
	s.products = &fakeProductRepo{products: map[primitive.ObjectID]domain.Product{s.product.ID: s.product}}
	s.transformer = &fakeTransformer{}
	s.svc = CreateUserService(s.users, s.products, s.transformer, storage.CreateLocalImageStore("uploads", "http://localhost:8000"), testSecret, time.Hour)
}

// ctx reflects the stored user, the way Protect loads it on every request.
func (s *UserServiceTestSuite) ctx() context.Context {
	return requestctx.WithUser(context.Background(), s.users.users[s.user.ID])
}

func (s *UserServiceTestSuite) Test_ChangeMyPassword() {
	testCases := []struct {
		Name        string
		Request     dto.ChangePasswordRequest
		ExpectedErr error
	}{
		{
			Name:        "wrong current password",
			Request:     dto.ChangePasswordRequest{CurrentPassword: "nope", Password: "newpass1", PasswordConfirm: "newpass1"},
			ExpectedErr: errs.ErrWrongPassword,
		},
		{
			Name:        "confirmation mismatch",
			Request:     dto.ChangePasswordRequest{CurrentPassword: "pass123", Password: "newpass1", PasswordConfirm: "newpass2"},
			ExpectedErr: errs.ErrInvalidPasswordConfirmation,
		},
		{
			Name:    "success",
			Request: dto.ChangePasswordRequest{CurrentPassword: "pass123", Password: "newpass1", PasswordConfirm: "newpass1"},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			res, err := s.svc.ChangeMyPassword(s.ctx(), tc.Request)
			if tc.ExpectedErr != nil {
				s.ErrorIs(err, tc.ExpectedErr)
				return
			}

			s.Require().NoError(err)
			claims, err := utils.ParseJWTToken(res.Token, testSecret)
			s.Require().NoError(err)
			s.Equal(s.user.ID.Hex(), claims.UserID)

			stored := s.users.users[s.user.ID]
			s.NoError(bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpass1")))
			s.NotNil(stored.PasswordChangedAt)
		})
	}
}

func (s *UserServiceTestSuite) Test_UpdateMeKeepsProfileFields() {
	res, err := s.svc.UpdateMe(s.ctx(), bson.M{"name": "Ahmed Ali", "role": domain.RoleAdmin, "password": "x"})
	s.Require().NoError(err)

	s.Equal("Ahmed Ali", res.Name)
	s.Equal(bson.M{"name": "Ahmed Ali"}, s.users.lastUpdate)
	s.Equal(domain.RoleUser, s.users.users[s.user.ID].Role)
}

func (s *UserServiceTestSuite) Test_UpdateMeEmailTaken() {
	other := domain.User{ID: primitive.NewObjectID(), Email: "mona@example.com"}
	s.users.users[other.ID] = other

	_, err := s.svc.UpdateMe(s.ctx(), bson.M{"email": "mona@example.com"})
	s.ErrorIs(err, errs.ErrEmailAlreadyUsed)

	_, err = s.svc.UpdateMe(s.ctx(), bson.M{"email": s.user.Email})
	s.NoError(err)
}

func (s *UserServiceTestSuite) Test_DeleteMe() {
	s.Require().NoError(s.svc.DeleteMe(s.ctx()))
	s.False(s.users.users[s.user.ID].Active)
}

func (s *UserServiceTestSuite) Test_Wishlist() {
	_, err := s.svc.AddToWishlist(s.ctx(), primitive.NewObjectID().Hex())
	s.ErrorIs(err, errs.ErrNoDocument)

	_, err = s.svc.AddToWishlist(s.ctx(), "not-an-id")
	s.ErrorIs(err, errs.ErrInvalidID)

	for i := 0; i < 2; i++ {
		ids, err := s.svc.AddToWishlist(s.ctx(), s.product.ID.Hex())
		s.Require().NoError(err)
		s.Equal([]primitive.ObjectID{s.product.ID}, ids)
	}

	products, err := s.svc.GetWishlist(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	s.Equal("http://localhost:8000/products/cover.jpeg", products[0].ImageCover)
	s.Equal(1, s.transformer.calls)
}

func (s *UserServiceTestSuite) Test_EmptyWishlistAndAddresses() {
	products, err := s.svc.GetWishlist(s.ctx())
	s.Require().NoError(err)
	s.NotNil(products)
	s.Empty(products)

	addresses, err := s.svc.GetAddresses(s.ctx())
	s.Require().NoError(err)
	s.NotNil(addresses)
	s.Empty(addresses)

	_, err = s.svc.GetAddresses(context.Background())
	s.ErrorIs(err, errs.ErrNotLoggedIn)
}

func (s *UserServiceTestSuite) Test_AddAddress() {
	res, err := s.svc.AddAddress(s.ctx(), dto.AddressRequest{Alias: "home", Details: "12 Nile St", City: "Cairo"})
	s.Require().NoError(err)

	s.Require().Len(res, 1)
	s.False(res[0].ID.IsZero())
	s.Equal("home", res[0].Alias)
}

func (s *UserServiceTestSuite) Test_ClearExpiredResetCodes() {
	expired := time.Now().Add(-time.Minute)
	u := s.users.users[s.user.ID]
	u.PasswordResetCode = "digest"
	u.PasswordResetExpires = &expired
	s.users.users[s.user.ID] = u

	s.Require().NoError(s.svc.ClearExpiredResetCodes(context.Background()))
	s.Empty(s.users.users[s.user.ID].PasswordResetCode)
}

func (s *UserServiceTestSuite) Test_SearchMatchesNameOnly() {
	_, err := s.svc.GetAll(context.Background(), map[string][]string{"keyword": {"example.com"}})
	s.Require().NoError(err)

	s.Equal(bson.M{"name": bson.M{"$regex": `example\.com`, "$options": "i"}}, s.users.countFilter)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
