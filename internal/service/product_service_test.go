package service

import (
	"context"
	"testing"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductServiceTestSuite struct {
	suite.Suite
	products *fakeProductRepo
	svc      ResourceService[domain.Product]

	phones  domain.Category
	laptops domain.Category
	android domain.SubCategory
	gaming  domain.SubCategory
	product domain.Product
}

func (s *ProductServiceTestSuite) SetupTest() {
	s.phones = domain.Category{ID: primitive.NewObjectID(), Name: "Phones"}
	s.laptops = domain.Category{ID: primitive.NewObjectID(), Name: "Laptops"}
	s.android = domain.SubCategory{ID: primitive.NewObjectID(), Name: "Android", Category: s.phones.ID}
	s.gaming = domain.SubCategory{ID: primitive.NewObjectID(), Name: "Gaming", Category: s.laptops.ID}
	s.product = domain.Product{
		ID:                 primitive.NewObjectID(),
		Title:              "Pixel 8",
		Price:              500,
		PriceAfterDiscount: 450,
		CategoryID:         s.phones.ID,
		Subcategories:      []primitive.ObjectID{s.android.ID},
	}

	categories := &fakeCategoryRepo{byID: map[string]domain.Category{
		s.phones.ID.Hex():  s.phones,
		s.laptops.ID.Hex(): s.laptops,
	}}
	subcategories := &fakeSubCategoryRepo{subcategories: map[primitive.ObjectID]domain.SubCategory{
		s.android.ID: s.android,
		s.gaming.ID:  s.gaming,
	}}
	s.products = &fakeProductRepo{products: map[primitive.ObjectID]domain.Product{s.product.ID: s.product}}
	store := storage.CreateLocalImageStore("uploads", "http://localhost:8000")

	s.svc = CreateProductService(s.products, categories, subcategories, nil, nil, store)
}

func (s *ProductServiceTestSuite) Test_Update() {
	testCases := []struct {
		Name        string
		Fields      bson.M
		ExpectedErr error
	}{
		{
			Name:        "subcategory from another category",
			Fields:      bson.M{"subcategories": []primitive.ObjectID{s.gaming.ID}},
			ExpectedErr: errs.ErrSubCategoryMismatch,
		},
		{
			Name:        "category change keeps old subcategories",
			Fields:      bson.M{"category": s.laptops.ID},
			ExpectedErr: errs.ErrSubCategoryMismatch,
		},
		{
			Name:        "unknown category",
			Fields:      bson.M{"category": primitive.NewObjectID(), "subcategories": []primitive.ObjectID{}},
			ExpectedErr: errs.ErrCategoryNotFound,
		},
		{
			Name:        "price below stored discount",
			Fields:      bson.M{"price": float64(400)},
			ExpectedErr: errs.ErrDiscountNotBelowPrice,
		},
		{
			Name:        "discount above stored price",
			Fields:      bson.M{"priceAfterDiscount": float64(600)},
			ExpectedErr: errs.ErrDiscountNotBelowPrice,
		},
		{
			Name:   "category and matching subcategories",
			Fields: bson.M{"category": s.laptops.ID, "subcategories": []primitive.ObjectID{s.gaming.ID}},
		},
		{
			Name:   "price and discount together",
			Fields: bson.M{"price": float64(300), "priceAfterDiscount": float64(250)},
		},
		{
			Name:   "title only",
			Fields: bson.M{"title": "Pixel 8 Pro"},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			s.products.products[s.product.ID] = s.product

			_, err := s.svc.Update(context.Background(), s.product.ID.Hex(), tc.Fields)
			if tc.ExpectedErr != nil {
				s.ErrorIs(err, tc.ExpectedErr)
				s.Equal(s.product, s.products.products[s.product.ID])
				return
			}
			s.NoError(err)
		})
	}
}

func (s *ProductServiceTestSuite) Test_UpdatePopulatesCategory() {
	res, err := s.svc.Update(context.Background(), s.product.ID.Hex(), bson.M{"price": float64(550)})
	s.Require().NoError(err)

	s.Equal(float64(550), res.Price)
	s.Require().NotNil(res.Category)
	s.Equal("Phones", res.Category.Name)
}

func (s *ProductServiceTestSuite) Test_UpdateUnknownProduct() {
	id := primitive.NewObjectID().Hex()

	_, err := s.svc.Update(context.Background(), id, bson.M{"price": float64(10)})
	s.ErrorIs(err, errs.ErrNoDocument)
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
