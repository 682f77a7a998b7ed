package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/middleware"
	"github.com/alimikegami/e-commerce/internal/service"
	pkgdto "github.com/alimikegami/e-commerce/pkg/dto"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/alimikegami/e-commerce/pkg/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCategoryService struct {
	docs    map[string]domain.Category
	created []domain.Category
	updates map[string]bson.M
}

func (f *fakeCategoryService) Create(ctx context.Context, doc domain.Category) (domain.Category, error) {
	doc.ID = primitive.NewObjectID()
	f.created = append(f.created, doc)
	f.docs[doc.ID.Hex()] = doc
	return doc, nil
}

func (f *fakeCategoryService) GetAll(ctx context.Context, params map[string][]string) (pkgdto.ListResult[domain.Category], error) {
	data := make([]domain.Category, 0, len(f.docs))
	for _, d := range f.docs {
		data = append(data, d)
	}
	return pkgdto.ListResult[domain.Category]{
		Results:          len(data),
		PaginationResult: pkgdto.PaginationResult{CurrentPage: 1, Limit: 50, NumberOfPages: 1},
		Data:             data,
	}, nil
}

func (f *fakeCategoryService) GetByID(ctx context.Context, id string) (domain.Category, error) {
	d, ok := f.docs[id]
	if !ok {
		return d, fmt.Errorf("%w %s", errs.ErrNoDocument, id)
	}
	return d, nil
}

func (f *fakeCategoryService) Update(ctx context.Context, id string, fields bson.M) (domain.Category, error) {
	d, ok := f.docs[id]
	if !ok {
		return d, fmt.Errorf("%w %s", errs.ErrNoDocument, id)
	}
	f.updates[id] = fields
	return d, nil
}

func (f *fakeCategoryService) Delete(ctx context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return fmt.Errorf("%w %s", errs.ErrNoDocument, id)
	}
	delete(f.docs, id)
	return nil
}

type staticAuthenticator struct {
	user domain.User
}

func (a staticAuthenticator) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token != "good" {
		return domain.User{}, errs.ErrInvalidToken
	}
	return a.user, nil
}

type fakeOrderService struct {
	service.OrderService
	webhookErr error
	payloads   [][]byte
}

func (f *fakeOrderService) HandleWebhook(ctx context.Context, payload []byte, header http.Header) error {
	f.payloads = append(f.payloads, payload)
	return f.webhookErr
}

type ControllerTestSuite struct {
	suite.Suite
	e          *echo.Echo
	categories *fakeCategoryService
	orders     *fakeOrderService
}

func (s *ControllerTestSuite) SetupTest() {
	s.e = echo.New()
	s.e.Validator = validation.NewValidator()
	s.e.HTTPErrorHandler = response.HTTPErrorHandler

	s.categories = &fakeCategoryService{docs: map[string]domain.Category{}, updates: map[string]bson.M{}}
	s.orders = &fakeOrderService{}

	admin := domain.User{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	guards := Guards{Protect: middleware.Protect(staticAuthenticator{user: admin})}
	g := s.e.Group("/api/v1")
	CreateCategoryController(g, s.categories, guards, nil)
	CreateOrderController(s.e, g, s.orders, guards)
}

func (s *ControllerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *ControllerTestSuite) Test_CreateCategory() {
	testCases := []struct {
		Name           string
		Body           string
		ExpectedStatus int
		ExpectedField  string
	}{
		{Name: "valid request", Body: `{"name":"Mobile Phones"}`, ExpectedStatus: http.StatusCreated},
		{Name: "missing name", Body: `{}`, ExpectedStatus: http.StatusBadRequest, ExpectedField: "name"},
		{Name: "name too short", Body: `{"name":"ab"}`, ExpectedStatus: http.StatusBadRequest, ExpectedField: "name"},
		{Name: "malformed body", Body: `{"name":`, ExpectedStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		s.Run(tc.Name, func() {
			rec := s.do(http.MethodPost, "/api/v1/categories", tc.Body)
			s.Equal(tc.ExpectedStatus, rec.Code)

			if tc.ExpectedField == "" {
				return
			}

			var body struct {
				Errors []validation.ValidationError `json:"errors"`
			}
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
			s.Require().NotEmpty(body.Errors)
			s.Equal(tc.ExpectedField, body.Errors[0].Field)
		})
	}

	s.Require().Len(s.categories.created, 1)
	s.Equal("mobile-phones", s.categories.created[0].Slug)
}

func (s *ControllerTestSuite) Test_GetMissingCategory() {
	id := primitive.NewObjectID().Hex()

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := s.do(method, "/api/v1/categories/"+id, "")
		s.Equal(http.StatusNotFound, rec.Code)

		var body response.ErrorResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("No document for this id "+id, body.Message)
	}
}

func (s *ControllerTestSuite) Test_ListAndDeleteCategory() {
	rec := s.do(http.MethodPost, "/api/v1/categories", `{"name":"Laptops"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	id := s.categories.created[0].ID.Hex()

	rec = s.do(http.MethodGet, "/api/v1/categories", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var list pkgdto.ListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &list))
	s.Equal("success", list.Status)
	s.Equal(1, list.Results)
	s.Equal(int64(1), list.PaginationResult.NumberOfPages)

	rec = s.do(http.MethodPut, "/api/v1/categories/"+id, `{"name":"Gaming Laptops"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(bson.M{"name": "Gaming Laptops", "slug": "gaming-laptops"}, s.categories.updates[id])

	rec = s.do(http.MethodDelete, "/api/v1/categories/"+id, "")
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *ControllerTestSuite) Test_UnknownRoute() {
	rec := s.do(http.MethodGet, "/api/v1/nothing-here", "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "/api/v1/nothing-here")
}

func (s *ControllerTestSuite) Test_Webhook() {
	rec := s.do(http.MethodPost, "/webhook-checkout", `{"id":"evt_1"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"received":true}`, rec.Body.String())
	s.Require().Len(s.orders.payloads, 1)
	s.Equal(`{"id":"evt_1"}`, string(s.orders.payloads[0]))

	s.orders.webhookErr = fmt.Errorf("%w: no signatures found", errs.ErrInvalidSignature)
	rec = s.do(http.MethodPost, "/webhook-checkout", `{"id":"evt_2"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "Webhook Error")
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}
