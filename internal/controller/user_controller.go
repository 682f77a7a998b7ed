package controller

import (
	"net/http"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/internal/middleware"
	"github.com/alimikegami/e-commerce/internal/service"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

type UserController struct {
	service service.UserService
}

func CreateUserController(g *echo.Group, svc service.UserService, guards Guards, store storage.ImageStore) {
	uc := UserController{service: svc}

	h := &ResourceHandlers[domain.User, dto.UserRequest, dto.UserUpdateRequest]{
		Service: svc,
		PrepareCreate: func(e echo.Context, payload *dto.UserRequest) {
			payload.ProfileImg = uploaded(e, "profileImg", payload.ProfileImg)
		},
		PrepareUpdate: func(e echo.Context, payload *dto.UserUpdateRequest) {
			payload.ProfileImg = uploaded(e, "profileImg", payload.ProfileImg)
		},
		ToEntity: func(e echo.Context, payload dto.UserRequest) (domain.User, error) {
			return domain.User{
				Name:       payload.Name,
				Slug:       slug.Make(payload.Name),
				Email:      payload.Email,
				Phone:      payload.Phone,
				ProfileImg: payload.ProfileImg,
				Password:   payload.Password,
				Role:       payload.Role,
			}, nil
		},
		ToFields: func(e echo.Context, payload dto.UserUpdateRequest) (bson.M, error) {
			fields := bson.M{}
			setName(fields, payload.Name)
			setIf(fields, "email", payload.Email)
			setIf(fields, "phone", payload.Phone)
			setIf(fields, "profileImg", payload.ProfileImg)
			setIf(fields, "role", payload.Role)
			return fields, nil
		},
	}

	upload := middleware.UploadImages(store, service.FolderUsers, "user",
		middleware.ImageField{Name: "profileImg", MaxCount: 1, Width: 600, Height: 600})

	g.GET("/users/getMe", uc.GetMe, guards.Protect)
	g.PUT("/users/changeMyPassword", uc.ChangeMyPassword, guards.Protect)
	g.PUT("/users/updateMe", uc.UpdateMe, guards.Protect)
	g.DELETE("/users/deleteMe", uc.DeleteMe, guards.Protect)

	g.PUT("/users/changePassword/:id", uc.ChangePassword, guards.Staff()...)
	g.GET("/users", h.GetAll, guards.Staff()...)
	g.POST("/users", h.CreateOne, guards.Staff(upload)...)
	g.GET("/users/:id", h.GetOne, guards.Staff()...)
	g.PUT("/users/:id", h.UpdateOne, guards.Staff(upload)...)
	g.DELETE("/users/:id", h.DeleteOne, guards.Staff()...)
}

func (uc *UserController) GetMe(e echo.Context) error {
	res, err := uc.service.GetMe(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", res)
}

func (uc *UserController) ChangePassword(e echo.Context) error {
	payload := dto.ChangePasswordRequest{}
	if ok, err := bindAndValidate(e, &payload, "ChangePassword", nil); !ok {
		return err
	}

	res, err := uc.service.ChangePassword(e.Request().Context(), e.Param("id"), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", res)
}

func (uc *UserController) ChangeMyPassword(e echo.Context) error {
	payload := dto.ChangePasswordRequest{}
	if ok, err := bindAndValidate(e, &payload, "ChangeMyPassword", nil); !ok {
		return err
	}

	res, err := uc.service.ChangeMyPassword(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.JSON(http.StatusOK, res)
}

func (uc *UserController) UpdateMe(e echo.Context) error {
	payload := dto.UpdateMeRequest{}
	if ok, err := bindAndValidate(e, &payload, "UpdateMe", nil); !ok {
		return err
	}

	fields := bson.M{}
	setName(fields, payload.Name)
	setIf(fields, "email", payload.Email)
	setIf(fields, "phone", payload.Phone)

	res, err := uc.service.UpdateMe(e.Request().Context(), fields)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", res)
}

func (uc *UserController) DeleteMe(e echo.Context) error {
	if err := uc.service.DeleteMe(e.Request().Context()); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.NoContent(http.StatusNoContent)
}
