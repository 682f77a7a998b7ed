package controller

import (
	"net/http"

	"github.com/alimikegami/e-commerce/internal/service"
	pkgdto "github.com/alimikegami/e-commerce/pkg/dto"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/alimikegami/e-commerce/pkg/validation"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

// ResourceHandlers exposes a ResourceService as echo handlers. C is the create payload
// and U the update payload.
type ResourceHandlers[T any, C any, U any] struct {
	Service service.ResourceService[T]
	// PrepareCreate and PrepareUpdate run after binding and before validation, to fill
	// values that come from uploads or the route instead of the body.
	PrepareCreate func(e echo.Context, payload *C)
	PrepareUpdate func(e echo.Context, payload *U)
	ToEntity      func(e echo.Context, payload C) (T, error)
	ToFields      func(e echo.Context, payload U) (bson.M, error)
}

func (h *ResourceHandlers[T, C, U]) CreateOne(e echo.Context) error {
	var payload C
	if ok, err := bindAndValidate(e, &payload, "CreateOne", func() {
		if h.PrepareCreate != nil {
			h.PrepareCreate(e, &payload)
		}
	}); !ok {
		return err
	}

	doc, err := h.ToEntity(e, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	res, err := h.Service.Create(e.Request().Context(), doc)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponseWithStatus(e, http.StatusCreated, "", res)
}

func (h *ResourceHandlers[T, C, U]) GetAll(e echo.Context) error {
	res, err := h.Service.GetAll(e.Request().Context(), e.QueryParams())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.JSON(http.StatusOK, pkgdto.ListResponse{
		Status:           "success",
		Results:          res.Results,
		PaginationResult: res.PaginationResult,
		Data:             res.Data,
	})
}

func (h *ResourceHandlers[T, C, U]) GetOne(e echo.Context) error {
	res, err := h.Service.GetByID(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", res)
}

func (h *ResourceHandlers[T, C, U]) UpdateOne(e echo.Context) error {
	var payload U
	if ok, err := bindAndValidate(e, &payload, "UpdateOne", func() {
		if h.PrepareUpdate != nil {
			h.PrepareUpdate(e, &payload)
		}
	}); !ok {
		return err
	}

	fields, err := h.ToFields(e, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	res, err := h.Service.Update(e.Request().Context(), e.Param("id"), fields)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", res)
}

func (h *ResourceHandlers[T, C, U]) DeleteOne(e echo.Context) error {
	if err := h.Service.Delete(e.Request().Context(), e.Param("id")); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.NoContent(http.StatusNoContent)
}

// bindAndValidate binds the body into payload and validates it. When ok is false the
// error response has already been written and err is the result of writing it.
func bindAndValidate(e echo.Context, payload interface{}, component string, prepare func()) (ok bool, err error) {
	if err = e.Bind(payload); err != nil {
		log.Ctx(e.Request().Context()).Warn().Err(err).Str("component", component).Msg("")
		return false, response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if prepare != nil {
		prepare()
	}

	if err = e.Validate(payload); err != nil {
		return false, response.WriteErrorResponse(e, errs.ErrValidation, validation.Errors(err))
	}

	return true, nil
}
