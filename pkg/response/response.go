package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

func WriteSuccessResponse(c echo.Context, message string, data interface{}) error {
	return WriteSuccessResponseWithStatus(c, http.StatusOK, message, data)
}

func WriteSuccessResponseWithStatus(c echo.Context, statusCode int, message string, data interface{}) error {
	resp := SuccessResponse{}
	resp.Status = "success"
	resp.Data = data
	resp.Message = message

	return c.JSON(statusCode, resp)
}

func WriteErrorResponse(c echo.Context, err error, errors interface{}) error {
	statusCode := errs.GetErrorStatusCode(err)
	resp := ErrorResponse{}
	resp.Status = "error"
	resp.Message = err.Error()
	resp.Errors = errors

	if statusCode >= http.StatusInternalServerError {
		log.Ctx(c.Request().Context()).Error().Err(err).Str("component", "WriteErrorResponse").Msg("")
		if !errs.IsKnown(err) {
			resp.Message = errs.ErrInternalServer.Error()
		}
	}

	return c.JSON(statusCode, resp)
}

// HTTPErrorHandler is the terminal error handler for everything a handler returns instead of writing.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			err = fmt.Errorf("%w: %s", errs.ErrRouteNotFound, c.Request().URL.Path)
		case http.StatusTooManyRequests:
			err = errs.ErrTooManyRequests
		default:
			if httpErr.Code >= http.StatusInternalServerError {
				log.Ctx(c.Request().Context()).Error().Err(err).Str("component", "HTTPErrorHandler").Msg("")
			}
			writeErr := c.JSON(httpErr.Code, ErrorResponse{Status: "error", Message: fmt.Sprint(httpErr.Message)})
			if writeErr != nil {
				log.Ctx(c.Request().Context()).Error().Err(writeErr).Str("component", "HTTPErrorHandler").Msg("")
			}
			return
		}
	}

	if writeErr := WriteErrorResponse(c, err, nil); writeErr != nil {
		log.Ctx(c.Request().Context()).Error().Err(writeErr).Str("component", "HTTPErrorHandler").Msg("")
	}
}
