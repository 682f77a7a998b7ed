package controller

import (
	"net/http"

	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/service"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/labstack/echo/v4"
)

type AuthController struct {
	service service.AuthService
}

// CreateAuthController registers the public auth routes. limiter guards login and
// forgotPassword with one shared budget per client.
func CreateAuthController(g *echo.Group, svc service.AuthService, limiter echo.MiddlewareFunc) {
	ac := AuthController{service: svc}

	g.POST("/auth/signup", ac.Signup)
	g.POST("/auth/login", ac.Login, limiter)
	g.POST("/auth/forgotPassword", ac.ForgotPassword, limiter)
	g.POST("/auth/verifyResetCode", ac.VerifyResetCode)
	g.PUT("/auth/resetPassword", ac.ResetPassword)
}

func (ac *AuthController) Signup(e echo.Context) error {
	payload := dto.SignupRequest{}
	if ok, err := bindAndValidate(e, &payload, "Signup", nil); !ok {
		return err
	}

	res, err := ac.service.Signup(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.JSON(http.StatusCreated, res)
}

func (ac *AuthController) Login(e echo.Context) error {
	payload := dto.LoginRequest{}
	if ok, err := bindAndValidate(e, &payload, "Login", nil); !ok {
		return err
	}

	res, err := ac.service.Login(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.JSON(http.StatusOK, res)
}

func (ac *AuthController) ForgotPassword(e echo.Context) error {
	payload := dto.ForgotPasswordRequest{}
	if ok, err := bindAndValidate(e, &payload, "ForgotPassword", nil); !ok {
		return err
	}

	if err := ac.service.ForgotPassword(e.Request().Context(), payload); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Reset code sent to your email", nil)
}

func (ac *AuthController) VerifyResetCode(e echo.Context) error {
	payload := dto.VerifyResetCodeRequest{}
	if ok, err := bindAndValidate(e, &payload, "VerifyResetCode", nil); !ok {
		return err
	}

	if err := ac.service.VerifyResetCode(e.Request().Context(), payload); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", nil)
}

func (ac *AuthController) ResetPassword(e echo.Context) error {
	payload := dto.ResetPasswordRequest{}
	if ok, err := bindAndValidate(e, &payload, "ResetPassword", nil); !ok {
		return err
	}

	token, err := ac.service.ResetPassword(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.JSON(http.StatusOK, dto.AuthResponse{Token: token})
}
