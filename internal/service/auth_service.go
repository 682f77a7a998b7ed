package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/alimikegami/e-commerce/internal/domain"
	"github.com/alimikegami/e-commerce/internal/dto"
	"github.com/alimikegami/e-commerce/internal/repository"
	"github.com/alimikegami/e-commerce/pkg/errs"
	"github.com/alimikegami/e-commerce/pkg/utils"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const resetCodeTTL = 10 * time.Minute

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (res dto.AuthResponse, err error)
	Login(ctx context.Context, req dto.LoginRequest) (res dto.AuthResponse, err error)
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) (err error)
	VerifyResetCode(ctx context.Context, req dto.VerifyResetCodeRequest) (err error)
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (token string, err error)
	Authenticate(ctx context.Context, token string) (user domain.User, err error)
}

type AuthServiceImpl struct {
	userRepo  repository.UserRepository
	users     ResourceService[domain.User]
	mailer    utils.EmailSender
	jwtSecret string
	jwtTTL    time.Duration
	now       func() time.Time
}

func CreateAuthService(userRepo repository.UserRepository, users ResourceService[domain.User], mailer utils.EmailSender, jwtSecret string, jwtTTL time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		users:     users,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		now:       time.Now,
	}
}

func (s *AuthServiceImpl) Signup(ctx context.Context, req dto.SignupRequest) (res dto.AuthResponse, err error) {
	user, err := s.users.Create(ctx, domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return
	}

	return s.authResponse(ctx, user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.AuthResponse, err error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return res, errs.ErrInvalidCredentialsEmail
		}
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return res, errs.ErrInvalidCredentialsEmail
	}

	return s.authResponse(ctx, user)
}

// ForgotPassword stores a hashed six digit code and mails the plain code. The stored
// code is removed again when the mail cannot be delivered.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) (err error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrAccountNotFound
		}
		return
	}

	code, err := generateResetCode()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ForgotPassword").Msg("")
		return errs.ErrInternalServer
	}

	if err = s.userRepo.SetResetCode(ctx, user.ID, hashResetCode(code), s.now().Add(resetCodeTTL)); err != nil {
		return
	}

	body := fmt.Sprintf("Hi %s,\nWe received a request to reset the password on your account.\n%s\nEnter this code to complete the reset.\nThanks for helping us keep your account secure.", user.Name, code)
	if err = s.mailer.SendEmail(ctx, user.Email, "Your password reset code (valid for 10 min)", body); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ForgotPassword").Msg("")

		if rollbackErr := s.userRepo.ClearResetCode(ctx, user.ID); rollbackErr != nil {
			log.Ctx(ctx).Error().Err(rollbackErr).Str("component", "ForgotPassword").Msg("")
		}
		return errs.ErrEmailDelivery
	}

	return nil
}

func (s *AuthServiceImpl) VerifyResetCode(ctx context.Context, req dto.VerifyResetCodeRequest) (err error) {
	user, err := s.userRepo.FindByResetCode(ctx, hashResetCode(req.ResetCode), s.now())
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrResetCodeInvalid
		}
		return
	}

	return s.userRepo.MarkResetCodeVerified(ctx, user.ID)
}

func (s *AuthServiceImpl) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (token string, err error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", errs.ErrAccountNotFound
		}
		return
	}

	if user.PasswordResetVerified == nil || !*user.PasswordResetVerified {
		return "", errs.ErrResetCodeNotVerified
	}

	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		return
	}

	if err = s.userRepo.UpdatePassword(ctx, user.ID, hashed, s.now()); err != nil {
		return
	}

	return s.token(ctx, user)
}

// Authenticate resolves a bearer token into its user, rejecting tokens issued
// before the last password change.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (user domain.User, err error) {
	claims, err := utils.ParseJWTToken(token, s.jwtSecret)
	if err != nil {
		return user, errs.ErrInvalidToken
	}

	user, err = s.userRepo.FindByID(ctx, claims.UserID, nil)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrInvalidID) {
			return user, errs.ErrUserNoLongerExists
		}
		return
	}

	if user.ChangedPasswordAfter(claims.IssuedAt) {
		return domain.User{}, errs.ErrPasswordChanged
	}

	return user, nil
}

func (s *AuthServiceImpl) authResponse(ctx context.Context, user domain.User) (res dto.AuthResponse, err error) {
	token, err := s.token(ctx, user)
	if err != nil {
		return
	}

	return dto.AuthResponse{Data: &user, Token: token}, nil
}

func (s *AuthServiceImpl) token(ctx context.Context, user domain.User) (string, error) {
	token, err := utils.CreateJWTToken(user.ID.Hex(), s.jwtSecret, s.jwtTTL)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CreateJWTToken").Msg("")
		return "", errs.ErrInternalServer
	}

	return token, nil
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func hashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
