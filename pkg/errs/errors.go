package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer   = http.StatusInternalServerError
	ErrStatusClient           = http.StatusBadRequest
	ErrStatusNotLoggedIn      = http.StatusUnauthorized
	ErrStatusNoPermission     = http.StatusForbidden
	ErrStatusUnauthorized     = http.StatusUnauthorized
	ErrStatusNotFound         = http.StatusNotFound
	ErrStatusEmailAlreadyUsed = http.StatusBadRequest
	ErrStatusConflict         = http.StatusConflict
	ErrStatusTooManyRequests  = http.StatusTooManyRequests
	ErrBadGateway             = http.StatusBadGateway
)

var (
	ErrInternalServer              = errors.New("Internal server error")
	ErrClient                      = errors.New("Bad request")
	ErrValidation                  = errors.New("Validation failed")
	ErrInvalidID                   = errors.New("Invalid id format")
	ErrNotLoggedIn                 = errors.New("You are not logged in, please login to get access to this route")
	ErrInvalidToken                = errors.New("Invalid or expired token, please login again")
	ErrUserNoLongerExists          = errors.New("The user that belongs to this token no longer exists")
	ErrPasswordChanged             = errors.New("User recently changed password, please login again")
	ErrInvalidCredentialsEmail     = errors.New("Incorrect email or password")
	ErrUnauthorized                = errors.New("You are not allowed to access this route")
	ErrNotFound                    = errors.New("Resource not found")
	ErrNoDocument                  = errors.New("No document for this id")
	ErrAccountNotFound             = errors.New("There is no user with this email")
	ErrCartNotFound                = errors.New("There is no cart for this user")
	ErrCartItemNotFound            = errors.New("There is no item for this id")
	ErrCartIDNotFound              = errors.New("There is no cart with this id")
	ErrOrderNotFound               = errors.New("There is no order with this id")
	ErrCouponInvalid               = errors.New("Coupon is invalid or expired")
	ErrCategoryNotFound            = errors.New("No category for this id")
	ErrSubCategoryMismatch         = errors.New("Subcategories do not exist or do not belong to the category")
	ErrDiscountNotBelowPrice       = errors.New("priceAfterDiscount must be lower than price")
	ErrResetCodeInvalid            = errors.New("Reset code invalid or expired")
	ErrResetCodeNotVerified        = errors.New("Reset code not verified")
	ErrEmailDelivery               = errors.New("There is an error in sending email")
	ErrEmailAlreadyUsed            = errors.New("E-mail already in use")
	ErrWrongPassword               = errors.New("Incorrect current password")
	ErrInvalidPasswordConfirmation = errors.New("Password confirmation incorrect")
	ErrReviewExists                = errors.New("You already created a review before")
	ErrNotAnImage                  = errors.New("Only images allowed")
	ErrTooManyFiles                = errors.New("Too many files uploaded")
	ErrDuplicateName               = errors.New("Duplicate name found")
	ErrRouteNotFound               = errors.New("Can't find this route")
	ErrInvalidSignature            = errors.New("Webhook Error: invalid signature")
	ErrPaymentGateway              = errors.New("Payment gateway is unavailable")
	ErrTooManyRequests             = errors.New("Too many requests from this IP, please try again later")
)

var errorMap = map[error]int{
	ErrInternalServer:              ErrStatusInternalServer,
	ErrClient:                      ErrStatusClient,
	ErrValidation:                  ErrStatusClient,
	ErrInvalidID:                   ErrStatusClient,
	ErrNotLoggedIn:                 ErrStatusNotLoggedIn,
	ErrInvalidToken:                ErrStatusUnauthorized,
	ErrUserNoLongerExists:          ErrStatusUnauthorized,
	ErrPasswordChanged:             ErrStatusUnauthorized,
	ErrInvalidCredentialsEmail:     ErrStatusUnauthorized,
	ErrUnauthorized:                ErrStatusNoPermission,
	ErrNotFound:                    ErrStatusNotFound,
	ErrNoDocument:                  ErrStatusNotFound,
	ErrAccountNotFound:             ErrStatusNotFound,
	ErrCartNotFound:                ErrStatusNotFound,
	ErrCartItemNotFound:            ErrStatusNotFound,
	ErrCartIDNotFound:              ErrStatusNotFound,
	ErrOrderNotFound:               ErrStatusNotFound,
	ErrCouponInvalid:               ErrStatusNotFound,
	ErrCategoryNotFound:            ErrStatusClient,
	ErrSubCategoryMismatch:         ErrStatusClient,
	ErrDiscountNotBelowPrice:       ErrStatusClient,
	ErrResetCodeInvalid:            ErrStatusClient,
	ErrResetCodeNotVerified:        ErrStatusClient,
	ErrEmailDelivery:               ErrStatusInternalServer,
	ErrEmailAlreadyUsed:            ErrStatusEmailAlreadyUsed,
	ErrWrongPassword:               ErrStatusClient,
	ErrInvalidPasswordConfirmation: ErrStatusClient,
	ErrReviewExists:                ErrStatusClient,
	ErrNotAnImage:                  ErrStatusClient,
	ErrTooManyFiles:                ErrStatusClient,
	ErrDuplicateName:               ErrStatusConflict,
	ErrRouteNotFound:               ErrStatusClient,
	ErrInvalidSignature:            ErrStatusClient,
	ErrPaymentGateway:              ErrBadGateway,
	ErrTooManyRequests:             ErrStatusTooManyRequests,
}

// GetErrorStatusCode resolves the status for err or any sentinel it wraps.
func GetErrorStatusCode(err error) int {
	if errStatusCode, ok := errorMap[err]; ok {
		return errStatusCode
	}

	for sentinel, errStatusCode := range errorMap {
		if errors.Is(err, sentinel) {
			return errStatusCode
		}
	}

	return errorMap[ErrInternalServer]
}

// IsKnown reports whether err is, or wraps, one of the sentinels above.
func IsKnown(err error) bool {
	for sentinel := range errorMap {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
