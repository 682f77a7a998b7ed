package dto

type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyResetCodeRequest struct {
	ResetCode string `json:"resetCode" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type UserRequest struct {
	Name            string `json:"name" form:"name" validate:"required,min=3"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Phone           string `json:"phone" form:"phone"`
	ProfileImg      string `json:"profileImg" form:"profileImg"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"passwordConfirm" form:"passwordConfirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" form:"role" validate:"omitempty,oneof=user manager admin"`
}

type UserUpdateRequest struct {
	Name       string `json:"name" form:"name" validate:"omitempty,min=3"`
	Email      string `json:"email" form:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" form:"phone"`
	ProfileImg string `json:"profileImg" form:"profileImg"`
	Role       string `json:"role" form:"role" validate:"omitempty,oneof=user manager admin"`
}

type UpdateMeRequest struct {
	Name  string `json:"name" validate:"omitempty,min=3"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type WishlistRequest struct {
	ProductID string `json:"productId" validate:"required,mongodb"`
}

type AddressRequest struct {
	Alias      string `json:"alias" validate:"required"`
	Details    string `json:"details" validate:"required"`
	Phone      string `json:"phone"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode"`
}
