package dto

import "github.com/mallfront/mallfront/internal/model"

// UsernameCountResponse reports how many accounts hold a username.
type UsernameCountResponse struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// MobileCountResponse reports how many accounts hold a mobile number.
type MobileCountResponse struct {
	Mobile string `json:"mobile"`
	Count  int    `json:"count"`
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,username"`
	Password  string `json:"password" validate:"required,min=8,max=20"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
	Mobile    string `json:"mobile" validate:"required,mobile"`
	Allow     bool   `json:"allow" validate:"eq=true"`
}

// RegisterResponse represents a freshly created account plus its session token.
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Mobile   string `json:"mobile"`
	Token    string `json:"token"`
}

// UserDetailResponse represents the authenticated user's profile.
type UserDetailResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Mobile        string `json:"mobile"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_active"`
}

// ToUserDetailResponse converts a User model to UserDetailResponse.
func ToUserDetailResponse(user *model.User) *UserDetailResponse {
	return &UserDetailResponse{
		ID:            user.ID,
		Username:      user.Username,
		Mobile:        user.Mobile,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
	}
}

// EmailRequest represents the request body for setting the user's email.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginRequest represents the request body for credential login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
