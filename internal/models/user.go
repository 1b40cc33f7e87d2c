package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the token payload issued by the bookstore API. The
// storefront decodes it for identity display and local expiry checks; the
// upstream API remains the verifier.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Profile struct {
	UserID          int64  `json:"user_id"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	ShippingAddress string `json:"shipping_address"`
	Role            string `json:"role,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName       string `json:"first_name" validate:"omitempty,max=100"`
	LastName        string `json:"last_name" validate:"omitempty,max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,max=30"`
	ShippingAddress string `json:"shipping_address" validate:"omitempty,max=500"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}
