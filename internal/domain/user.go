package domain

import "time"

type User struct {
	UserID           string    `json:"id" dynamodbav:"user_id"`
	Email            string    `json:"email" dynamodbav:"email"`
	Name             string    `json:"name" dynamodbav:"name"`
	Image            *string   `json:"image" dynamodbav:"image,omitempty"`
	PasswordHash     *string   `json:"-" dynamodbav:"password_hash,omitempty"`
	ResetToken       *string   `json:"-" dynamodbav:"reset_token,omitempty"`
	ResetTokenExpiry *int64    `json:"-" dynamodbav:"reset_token_expiry,omitempty"` // Unix seconds
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at"`
}

// SafeUser is the public projection returned to clients. The password hash
// and reset-token fields never leave the service layer.
type SafeUser struct {
	UserID string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Image  *string `json:"image"`
}

func (u *User) Safe() *SafeUser {
	return &SafeUser{
		UserID: u.UserID,
		Email:  u.Email,
		Name:   u.Name,
		Image:  u.Image,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirm struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}
