package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Registered users are exempt from guest
// practice limits and may take full exams.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is a resolved caller identity: a registered user XOR a guest.
// Everything below the handler layer receives one of these, never raw auth
// material.
type Identity struct {
	UserID  *uuid.UUID
	GuestID *uuid.UUID
}

// IsRegistered reports whether the identity belongs to a registered user.
func (i Identity) IsRegistered() bool { return i.UserID != nil }

// UserIdentity builds a registered identity.
func UserIdentity(userID uuid.UUID) Identity { return Identity{UserID: &userID} }

// GuestIdentityOf builds a guest identity.
func GuestIdentityOf(guestID uuid.UUID) Identity { return Identity{GuestID: &guestID} }

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries a signed bearer token and the account it represents.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
