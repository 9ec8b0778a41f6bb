// Package models defines the Mongo documents the API stores and serves.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can sign in. Password holds the bcrypt hash and
// never serialises to JSON.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username" validate:"required,max=50"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Roles an account may hold.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Validate checks invariants the struct tags cannot express.
func (u *User) Validate() []string {
	var errs []string
	if u.Role != RoleAdmin && u.Role != RoleUser {
		errs = append(errs, "The selected role is invalid.")
	}
	return errs
}

// RegisterInput is the request body for POST /api/auth/register.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"nullable,in=admin,user"`
}

// LoginInput is the request body for POST /api/auth/login. Either email or
// username identifies the account.
type LoginInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identifier returns the login identifier, preferring email.
func (in *LoginInput) Identifier() string {
	if in.Email != "" {
		return in.Email
	}
	return in.Username
}

// PublicUser is the account shape returned by auth endpoints.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Public strips the password hash for wire output.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
