// Package controllers maps HTTP requests onto services and repositories and
// shapes the JSON the frontend expects.
package controllers

import (
	"errors"
	"net/http"

	"github.com/themelissanyc/melissa/app/models"
	"github.com/themelissanyc/melissa/app/services"
	"github.com/themelissanyc/melissa/pkg/auth"
	"github.com/themelissanyc/melissa/pkg/bind"
	"github.com/themelissanyc/melissa/pkg/logger"
	"github.com/themelissanyc/melissa/pkg/middleware"
	"github.com/themelissanyc/melissa/pkg/response"
	"github.com/themelissanyc/melissa/pkg/validate"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{auth: authService}
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Email/Username and password are required")
		return
	}

	identifier := in.Identifier()
	if identifier == "" || in.Password == "" {
		response.Error(w, http.StatusBadRequest, "Email/Username and password are required")
		return
	}

	token, user, err := c.auth.Login(r.Context(), identifier, in.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusBadRequest, "Invalid credentials")
		return
	case errors.Is(err, auth.ErrNoSecret):
		logger.WithCtx(r.Context()).Error("login rejected: JWT_SECRET is not configured")
		response.ServerError(w, "Server configuration error")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		response.ServerError(w, "Login error")
		return
	}

	logger.WithCtx(r.Context()).Info("user logged in", "username", user.Username, "role", user.Role)
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user.Public(),
	})
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, validate.Messages(errs))
		return
	}

	user, err := c.auth.Register(r.Context(), &in)
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		response.Error(w, http.StatusBadRequest, "Username already exists")
		return
	case errors.Is(err, services.ErrEmailTaken):
		response.Error(w, http.StatusBadRequest, "Email already exists")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("registration failed", "error", err)
		response.ServerError(w, "Registration error")
		return
	}

	logger.WithCtx(r.Context()).Info("user registered", "username", user.Username, "email", user.Email)
	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user.Public(),
	})
}

// Verify handles GET /api/auth/verify. It runs behind Authenticate, which
// already resolved the account, so this only echoes it back.
func (c *AuthController) Verify(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		response.Unauthorized(w, "No token provided")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"user": models.PublicUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}
