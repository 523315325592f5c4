package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/middleware"
	"papertrade/internal/services"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	userService services.UserServicer
	gate        *middleware.AuthGate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer, gate *middleware.AuthGate) *AuthHandler {
	return &AuthHandler{userService: userService, gate: gate}
}

// RegisterRequest represents the request payload for registration.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest represents the request payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.Register(req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login verifies credentials and issues a session token. The token is
// returned in the body and also set as a cookie so browser clients work
// without touching headers.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.VerifyCredentials(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.gate.IssueToken(user.Email)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(h.gate.TokenTTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
