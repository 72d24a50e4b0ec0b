package handlers

import (
	"net/http"

	"github.com/anonto42/aura/backend/internal/middleware"
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users     *services.UserService
	verifier  services.TokenVerifier
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler. verifier may be nil when
// Firebase is not configured.
func NewAuthHandler(users *services.UserService, verifier services.TokenVerifier, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, verifier: verifier, jwtSecret: jwtSecret}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

func (h *AuthHandler) tokenResponse(c echo.Context, status int, user *models.User) error {
	token, err := middleware.IssueToken(h.jwtSecret, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(status, echo.Map{"token": token, "user": user.ToCompact()})
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.CreateLocalUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.Register(req)
	if err != nil {
		return httpError(err)
	}
	return h.tokenResponse(c, http.StatusCreated, user)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	return h.tokenResponse(c, http.StatusOK, user)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin exchanges a Firebase ID token for a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.FirebaseLogin(c.Request().Context(), h.verifier, req.IDToken)
	if err != nil {
		return httpError(err)
	}
	return h.tokenResponse(c, http.StatusOK, user)
}
