package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/aura/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	userKey   = "user"
	userIDKey = "userID"

	TokenLifetime = 72 * time.Hour
)

// IssueToken signs an HS256 token for user.
func IssueToken(secret string, user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates a token issued by IssueToken.
func ParseToken(secret, tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}
	return parts[1], nil
}

// JWTAuthMiddleware accepts only tokens issued by this service.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return AuthMiddleware(secret, nil, nil)
}

// UserID returns the authenticated user id, or 0 outside the auth group.
func UserID(c echo.Context) uint {
	id, _ := c.Get(userIDKey).(uint)
	return id
}

// Claims returns the claims of the authenticated request.
func Claims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get(userKey).(*models.JwtCustomClaims)
	return claims
}

func setUser(c echo.Context, claims *models.JwtCustomClaims) {
	c.Set(userKey, claims)
	c.Set(userIDKey, claims.UserID)
}
