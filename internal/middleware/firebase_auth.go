package middleware

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/aura/backend/internal/models"
	"github.com/anonto42/aura/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FirebaseResolver maps a verified Firebase identity to a local account.
type FirebaseResolver interface {
	UserForFirebaseToken(token *auth.Token) (*models.User, error)
}

// AuthMiddleware accepts our own JWT and, when verifier is set, a Firebase
// ID token in its place.
func AuthMiddleware(secret string, verifier services.TokenVerifier, resolver FirebaseResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}

			if claims, err := ParseToken(secret, raw); err == nil {
				setUser(c, claims)
				return next(c)
			}
			if verifier == nil || resolver == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}
			user, err := resolver.UserForFirebaseToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			c.Set("firebaseToken", token)
			setUser(c, &models.JwtCustomClaims{UserID: user.ID, Username: user.Username})
			return next(c)
		}
	}
}
