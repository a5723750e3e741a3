package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/Sachinsen7/grin/internal/repository"
	"github.com/Sachinsen7/grin/pkg/apperror"
	"github.com/Sachinsen7/grin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RefreshCookieName is the httponly cookie carrying the refresh token.
const RefreshCookieName = "jwt"

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // development fallback, release mode refuses to start without the env var
	}
	return []byte(secret)
}

func GetRefreshSecret() []byte {
	secret := os.Getenv("REFRESH_TOKEN_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: REFRESH_TOKEN_SECRET environment variable is required in production mode")
		}
		secret = "default_refresh_secret_key"
	}
	return []byte(secret)
}

// SetRefreshCookie stores the refresh token as an HttpOnly cookie for 7 days.
func SetRefreshCookie(c *gin.Context, refreshToken string) {
	secure := os.Getenv("GIN_MODE") == "release"
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookieName, refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearRefreshCookie removes the refresh token cookie.
func ClearRefreshCookie(c *gin.Context) {
	secure := os.Getenv("GIN_MODE") == "release"
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookieName, "", -1, "/", "", secure, true)
}

// Authenticate validates the bearer token and loads the caller's identity
// into the context. The three failure modes stay distinguishable for the
// frontend: no token, invalid token, account gone.
func Authenticate(accounts repository.AccountRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortError(c, http.StatusUnauthorized, apperror.CodeAuthNoToken, "Authorization is missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.AbortError(c, http.StatusUnauthorized, apperror.CodeAuthInvalidToken, "Invalid authorization format. Expected 'Bearer <token>'")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			response.AbortError(c, http.StatusUnauthorized, apperror.CodeAuthInvalidToken, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, apperror.CodeAuthInvalidToken, "Invalid token claims")
			return
		}

		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, apperror.CodeAuthInvalidToken, "Invalid token subject")
			return
		}

		if _, err := accounts.FindByID(c.Request.Context(), userID); err != nil {
			response.AbortError(c, http.StatusForbidden, apperror.CodeAuthUserNotFound, "User not found")
			return
		}

		c.Set("userID", sub)
		c.Set("userRole", role)

		c.Next()
	}
}

// RequireRole allows only the listed roles past. Must run after Authenticate.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("userRole")

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}
		response.AbortError(c, http.StatusForbidden, apperror.CodeAuthInvalidToken, "Access denied: insufficient permissions")
	}
}
