package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"contract-claims-api/models"
	"contract-claims-api/services"
	"contract-claims-api/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.RoleName `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for a given user. The user's Role must be loaded.
func GenerateToken(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// UserLookup resolves the account behind a token.
type UserLookup interface {
	FindUser(ctx context.Context, id uint) (*models.User, error)
}

// AuthRequired validates the JWT and injects the caller into context. The
// role comes from the current user record, not the token, so role edits and
// removed accounts take effect on the next request.
func AuthRequired(secret []byte, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		user, err := users.FindUser(c.Request.Context(), claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
			c.Abort()
			return
		}
		if err != nil {
			slog.Error("resolve token user", slog.Uint64("user_id", uint64(claims.UserID)), slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}
		c.Set("userID", user.ID)
		c.Set("email", user.Email)
		c.Set("role", string(user.Role.Name))
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole := GetRole(c)
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

// ReviewerRequired admits every role that may review claims.
func ReviewerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetRole(c).IsReviewer() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Reviewer role required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func rolesString(roles []models.RoleName) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// GetUserID extracts caller user ID from context
func GetUserID(c *gin.Context) uint {
	return c.GetUint("userID")
}

// GetRole extracts caller role from context
func GetRole(c *gin.Context) models.RoleName {
	return models.RoleName(c.GetString("role"))
}

// GetCaller is the identity handed to the services layer.
func GetCaller(c *gin.Context) services.Caller {
	return services.Caller{UserID: GetUserID(c), Role: GetRole(c)}
}
