package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"survival-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// UserIDKey is the gin context key under which Auth stores the caller's id.
const UserIDKey = "user_id"

// Claims is the access token payload issued by the auth server.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Auth verifies the Bearer access token and stores the user id in the
// gin context. Requests without a valid token are rejected with 401.
func Auth(jwtSecret string, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("AuthMiddleware")
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Authorization header missing", zap.String("path", c.Request.URL.Path))
			abortUnauthorized(c, "Missing Authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			log.Warn("Invalid Authorization header format")
			abortUnauthorized(c, "Invalid Authorization header format")
			return
		}

		claims, err := verifyToken(parts[1], jwtSecret)
		if err != nil {
			log.Warn("Access token verification failed", zap.Error(err))
			abortUnauthorized(c, "Token is invalid or expired")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

func verifyToken(tokenString, jwtSecret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.UserID == 0 {
		return nil, errors.New("token missing user_id")
	}
	return claims, nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Code:    models.ErrCodeUnauthorized,
		Message: message,
	})
}

// UserIDFromContext extracts the authenticated user id set by Auth.
func UserIDFromContext(c *gin.Context) (int64, error) {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return 0, errors.New("user_id not found in context")
	}
	userID, ok := val.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected user_id type in context: %T", val)
	}
	if userID == 0 {
		return 0, errors.New("invalid user_id (0) in context")
	}
	return userID, nil
}
