package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/pkg/jwt"
)

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verifyBearer(c, jwtManager)
		if !ok {
			return
		}

		if claims.Type != "access" {
			common.ErrorResponse(c, 401, "Invalid token", nil)
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("phone", claims.Phone)
		c.Set("nickname", claims.Nickname)

		c.Next()
	}
}

// OptionalJWTAuth sets user info when a valid token is present but never
// rejects the request. Used on public community routes where a logged-in
// caller gets personalized fields.
func OptionalJWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil || claims.Type != "access" {
			c.Next()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("phone", claims.Phone)
		c.Set("nickname", claims.Nickname)
		c.Next()
	}
}

func verifyBearer(c *gin.Context, jwtManager *jwt.Manager) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		common.ErrorResponse(c, 401, "Missing authorization header", nil)
		c.Abort()
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		common.ErrorResponse(c, 401, "Invalid authorization header format", nil)
		c.Abort()
		return nil, false
	}

	claims, err := jwtManager.VerifyToken(parts[1])
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			common.ErrorResponse(c, 401, "Token expired", err)
		} else {
			common.ErrorResponse(c, 401, "Invalid token", err)
		}
		c.Abort()
		return nil, false
	}
	return claims, true
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	if str, ok := userID.(string); ok {
		return str
	}
	return ""
}

// GetUserIDUint64 extracts user ID from context as uint64.
// Returns 0 when unauthenticated.
func GetUserIDUint64(c *gin.Context) uint64 {
	id, err := strconv.ParseUint(GetUserID(c), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// GetNickname extracts nickname from context
func GetNickname(c *gin.Context) string {
	nickname, exists := c.Get("nickname")
	if !exists {
		return ""
	}
	if str, ok := nickname.(string); ok {
		return str
	}
	return ""
}
