package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/auth"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

const (
	GinContextKeyOwnerID  = "ownerID"
	GinContextKeyUsername = "username"
)

func AuthMiddleware(jwtSvc *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyOwnerID, claims.OwnerID)
		c.Set(GinContextKeyUsername, claims.Username)

		c.Next()
	}
}

func GetOwnerIDFromGinContext(c *gin.Context) (int64, bool) {
	ownerID, ok := c.Get(GinContextKeyOwnerID)
	if !ok {
		return 0, false
	}
	id, ok := ownerID.(int64)
	if !ok {
		return 0, false
	}
	return id, true
}

// ErrorHandler renders the first error a handler attached via c.Error using
// the apperror status mapping. Handlers stay free of status-code plumbing.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors[0].Err
		status := apperror.ToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err)
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(status, appErr.ToJSON())
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
	}
}
