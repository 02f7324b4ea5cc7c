package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/huddlehq/huddle/internal/auth"
	"github.com/huddlehq/huddle/pkg/errors"
	"github.com/huddlehq/huddle/pkg/metrics"
	"github.com/huddlehq/huddle/pkg/response"
)

const (
	CtxClaimsKey = "authClaims"
	CtxUserIDKey = "userID"
)

// Auth enforces bearer-token authentication using the supplied JWT service.
// Handlers downstream read the verified caller id from the gin context; the
// services re-resolve it against the user table per operation.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			metrics.AuthAttempts.WithLabelValues("failure").Inc()
			response.Error(c, errors.ErrUnauthenticated)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			metrics.AuthAttempts.WithLabelValues("failure").Inc()
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthenticated)
			c.Abort()
			return
		}

		metrics.AuthAttempts.WithLabelValues("success").Inc()
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)

		c.Next()
	}
}
