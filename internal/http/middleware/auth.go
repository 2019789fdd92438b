package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/raja1702/computer-storage-solutions/internal/http/response"
	"github.com/raja1702/computer-storage-solutions/internal/platform/ctxutil"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

const (
	principalKey = "principal"
	// AdminRole is the role claim value the reporting surface requires.
	AdminRole = "admin"
)

type AuthMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewAuthMiddleware(log *logger.Logger, secret string) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware"), secret: []byte(secret)}
}

// RequireAdmin accepts an HS256 bearer token whose role claim is admin.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			return
		}
		principal, err := am.parse(tokenString)
		if err != nil {
			am.log.Debug("rejected token", "error", err)
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			return
		}
		if principal.Role != AdminRole {
			response.AbortError(c, http.StatusForbidden, "forbidden", errors.New("admin role required"))
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithPrincipal(c.Request.Context(), principal))
		c.Set(principalKey, principal)
		c.Next()
	}
}

func (am *AuthMiddleware) parse(tokenString string) (*ctxutil.Principal, error) {
	if len(am.secret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	sub, _ := claims.GetSubject()
	role, _ := claims["role"].(string)
	return &ctxutil.Principal{Subject: sub, Role: strings.TrimSpace(role)}, nil
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
