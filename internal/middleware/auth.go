package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"anoa.com/kgscp/internal/entity"
	profileDto "anoa.com/kgscp/internal/modules/profile/dto"
	profile "anoa.com/kgscp/internal/modules/profile/service"
	"anoa.com/kgscp/pkg/apperror"
	"anoa.com/kgscp/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ContextUserID   = "user_id"
	ContextIdentity = "identity"
	ContextProfile  = "profile"
)

// Claims are the identity provider's access token claims.
type Claims struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	session profile.SessionCache
	secret  string
}

func NewAuthMiddleware(session profile.SessionCache, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		session: session,
		secret:  secret,
	}
}

// RequireAuth verifies the bearer token and loads the caller's profile into the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			c.Abort()
			return
		}

		identity := profileDto.Identity{
			ID:       userID,
			Name:     claims.Name,
			Username: claims.Username,
			Email:    claims.Email,
		}
		current, err := m.session.Current(c.Request.Context(), identity)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID.String())
		c.Set(ContextIdentity, identity)
		c.Set(ContextProfile, current)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		current, err := CurrentProfile(c)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		if !current.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentProfile returns the profile RequireAuth stored for the request.
func CurrentProfile(c *gin.Context) (*entity.Profile, error) {
	v, ok := c.Get(ContextProfile)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	p, ok := v.(*entity.Profile)
	if !ok || p == nil {
		return nil, apperror.ErrUnauthorized
	}
	return p, nil
}
