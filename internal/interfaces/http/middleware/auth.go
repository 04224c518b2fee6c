package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/infrastructure/auth"
	"github.com/praktis/backend/internal/infrastructure/logger"
	"github.com/praktis/backend/internal/interfaces/http/dto"
)

// Context keys set by Auth
const (
	ClaimsKey = "auth_claims"
	ActorKey  = "auth_actor"

	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

// Auth validates the bearer token, checks it against the blacklist and
// injects the acting user into the request context. Blacklist lookup
// failures fail open: a dead redis must not lock everyone out.
func Auth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeader)
		if !strings.HasPrefix(header, bearerPrefix) {
			unauthorized(c, "Missing or malformed authorization header")
			return
		}
		tokenString := strings.TrimPrefix(header, bearerPrefix)
		if tokenString == "" {
			unauthorized(c, "Missing token")
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if err == auth.ErrExpiredToken {
				unauthorized(c, "Token has expired")
				return
			}
			unauthorized(c, "Invalid token")
			return
		}

		if blacklist != nil {
			ctx := c.Request.Context()
			if claims.ID != "" {
				revoked, err := blacklist.IsRevoked(ctx, claims.ID)
				if err != nil {
					log.Error("Token blacklist check failed", zap.Error(err))
				} else if revoked {
					unauthorized(c, "Token has been revoked")
					return
				}
			}
			revoked, err := blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
			if err != nil {
				log.Error("User revocation check failed", zap.Error(err))
			} else if revoked {
				unauthorized(c, "Token has been revoked")
				return
			}
		}

		actor, err := claims.Actor()
		if err != nil {
			unauthorized(c, "Invalid token claims")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(ActorKey, actor)
		c.Request = c.Request.WithContext(logger.WithActorID(c.Request.Context(), actor.ID.String()))

		c.Next()
	}
}

// AdminOnly rejects staff actors. It must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("FORBIDDEN", "Admin access required", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated actor injected by Auth
func GetActor(c *gin.Context) (identity.Actor, bool) {
	value, exists := c.Get(ActorKey)
	if !exists {
		return identity.Actor{}, false
	}
	actor, ok := value.(identity.Actor)
	return actor, ok
}

// GetClaims returns the validated token claims injected by Auth
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
