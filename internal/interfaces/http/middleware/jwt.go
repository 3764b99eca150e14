package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/auth"
	"github.com/dms/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by the auth middleware
const (
	JWTClaimsKey       = "jwt_claims"
	JWTUserIDKey       = "jwt_user_id"
	JWTDealershipIDKey = "jwt_dealership_id"
	ActorKey           = "actor"
)

const bearerScheme = "Bearer "

// JWTMiddlewareConfig configures bearer authentication.
// OnError replaces the default 401 body when set.
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	SkipPaths  []string
	OnError    func(c *gin.Context, err error)
	Logger     *zap.Logger
}

// DefaultJWTConfig leaves only the liveness endpoints open
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/health", "/api/v1/health"},
	}
}

// JWTAuthMiddleware authenticates with DefaultJWTConfig
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig validates the bearer token. The resulting actor
// keeps the raw token so downstream calls to the dealer API can forward it.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			rejectToken(c, cfg.OnError, log, auth.ErrInvalidToken)
			return
		}
		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			rejectToken(c, cfg.OnError, log, err)
			return
		}

		actor := claims.Actor(token)
		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTDealershipIDKey, claims.DealershipID)
		c.Set(ActorKey, actor)
		c.Request = c.Request.WithContext(shared.ContextWithActor(c.Request.Context(), actor))

		log.Debug("Caller authenticated",
			zap.String("user_id", claims.UserID),
			zap.String("role", claims.Role),
			zap.String("dealership_id", claims.DealershipID),
		)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	rest, found := strings.CutPrefix(header, bearerScheme)
	if !found {
		return "", false
	}
	token := strings.TrimSpace(rest)
	return token, token != ""
}

// tokenRejections maps validation failures to the reported code and message;
// the first match wins
var tokenRejections = []struct {
	errs    []error
	code    string
	message string
}{
	{[]error{auth.ErrExpiredToken}, dto.ErrCodeTokenExpired, "Token has expired"},
	{[]error{auth.ErrTokenNotYetValid}, dto.ErrCodeTokenInvalid, "Token is not yet valid"},
	{[]error{auth.ErrMissingUserID, auth.ErrUnknownRole, auth.ErrInvalidClaims}, dto.ErrCodeTokenInvalid, "Invalid token claims"},
	{[]error{auth.ErrInvalidToken}, dto.ErrCodeTokenInvalid, "Invalid token"},
}

func rejectToken(c *gin.Context, onError func(*gin.Context, error), log *zap.Logger, err error) {
	if onError != nil {
		onError(c, err)
		c.Abort()
		return
	}

	log.Warn("Rejected bearer token", zap.Error(err), zap.String("path", c.Request.URL.Path))

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	for _, r := range tokenRejections {
		if slices.ContainsFunc(r.errs, func(target error) bool { return errors.Is(err, target) }) {
			code, message = r.code, r.message
			break
		}
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, requestIDFrom(c)))
}

// GetJWTClaims returns the validated claims, or nil on open routes
func GetJWTClaims(c *gin.Context) *auth.Claims {
	v, _ := c.Get(JWTClaimsKey)
	claims, _ := v.(*auth.Claims)
	return claims
}

func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

func GetJWTDealershipID(c *gin.Context) string {
	return c.GetString(JWTDealershipIDKey)
}

// GetActor returns the authenticated caller
func GetActor(c *gin.Context) (shared.Actor, bool) {
	v, _ := c.Get(ActorKey)
	if actor, ok := v.(shared.Actor); ok {
		return actor, true
	}
	return shared.ActorFromContext(c.Request.Context())
}
