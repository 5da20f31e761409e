package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/supermart/supermart-backend/internal/app/authz"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/internal/errors"
	"github.com/supermart/supermart-backend/pkg/util"
)

// Context keys for user information
const (
	UserIDKey      = "user_id"
	UserEmailKey   = "user_email"
	UserRoleKey    = "user_role"
	CurrentUserKey = "current_user"
)

type AuthMiddleware struct {
	jwtSecret string
	userRepo  repository.UserRepository
}

func NewAuthMiddleware(jwtSecret string, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		userRepo:  userRepo,
	}
}

// Authenticate validates the access token and loads the current user.
// Refresh tokens are rejected here: they only ever reach the refresh and
// logout endpoints.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Your session has expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		if claims.TokenType != util.TokenTypeAccess {
			log.Warn("Refresh token presented on access endpoint", map[string]interface{}{
				"path":    c.Request.URL.Path,
				"user_id": claims.UserID,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid authentication token")
			c.Abort()
			return
		}

		// Role and active state come from storage, not the token, so a
		// demotion or deactivation takes effect before the token expires.
		user, err := m.userRepo.FindByID(claims.UserID)
		if err != nil {
			log.Warn("Token user not found", map[string]interface{}{
				"user_id": claims.UserID,
			})
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !user.IsActive {
			log.Warn("Authentication attempt on disabled account", map[string]interface{}{
				"user_id": user.ID,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthAccountDisabled, "Account is disabled")
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserEmailKey, user.Email)
		c.Set(UserRoleKey, user.Role)
		c.Set(CurrentUserKey, user)

		c.Next()
	}
}

// RequireRole allows only the listed roles through. super_admin always
// passes.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		user, ok := GetCurrentUser(c)
		if !ok {
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		if user.Role == model.RoleSuperAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}

		log.Warn("Insufficient role", map[string]interface{}{
			"user_id":        user.ID,
			"user_role":      user.Role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.Forbidden(c, "")
		c.Abort()
	}
}

// RequirePermission gates a route on a single permission check with no
// resource scope.
func (m *AuthMiddleware) RequirePermission(action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		user, ok := GetCurrentUser(c)
		if !ok {
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		if !authz.Allowed(user, action, nil) {
			log.Warn("Permission denied", map[string]interface{}{
				"user_id": user.ID,
				"role":    user.Role,
				"action":  action,
				"path":    c.Request.URL.Path,
			})
			errors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID extracts the authenticated user's ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetCurrentUser extracts the loaded user record from context
func GetCurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

// GetUserRole extracts the authenticated user's role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(model.UserRole)
	return r, ok
}
