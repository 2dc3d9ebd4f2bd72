package middleware

import (
	"strings"

	"carbonledger/internal/delivery/api/response"
	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/service"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Keys under which the authenticated identity is stored on echo.Context.
const (
	contextKeyUserID = "userID"
	contextKeyRoles  = "roles"
	contextKeyOwner  = "owner"
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	AccountUC    usecase.AccountUsecase
}

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc  service.TokenService
	accountUC usecase.AccountUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc:  params.TokenService,
		accountUC: params.AccountUC,
	}
}

// Authenticate validates the bearer access token and stores the caller on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		c.Set(contextKeyUserID, claims.UserID)
		c.Set(contextKeyRoles, entity.RolesFromStrings(claims.Roles))

		return next(c)
	}
}

// RequireRole checks that the caller has the role. It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := c.Get(contextKeyRoles).(entity.Roles)
			if !ok || !roles.Contains(requiredRole) {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: require '"+requiredRole.String()+"' role")
			}

			return next(c)
		}
	}
}

// RequireOwner loads the caller's company or individual profile. Accounts without one are rejected.
func (m *AuthMiddleware) RequireOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := GetUserID(c)
		if !ok {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
		}

		user, err := m.accountUC.GetUser(c.Request().Context(), userID)
		if err != nil {
			return errors.WithStack(err)
		}

		owner := user.Owner()
		if owner == nil {
			return response.Forbidden(c, "OWNER_PROFILE_MISSING", "The account has no company or individual profile")
		}
		c.Set(contextKeyOwner, *owner)

		return next(c)
	}
}

// GetUserID returns the authenticated user ID.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(contextKeyUserID).(uuid.UUID)

	return userID, ok
}

// GetOwner returns the profile resolved by RequireOwner.
func GetOwner(c echo.Context) (entity.Owner, bool) {
	owner, ok := c.Get(contextKeyOwner).(entity.Owner)

	return owner, ok
}

// SetIdentity stores an authenticated identity. Tests use it to skip token parsing.
func SetIdentity(c echo.Context, userID uuid.UUID, roles entity.Roles, owner *entity.Owner) {
	c.Set(contextKeyUserID, userID)
	c.Set(contextKeyRoles, roles)
	if owner != nil {
		c.Set(contextKeyOwner, *owner)
	}
}
