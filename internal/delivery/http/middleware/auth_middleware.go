// Package middleware contains the HTTP middleware for authentication,
// authorization, and error handling.
package middleware

import (
	"strings"

	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/service"
	"warden/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Context keys set by Authenticate for downstream handlers.
const (
	ContextKeyUserID = "userID"
	ContextKeyUser   = "user"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	authUc   usecase.AuthUsecase
	accessUc usecase.AccessUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(
	tokenSvc service.TokenService,
	authUc usecase.AuthUsecase,
	accessUc usecase.AccessUsecase,
) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc: tokenSvc,
		authUc:   authUc,
		accessUc: accessUc,
	}
}

// Authenticate validates the bearer access token and resolves the live user
// record. Resolving on every request means deactivation and role changes take
// effect immediately instead of at token expiry.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return domainerrors.ErrUnauthorized.WrapMessage("authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return domainerrors.ErrUnauthorized.WrapMessage("authorization header must carry a bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return domainerrors.ErrBearerTokenInvalid
		}
		// Refresh and reset tokens verify with the same secret but must never
		// authenticate API requests.
		if claims.Type != service.TokenTypeAccess {
			return domainerrors.ErrBearerTokenInvalid
		}

		user, err := m.authUc.CurrentUser(c.Request().Context(), claims.UserID)
		if err != nil {
			return domainerrors.ErrBearerTokenInvalid
		}
		if !user.IsActive {
			return domainerrors.ErrAccountDeactivated
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyUser, user)

		return next(c)
	}
}

// RequireRole is a middleware factory that admits only users whose role name
// is in the allow-list. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(roleNames ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(ContextKeyUser).(*entity.User)
			if !ok {
				return domainerrors.ErrForbidden.WrapMessage("role information missing")
			}

			roleName := user.RoleName()
			for _, name := range roleNames {
				if roleName == name {
					return next(c)
				}
			}

			return domainerrors.ErrForbidden
		}
	}
}

// RequirePermission is a middleware factory that admits only users whose
// effective permission set covers the resource/action pair. It must be used
// AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequirePermission(resource, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(ContextKeyUser).(*entity.User)
			if !ok {
				return domainerrors.ErrForbidden.WrapMessage("user information missing")
			}

			allowed, err := m.accessUc.HasPermission(c.Request().Context(), user.ID, resource, action)
			if err != nil {
				return err
			}
			if !allowed {
				return domainerrors.ErrForbidden
			}

			return next(c)
		}
	}
}
