// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"warden/internal/delivery/http/middleware"
	"warden/internal/delivery/http/router/handler"
	"warden/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	RoleHandler       *handler.RoleHandler
	PermissionHandler *handler.PermissionHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be wired into the echo instance.
type router struct {
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	roleHandler       *handler.RoleHandler
	permissionHandler *handler.PermissionHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		userHandler:       params.UserHandler,
		roleHandler:       params.RoleHandler,
		permissionHandler: params.PermissionHandler,
		authMiddleware:    params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)
	}

	// Profile and session routes only need a valid access token
	meGroup := e.Group("/auth")
	meGroup.Use(r.authMiddleware.Authenticate)
	{
		meGroup.GET("/me", r.authHandler.Me)
		meGroup.GET("/sessions", r.authHandler.Sessions)
	}

	// Administration routes require the admin role
	adminRequired := []echo.MiddlewareFunc{
		r.authMiddleware.Authenticate,
		r.authMiddleware.RequireRole(entity.RoleNameAdmin),
	}

	userGroup := e.Group("/users", adminRequired...)
	{
		userGroup.GET("", r.userHandler.List)
		userGroup.GET("/:id", r.userHandler.Get)
		userGroup.PATCH("/:id", r.userHandler.Update)
		userGroup.DELETE("/:id", r.userHandler.Delete)
		userGroup.POST("/:id/activate", r.userHandler.Activate)
		userGroup.POST("/:id/deactivate", r.userHandler.Deactivate)
		userGroup.GET("/:id/permissions", r.userHandler.EffectivePermissions)
		userGroup.GET("/:id/permissions/direct", r.userHandler.DirectPermissions)
		userGroup.POST("/:id/permissions/:permissionId", r.userHandler.GrantPermission)
		userGroup.DELETE("/:id/permissions/:permissionId", r.userHandler.RevokePermission)
	}

	roleGroup := e.Group("/roles", adminRequired...)
	{
		roleGroup.GET("", r.roleHandler.List)
		roleGroup.POST("", r.roleHandler.Create)
		roleGroup.GET("/:id", r.roleHandler.Get)
		roleGroup.PATCH("/:id", r.roleHandler.Update)
		roleGroup.DELETE("/:id", r.roleHandler.Delete)
		roleGroup.GET("/:id/permissions", r.roleHandler.Permissions)
		roleGroup.POST("/:id/permissions/:permissionId", r.roleHandler.GrantPermission)
		roleGroup.DELETE("/:id/permissions/:permissionId", r.roleHandler.RevokePermission)
	}

	permissionGroup := e.Group("/permissions", adminRequired...)
	{
		permissionGroup.GET("", r.permissionHandler.List)
		permissionGroup.POST("", r.permissionHandler.Create)
		permissionGroup.GET("/:id", r.permissionHandler.Get)
		permissionGroup.PATCH("/:id", r.permissionHandler.Update)
		permissionGroup.DELETE("/:id", r.permissionHandler.Delete)
	}
}
