package handler

import (
	"log/slog"
	"net/http"

	"warden/internal/delivery/http/response"
	"warden/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RoleHandler holds dependencies for role administration handlers.
type RoleHandler struct {
	uc     usecase.RoleUsecase
	permUc usecase.PermissionUsecase
	logger *slog.Logger
}

// NewRoleHandler is the constructor for RoleHandler, injected by Fx.
func NewRoleHandler(uc usecase.RoleUsecase, permUc usecase.PermissionUsecase, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{
		uc:     uc,
		permUc: permUc,
		logger: logger,
	}
}

// List returns all roles.
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.uc.ListRoles(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, roles, "")
}

// Get returns a single role with its permissions.
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	role, err := h.uc.GetRole(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, role, "")
}

type createRoleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// Create creates a new role.
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid role input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.uc.CreateRole(c.Request().Context(), usecase.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, role, "Role created successfully")
}

type updateRoleRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// Update applies a partial update to a role.
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid role update input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.uc.UpdateRole(c.Request().Context(), id, usecase.UpdateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, role, "Role updated successfully")
}

// Delete removes a role; blocked while users still hold it.
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteRole(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Role deleted")
}

// Permissions returns the permissions attached to a role.
func (h *RoleHandler) Permissions(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	perms, err := h.permUc.ListForRole(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, perms, "")
}

// GrantPermission attaches a permission to the role.
func (h *RoleHandler) GrantPermission(c echo.Context) error {
	roleID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	permissionID, err := pathUUID(c, "permissionId")
	if err != nil {
		return err
	}

	if err := h.permUc.GrantToRole(c.Request().Context(), roleID, permissionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Permission granted to role")
}

// RevokePermission detaches a permission from the role.
func (h *RoleHandler) RevokePermission(c echo.Context) error {
	roleID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	permissionID, err := pathUUID(c, "permissionId")
	if err != nil {
		return err
	}

	if err := h.permUc.RevokeFromRole(c.Request().Context(), roleID, permissionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Permission revoked from role")
}
