package handler

import (
	"log/slog"
	"net/http"

	"warden/internal/delivery/http/response"
	"warden/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PermissionHandler holds dependencies for permission administration handlers.
type PermissionHandler struct {
	uc     usecase.PermissionUsecase
	logger *slog.Logger
}

// NewPermissionHandler is the constructor for PermissionHandler, injected by Fx.
func NewPermissionHandler(uc usecase.PermissionUsecase, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{
		uc:     uc,
		logger: logger,
	}
}

// List returns all permissions.
func (h *PermissionHandler) List(c echo.Context) error {
	perms, err := h.uc.ListPermissions(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, perms, "")
}

// Get returns a single permission.
func (h *PermissionHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	perm, err := h.uc.GetPermission(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, perm, "")
}

type createPermissionRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Resource    string `json:"resource" validate:"required,max=100"`
	Action      string `json:"action" validate:"required,max=100"`
}

// Create creates a new permission.
func (h *PermissionHandler) Create(c echo.Context) error {
	var req createPermissionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid permission input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	perm, err := h.uc.CreatePermission(c.Request().Context(), usecase.CreatePermissionInput{
		Name:        req.Name,
		Description: req.Description,
		Resource:    req.Resource,
		Action:      req.Action,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, perm, "Permission created successfully")
}

type updatePermissionRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Resource    *string `json:"resource" validate:"omitempty,max=100"`
	Action      *string `json:"action" validate:"omitempty,max=100"`
}

// Update applies a partial update to a permission.
func (h *PermissionHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updatePermissionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid permission update input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	perm, err := h.uc.UpdatePermission(c.Request().Context(), id, usecase.UpdatePermissionInput{
		Name:        req.Name,
		Description: req.Description,
		Resource:    req.Resource,
		Action:      req.Action,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, perm, "Permission updated successfully")
}

// Delete removes a permission and all of its grants.
func (h *PermissionHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeletePermission(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Permission deleted")
}
