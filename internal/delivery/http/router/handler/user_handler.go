package handler

import (
	"log/slog"
	"net/http"

	"warden/internal/delivery/http/response"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for user administration handlers.
type UserHandler struct {
	uc       usecase.UserUsecase
	permUc   usecase.PermissionUsecase
	accessUc usecase.AccessUsecase
	logger   *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(
	uc usecase.UserUsecase,
	permUc usecase.PermissionUsecase,
	accessUc usecase.AccessUsecase,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		uc:       uc,
		permUc:   permUc,
		accessUc: accessUc,
		logger:   logger,
	}
}

// pathUUID parses a :param path segment as a UUID.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + name + " format")
	}

	return id, nil
}

// List returns all users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users, "")
}

// Get returns a single user.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.uc.GetUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "")
}

type updateUserRequest struct {
	FullName *string    `json:"fullName" validate:"omitempty,max=255"`
	Email    *string    `json:"email" validate:"omitempty,email"`
	Password *string    `json:"password" validate:"omitempty,min=8,max=72"`
	RoleID   *uuid.UUID `json:"roleId"`
}

// Update applies a partial update to a user.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user update input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.UpdateUser(c.Request().Context(), id, usecase.UpdateUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "User updated successfully")
}

// Activate re-enables a deactivated account.
func (h *UserHandler) Activate(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.ActivateUser(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User activated")
}

// Deactivate disables an account and revokes its sessions.
func (h *UserHandler) Deactivate(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeactivateUser(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User deactivated")
}

// Delete removes an account.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteUser(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User deleted")
}

// EffectivePermissions returns the union of the user's role and direct permissions.
func (h *UserHandler) EffectivePermissions(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	perms, err := h.accessUc.EffectivePermissions(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, perms, "")
}

// DirectPermissions returns only the permissions granted directly to the user.
func (h *UserHandler) DirectPermissions(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	perms, err := h.permUc.ListDirectForUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, perms, "")
}

// GrantPermission grants a permission directly to the user.
func (h *UserHandler) GrantPermission(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	permissionID, err := pathUUID(c, "permissionId")
	if err != nil {
		return err
	}

	if err := h.permUc.GrantToUser(c.Request().Context(), userID, permissionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Permission granted to user")
}

// RevokePermission removes a direct grant from the user.
func (h *UserHandler) RevokePermission(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	permissionID, err := pathUUID(c, "permissionId")
	if err != nil {
		return err
	}

	if err := h.permUc.RevokeFromUser(c.Request().Context(), userID, permissionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Permission revoked from user")
}
