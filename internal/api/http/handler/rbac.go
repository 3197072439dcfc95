package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/api/http/respond"
	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
	"github.com/dtroode/authsys-server/internal/service"
)

// RBACService defines role and permission administration.
type RBACService interface {
	CreateRole(ctx context.Context, name, description string) (model.Role, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	GetRole(ctx context.Context, id int64) (model.Role, error)
	UpdateRole(ctx context.Context, id int64, upd service.RoleUpdate) (model.Role, error)
	DeleteRole(ctx context.Context, id int64) error

	CreatePermission(ctx context.Context, resource, action string, scope model.Scope) (model.Permission, error)
	ListPermissions(ctx context.Context) ([]model.Permission, error)
	GetPermission(ctx context.Context, id int64) (model.Permission, error)
	UpdatePermission(ctx context.Context, id int64, upd service.PermissionUpdate) (model.Permission, error)
	DeletePermission(ctx context.Context, id int64) error

	GrantPermission(ctx context.Context, roleID, permissionID int64) (model.RolePermission, error)
	ListRolePermissions(ctx context.Context) ([]model.RolePermission, error)
	GetRolePermission(ctx context.Context, id int64) (model.RolePermission, error)
	RevokePermission(ctx context.Context, id int64) error

	AssignRole(ctx context.Context, userID uuid.UUID, roleID int64) (model.UserRole, error)
	ListUserRoles(ctx context.Context) ([]model.UserRole, error)
	GetUserRole(ctx context.Context, id int64) (model.UserRole, error)
	UnassignRole(ctx context.Context, id int64) error
}

type roleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type permissionRequest struct {
	Resource *string      `json:"resource"`
	Action   *string      `json:"action"`
	Scope    *model.Scope `json:"scope"`
}

type rolePermissionRequest struct {
	Role       int64 `json:"role"`
	Permission int64 `json:"permission"`
}

type userRoleRequest struct {
	User uuid.UUID `json:"user"`
	Role int64     `json:"role"`
}

// RBAC handles /rbac/ administration. Access is gated by the router.
type RBAC struct {
	rbacService RBACService
	logger      *logger.Logger
}

// NewRBAC creates a new RBAC handler.
func NewRBAC(rbacService RBACService, logger *logger.Logger) *RBAC {
	return &RBAC{rbacService: rbacService, logger: logger}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// write responds with v or maps err.
func (h *RBAC) write(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}
	respond.JSON(w, status, v)
}

func (h *RBAC) remove(w http.ResponseWriter, r *http.Request, del func(context.Context, int64) error) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := del(r.Context(), id); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RBAC) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}
	role, err := h.rbacService.CreateRole(r.Context(), deref(req.Name), deref(req.Description))
	h.write(w, r, http.StatusCreated, role, err)
}

func (h *RBAC) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.rbacService.ListRoles(r.Context())
	h.write(w, r, http.StatusOK, roles, err)
}

func (h *RBAC) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	role, err := h.rbacService.GetRole(r.Context(), id)
	h.write(w, r, http.StatusOK, role, err)
}

// UpdateRole serves both PUT and PATCH; omitted fields are kept.
func (h *RBAC) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req roleRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}
	role, err := h.rbacService.UpdateRole(r.Context(), id, service.RoleUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	h.write(w, r, http.StatusOK, role, err)
}

func (h *RBAC) DeleteRole(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.rbacService.DeleteRole)
}

// CreatePermission defaults a missing scope to ALL.
func (h *RBAC) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var req permissionRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}
	perm, err := h.rbacService.CreatePermission(r.Context(), deref(req.Resource), deref(req.Action), deref(req.Scope))
	h.write(w, r, http.StatusCreated, perm, err)
}

func (h *RBAC) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.rbacService.ListPermissions(r.Context())
	h.write(w, r, http.StatusOK, perms, err)
}

func (h *RBAC) GetPermission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	perm, err := h.rbacService.GetPermission(r.Context(), id)
	h.write(w, r, http.StatusOK, perm, err)
}

func (h *RBAC) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req permissionRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}
	perm, err := h.rbacService.UpdatePermission(r.Context(), id, service.PermissionUpdate{
		Resource: req.Resource,
		Action:   req.Action,
		Scope:    req.Scope,
	})
	h.write(w, r, http.StatusOK, perm, err)
}

func (h *RBAC) DeletePermission(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.rbacService.DeletePermission)
}

func (h *RBAC) CreateRolePermission(w http.ResponseWriter, r *http.Request) {
	var req rolePermissionRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}
	link, err := h.rbacService.GrantPermission(r.Context(), req.Role, req.Permission)
	h.write(w, r, http.StatusCreated, link, err)
}

func (h *RBAC) ListRolePermissions(w http.ResponseWriter, r *http.Request) {
	links, err := h.rbacService.ListRolePermissions(r.Context())
	h.write(w, r, http.StatusOK, links, err)
}

func (h *RBAC) GetRolePermission(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	link, err := h.rbacService.GetRolePermission(r.Context(), id)
	h.write(w, r, http.StatusOK, link, err)
}

func (h *RBAC) DeleteRolePermission(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.rbacService.RevokePermission)
}

func (h *RBAC) CreateUserRole(w http.ResponseWriter, r *http.Request) {
	var req userRoleRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.FromError(w, r, h.logger, err)
		return
	}
	link, err := h.rbacService.AssignRole(r.Context(), req.User, req.Role)
	h.write(w, r, http.StatusCreated, link, err)
}

func (h *RBAC) ListUserRoles(w http.ResponseWriter, r *http.Request) {
	links, err := h.rbacService.ListUserRoles(r.Context())
	h.write(w, r, http.StatusOK, links, err)
}

func (h *RBAC) GetUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	link, err := h.rbacService.GetUserRole(r.Context(), id)
	h.write(w, r, http.StatusOK, link, err)
}

func (h *RBAC) DeleteUserRole(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.rbacService.UnassignRole)
}
