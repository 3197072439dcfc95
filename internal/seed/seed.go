// Package seed applies a declarative RBAC policy so that a fresh database
// has at least one administrator.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

// Policy is the YAML document describing roles and assignments.
type Policy struct {
	Roles []RolePolicy `yaml:"roles"`
	Users []UserPolicy `yaml:"users"`
}

type RolePolicy struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Permissions []PermissionPolicy `yaml:"permissions"`
}

type PermissionPolicy struct {
	Resource string      `yaml:"resource"`
	Action   string      `yaml:"action"`
	Scope    model.Scope `yaml:"scope,omitempty"`
}

type UserPolicy struct {
	Email string   `yaml:"email"`
	Roles []string `yaml:"roles"`
}

// Summary counts what Apply created. Existing rows are not counted.
type Summary struct {
	Roles           int
	Permissions     int
	RolePermissions int
	UserRoles       int
	SkippedUsers    int
}

// Load reads and validates a policy file.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read policy: %w", err)
	}
	return Parse(data)
}

// Parse decodes a policy, rejecting unknown keys, and fills defaults.
func Parse(data []byte) (Policy, error) {
	var p Policy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Policy{}, fmt.Errorf("failed to decode policy: %w", err)
	}

	roles := make(map[string]struct{}, len(p.Roles))
	for i := range p.Roles {
		r := &p.Roles[i]
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			return Policy{}, fmt.Errorf("%w: role %d has no name", model.ErrInvalidInput, i)
		}
		roles[r.Name] = struct{}{}
		for j := range r.Permissions {
			perm := &r.Permissions[j]
			if perm.Scope == model.ScopeNone {
				perm.Scope = model.ScopeAll
			}
			if perm.Resource == "" || perm.Action == "" || !perm.Scope.Valid() {
				return Policy{}, fmt.Errorf("%w: role %q permission %d", model.ErrInvalidInput, r.Name, j)
			}
		}
	}
	for _, u := range p.Users {
		for _, name := range u.Roles {
			if _, ok := roles[name]; !ok {
				return Policy{}, fmt.Errorf("%w: user %q references unknown role %q", model.ErrInvalidInput, u.Email, name)
			}
		}
	}

	return p, nil
}

// Seeder applies policies to the stores.
type Seeder struct {
	rbac   model.RBACStore
	users  model.UserStore
	logger *logger.Logger
}

func NewSeeder(rbac model.RBACStore, users model.UserStore, logger *logger.Logger) *Seeder {
	return &Seeder{rbac: rbac, users: users, logger: logger}
}

// Apply creates whatever the policy names and the stores lack. Running it
// twice is a no-op. Users that are not registered yet are skipped.
func (s *Seeder) Apply(ctx context.Context, p Policy) (Summary, error) {
	var sum Summary
	roleIDs := make(map[string]int64, len(p.Roles))

	for _, rp := range p.Roles {
		role, created, err := s.ensureRole(ctx, rp)
		if err != nil {
			return sum, err
		}
		if created {
			sum.Roles++
		}
		roleIDs[role.Name] = role.ID

		for _, pp := range rp.Permissions {
			perm, created, err := s.ensurePermission(ctx, pp)
			if err != nil {
				return sum, err
			}
			if created {
				sum.Permissions++
			}

			_, err = s.rbac.CreateRolePermission(ctx, model.RolePermission{RoleID: role.ID, PermissionID: perm.ID})
			switch {
			case err == nil:
				sum.RolePermissions++
			case !errors.Is(err, model.ErrConflict):
				return sum, fmt.Errorf("failed to grant %s:%s to %s: %w", pp.Resource, pp.Action, role.Name, err)
			}
		}
	}

	for _, up := range p.Users {
		user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(up.Email)))
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Seeder: user not registered, skipping",
				"email", up.Email)
			sum.SkippedUsers++
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("failed to get user %s: %w", up.Email, err)
		}

		for _, name := range up.Roles {
			_, err := s.rbac.CreateUserRole(ctx, model.UserRole{UserID: user.ID, RoleID: roleIDs[name]})
			switch {
			case err == nil:
				sum.UserRoles++
			case !errors.Is(err, model.ErrConflict):
				return sum, fmt.Errorf("failed to assign %s to %s: %w", name, up.Email, err)
			}
		}
	}

	s.logger.Info("Seeder: policy applied",
		"roles", sum.Roles,
		"permissions", sum.Permissions,
		"role_permissions", sum.RolePermissions,
		"user_roles", sum.UserRoles,
		"skipped_users", sum.SkippedUsers)

	return sum, nil
}

func (s *Seeder) ensureRole(ctx context.Context, rp RolePolicy) (model.Role, bool, error) {
	role, err := s.rbac.GetRoleByName(ctx, rp.Name)
	if err == nil {
		return role, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Role{}, false, fmt.Errorf("failed to get role %s: %w", rp.Name, err)
	}

	role, err = s.rbac.CreateRole(ctx, model.Role{Name: rp.Name, Description: rp.Description})
	if err != nil {
		return model.Role{}, false, fmt.Errorf("failed to create role %s: %w", rp.Name, err)
	}
	return role, true, nil
}

func (s *Seeder) ensurePermission(ctx context.Context, pp PermissionPolicy) (model.Permission, bool, error) {
	perm, err := s.rbac.FindPermission(ctx, pp.Resource, pp.Action, pp.Scope)
	if err == nil {
		return perm, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Permission{}, false, fmt.Errorf("failed to find permission %s:%s: %w", pp.Resource, pp.Action, err)
	}

	perm, err = s.rbac.CreatePermission(ctx, model.Permission{Resource: pp.Resource, Action: pp.Action, Scope: pp.Scope})
	if err != nil {
		return model.Permission{}, false, fmt.Errorf("failed to create permission %s:%s: %w", pp.Resource, pp.Action, err)
	}
	return perm, true, nil
}
