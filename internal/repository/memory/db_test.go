package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/authsys-server/internal/model"
)

func newUser(t *testing.T, db *DB, email string) model.User {
	t.Helper()
	u, err := db.Users().Create(context.Background(), model.User{ID: uuid.New(), Email: email, IsActive: true})
	require.NoError(t, err)
	return u
}

func newToken(t *testing.T, db *DB, userID uuid.UUID, jti string) model.RefreshToken {
	t.Helper()
	rt := model.RefreshToken{ID: uuid.New(), UserID: userID, JTI: jti, CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, db.RefreshTokens().Create(context.Background(), rt))
	return rt
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	users := db.Users()

	u := newUser(t, db, "a@example.com")

	_, err := users.Create(ctx, model.User{ID: uuid.New(), Email: "A@example.com"})
	require.ErrorIs(t, err, model.ErrConflict)

	got, err := users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	u.FirstName = "Ann"
	updated, err := users.Update(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.FirstName)

	newToken(t, db, u.ID, "j1")
	require.NoError(t, users.SoftDelete(ctx, u.ID))

	_, err = users.GetByID(ctx, u.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = users.GetByEmail(ctx, "a@example.com")
	require.ErrorIs(t, err, model.ErrNotFound)

	rt, err := db.RefreshTokens().GetByUserAndJTI(ctx, u.ID, "j1")
	require.NoError(t, err)
	assert.NotNil(t, rt.RevokedAt)

	require.ErrorIs(t, users.SoftDelete(ctx, u.ID), model.ErrNotFound)
}

func TestRefreshTokenRepository_RotateIsSingleUse(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	u := newUser(t, db, "a@example.com")
	old := newToken(t, db, u.ID, "old")

	const workers = 8
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			from := old.JTI
			next := model.RefreshToken{ID: uuid.New(), UserID: u.ID, JTI: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour), RotatedFromJTI: &from}
			err := db.RefreshTokens().Rotate(ctx, old.ID, next)
			if err == nil {
				wins.Add(1)
				return
			}
			assert.ErrorIs(t, err, model.ErrRefreshInactive)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestRefreshTokenRepository_RevokeAllIsolation(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	alice := newUser(t, db, "alice@example.com")
	bob := newUser(t, db, "bob@example.com")
	newToken(t, db, alice.ID, "a1")
	newToken(t, db, alice.ID, "a2")
	newToken(t, db, bob.ID, "b1")

	n, err := db.RefreshTokens().RevokeAllByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	b1, err := db.RefreshTokens().GetByUserAndJTI(ctx, bob.ID, "b1")
	require.NoError(t, err)
	assert.True(t, b1.IsActive(time.Now()))

	n, err = db.RefreshTokens().RevokeAllByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRBACRepository_ScopesFor(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	rbac := db.RBAC()
	u := newUser(t, db, "a@example.com")

	scopes, err := rbac.ScopesFor(ctx, u.ID, "articles", "update")
	require.NoError(t, err)
	assert.Empty(t, scopes)

	editor, err := rbac.CreateRole(ctx, model.Role{Name: "editor"})
	require.NoError(t, err)
	admin, err := rbac.CreateRole(ctx, model.Role{Name: "admin"})
	require.NoError(t, err)
	own, err := rbac.CreatePermission(ctx, model.Permission{Resource: "articles", Action: "update", Scope: model.ScopeOwn})
	require.NoError(t, err)
	all, err := rbac.CreatePermission(ctx, model.Permission{Resource: "articles", Action: "update", Scope: model.ScopeAll})
	require.NoError(t, err)

	_, err = rbac.CreateRolePermission(ctx, model.RolePermission{RoleID: editor.ID, PermissionID: own.ID})
	require.NoError(t, err)
	_, err = rbac.CreateRolePermission(ctx, model.RolePermission{RoleID: admin.ID, PermissionID: all.ID})
	require.NoError(t, err)
	_, err = rbac.CreateUserRole(ctx, model.UserRole{UserID: u.ID, RoleID: editor.ID})
	require.NoError(t, err)

	scopes, err = rbac.ScopesFor(ctx, u.ID, "articles", "update")
	require.NoError(t, err)
	assert.Equal(t, model.ScopeOwn, model.WidestScope(scopes...))

	_, err = rbac.CreateUserRole(ctx, model.UserRole{UserID: u.ID, RoleID: admin.ID})
	require.NoError(t, err)

	scopes, err = rbac.ScopesFor(ctx, u.ID, "articles", "update")
	require.NoError(t, err)
	assert.Equal(t, model.ScopeAll, model.WidestScope(scopes...))

	require.NoError(t, db.Users().SoftDelete(ctx, u.ID))
	scopes, err = rbac.ScopesFor(ctx, u.ID, "articles", "update")
	require.NoError(t, err)
	assert.Empty(t, scopes)
}

func TestRBACRepository_Constraints(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	rbac := db.RBAC()
	u := newUser(t, db, "a@example.com")

	role, err := rbac.CreateRole(ctx, model.Role{Name: "viewer"})
	require.NoError(t, err)
	_, err = rbac.CreateRole(ctx, model.Role{Name: "viewer"})
	require.ErrorIs(t, err, model.ErrConflict)

	perm, err := rbac.CreatePermission(ctx, model.Permission{Resource: "articles", Action: "read", Scope: model.ScopeAll})
	require.NoError(t, err)
	_, err = rbac.CreatePermission(ctx, model.Permission{Resource: "articles", Action: "read", Scope: model.ScopeAll})
	require.ErrorIs(t, err, model.ErrConflict)

	_, err = rbac.CreateRolePermission(ctx, model.RolePermission{RoleID: role.ID, PermissionID: 999})
	require.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = rbac.CreateUserRole(ctx, model.UserRole{UserID: uuid.New(), RoleID: role.ID})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	link, err := rbac.CreateRolePermission(ctx, model.RolePermission{RoleID: role.ID, PermissionID: perm.ID})
	require.NoError(t, err)
	_, err = rbac.CreateRolePermission(ctx, model.RolePermission{RoleID: role.ID, PermissionID: perm.ID})
	require.ErrorIs(t, err, model.ErrConflict)
	_, err = rbac.CreateUserRole(ctx, model.UserRole{UserID: u.ID, RoleID: role.ID})
	require.NoError(t, err)

	require.NoError(t, rbac.DeleteRole(ctx, role.ID))
	_, err = rbac.GetRolePermission(ctx, link.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
	userRoles, err := rbac.ListUserRoles(ctx)
	require.NoError(t, err)
	assert.Empty(t, userRoles)

	require.ErrorIs(t, rbac.DeleteRole(ctx, role.ID), model.ErrNotFound)
}
