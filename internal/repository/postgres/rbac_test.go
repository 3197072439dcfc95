package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/authsys-server/internal/model"
)

func newRBACMock(t *testing.T) (*RBACRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRBACRepository(db), mock
}

func TestRBACRepository_CreateRole(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRBACMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO roles (name, description)")).
		WithArgs("editor", "Edits articles").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).AddRow(int64(3), "editor", "Edits articles"))

	role, err := repo.CreateRole(ctx, model.Role{Name: "editor", Description: "Edits articles"})
	require.NoError(t, err)
	assert.Equal(t, model.Role{ID: 3, Name: "editor", Description: "Edits articles"}, role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRBACRepository_CreateRole_Conflict(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRBACMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO roles (name, description)")).
		WithArgs("editor", "").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	_, err := repo.CreateRole(ctx, model.Role{Name: "editor"})
	require.ErrorIs(t, err, model.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRBACRepository_GetRole_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRBACMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description FROM roles WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}))

	_, err := repo.GetRole(ctx, 99)
	require.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRBACRepository_ListRoles(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRBACMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description FROM roles ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(int64(1), "admin", "").
			AddRow(int64(2), "reader", "Reads"))

	roles, err := repo.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "reader", roles[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRBACRepository_ListRoles_Empty(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRBACMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM roles ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}))

	roles, err := repo.ListRoles(ctx)
	require.NoError(t, err)
	assert.NotNil(t, roles)
	assert.Empty(t, roles)
}

func TestRBACRepository_DeleteRole(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "deleted", affected: 1},
		{name: "missing", affected: 0, wantErr: model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRBACMock(t)
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM roles WHERE id = $1")).
				WithArgs(int64(5)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.DeleteRole(context.Background(), 5)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRBACRepository_CreatePermission(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRBACMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO permissions (resource, action, scope)")).
		WithArgs("articles", "read", "OWN").
		WillReturnRows(sqlmock.NewRows([]string{"id", "resource", "action", "scope"}).AddRow(int64(7), "articles", "read", "OWN"))

	perm, err := repo.CreatePermission(ctx, model.Permission{Resource: "articles", Action: "read", Scope: model.ScopeOwn})
	require.NoError(t, err)
	assert.Equal(t, model.Permission{ID: 7, Resource: "articles", Action: "read", Scope: model.ScopeOwn}, perm)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRBACRepository_FindPermission(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRBACMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE resource = $1 AND action = $2 AND scope = $3")).
		WithArgs("rbac", "manage", "ALL").
		WillReturnRows(sqlmock.NewRows([]string{"id", "resource", "action", "scope"}).AddRow(int64(1), "rbac", "manage", "ALL"))

	perm, err := repo.FindPermission(ctx, "rbac", "manage", model.ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, int64(1), perm.ID)
	assert.Equal(t, model.ScopeAll, perm.Scope)
}

func TestRBACRepository_CreateRolePermission_MissingRole(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRBACMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO role_permissions (role_id, permission_id)")).
		WithArgs(int64(404), int64(1)).
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation})

	_, err := repo.CreateRolePermission(ctx, model.RolePermission{RoleID: 404, PermissionID: 1})
	require.ErrorIs(t, err, model.ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRBACRepository_CreateUserRole(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRBACMock(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO user_roles (user_id, role_id)")).
		WithArgs(userID.String(), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "role_id"}).AddRow(int64(11), userID.String(), int64(2)))

	link, err := repo.CreateUserRole(ctx, model.UserRole{UserID: userID, RoleID: 2})
	require.NoError(t, err)
	assert.Equal(t, model.UserRole{ID: 11, UserID: userID, RoleID: 2}, link)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRBACRepository_ListUserRoles_QueryError(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRBACMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_roles ORDER BY id")).WillReturnError(assert.AnError)

	_, err := repo.ListUserRoles(ctx)
	require.ErrorIs(t, err, assert.AnError)
}
