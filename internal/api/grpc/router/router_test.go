package router

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	apicontext "github.com/dtroode/authsys-server/internal/api/context"
	"github.com/dtroode/authsys-server/internal/model"
	"github.com/dtroode/authsys-server/internal/repository/memory"
	"github.com/dtroode/authsys-server/internal/service"
	"github.com/dtroode/authsys-server/internal/testutil"
	"github.com/dtroode/authsys-server/internal/token"
)

func dial(t *testing.T, s *grpc.Server) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRouter_Introspection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := testutil.MakeNoopLogger()
	db := memory.NewDB()

	jwt, err := token.NewJWT(token.Config{Secret: "grpc-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	require.NoError(t, err)

	user, err := db.Users().Create(ctx, model.User{ID: uuid.New(), Email: "svc@example.com", IsActive: true})
	require.NoError(t, err)

	rbac := db.RBAC()
	role, err := rbac.CreateRole(ctx, model.Role{Name: "reader"})
	require.NoError(t, err)
	perm, err := rbac.CreatePermission(ctx, model.Permission{Resource: "articles", Action: "read", Scope: model.ScopeOwn})
	require.NoError(t, err)
	_, err = rbac.CreateRolePermission(ctx, model.RolePermission{RoleID: role.ID, PermissionID: perm.ID})
	require.NoError(t, err)
	_, err = rbac.CreateUserRole(ctx, model.UserRole{UserID: user.ID, RoleID: role.ID})
	require.NoError(t, err)

	access, err := jwt.IssueAccess(user.ID.String())
	require.NoError(t, err)

	r := New(
		service.NewAuthenticator(jwt, db.Users(), log),
		service.NewScopeResolver(rbac, log),
		apicontext.NewManager(),
		log,
	)
	conn := dial(t, r.Register())

	t.Run("health needs no credentials", func(t *testing.T) {
		resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	})

	t.Run("anonymous call is rejected", func(t *testing.T) {
		out := new(structpb.Struct)
		err := conn.Invoke(ctx, "/authsys.v1.Introspection/Authenticate", &structpb.Struct{}, out)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		refresh, _, _, err := jwt.IssueRefresh(user.ID.String(), "")
		require.NoError(t, err)

		callCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+refresh)
		err = conn.Invoke(callCtx, "/authsys.v1.Introspection/Authenticate", &structpb.Struct{}, new(structpb.Struct))
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	authCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+access)

	t.Run("authenticate returns caller", func(t *testing.T) {
		out := new(structpb.Struct)
		require.NoError(t, conn.Invoke(authCtx, "/authsys.v1.Introspection/Authenticate", &structpb.Struct{}, out))
		assert.Equal(t, user.ID.String(), out.GetFields()["user_id"].GetStringValue())
		assert.Equal(t, "svc@example.com", out.GetFields()["email"].GetStringValue())
	})

	t.Run("resolve scope", func(t *testing.T) {
		in, err := structpb.NewStruct(map[string]any{"resource": "articles", "action": "read"})
		require.NoError(t, err)

		out := new(structpb.Struct)
		require.NoError(t, conn.Invoke(authCtx, "/authsys.v1.Introspection/ResolveScope", in, out))
		assert.Equal(t, "OWN", out.GetFields()["scope"].GetStringValue())
	})
}
