package handler

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	apicontext "github.com/dtroode/authsys-server/internal/api/context"
	"github.com/dtroode/authsys-server/internal/mocks"
	"github.com/dtroode/authsys-server/internal/model"
	"github.com/dtroode/authsys-server/internal/testutil"
)

func TestIntrospection_Authenticate(t *testing.T) {
	t.Parallel()

	cm := apicontext.NewManager()
	h := NewIntrospection(mocks.NewScopeResolver(t), cm, testutil.MakeNoopLogger())

	_, err := h.Authenticate(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	identity := &model.Identity{User: model.User{ID: uuid.New(), Email: "svc@example.com"}}
	ctx := cm.SetIdentityToContext(context.Background(), identity)

	resp, err := h.Authenticate(ctx, &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, identity.User.ID.String(), resp.GetFields()["user_id"].GetStringValue())
	assert.Equal(t, "svc@example.com", resp.GetFields()["email"].GetStringValue())
}

func TestIntrospection_ResolveScope(t *testing.T) {
	t.Parallel()

	identity := &model.Identity{User: model.User{ID: uuid.New()}}

	tests := []struct {
		name      string
		req       map[string]any
		scope     model.Scope
		err       error
		callStore bool
		wantCode  codes.Code
		wantNull  bool
		wantScope string
	}{
		{name: "all", req: map[string]any{"resource": "articles", "action": "read"}, scope: model.ScopeAll, callStore: true, wantCode: codes.OK, wantScope: "ALL"},
		{name: "own", req: map[string]any{"resource": "articles", "action": "read"}, scope: model.ScopeOwn, callStore: true, wantCode: codes.OK, wantScope: "OWN"},
		{name: "none is null", req: map[string]any{"resource": "articles", "action": "read"}, scope: model.ScopeNone, callStore: true, wantCode: codes.OK, wantNull: true},
		{name: "missing action", req: map[string]any{"resource": "articles"}, wantCode: codes.InvalidArgument},
		{name: "store failure", req: map[string]any{"resource": "articles", "action": "read"}, err: assert.AnError, callStore: true, wantCode: codes.Internal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver := mocks.NewScopeResolver(t)
			if tt.callStore {
				resolver.On("Resolve", mock.Anything, identity, "articles", "read").Return(tt.scope, tt.err)
			}

			cm := apicontext.NewManager()
			h := NewIntrospection(resolver, cm, testutil.MakeNoopLogger())
			ctx := cm.SetIdentityToContext(context.Background(), identity)

			req, err := structpb.NewStruct(tt.req)
			require.NoError(t, err)

			resp, err := h.ResolveScope(ctx, req)
			assert.Equal(t, tt.wantCode, status.Code(err))
			if tt.wantCode != codes.OK {
				return
			}

			value := resp.GetFields()["scope"]
			require.NotNil(t, value)
			if tt.wantNull {
				_, isNull := value.GetKind().(*structpb.Value_NullValue)
				assert.True(t, isNull)
				return
			}
			assert.Equal(t, tt.wantScope, value.GetStringValue())
		})
	}
}
