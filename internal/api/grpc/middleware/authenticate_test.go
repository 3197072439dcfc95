package middleware

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	apicontext "github.com/dtroode/authsys-server/internal/api/context"
	"github.com/dtroode/authsys-server/internal/mocks"
	"github.com/dtroode/authsys-server/internal/model"
	"github.com/dtroode/authsys-server/internal/testutil"
)

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	identity := &model.Identity{User: model.User{ID: uuid.New(), Email: "svc@example.com"}}

	tests := []struct {
		name         string
		mdAuthHeader string
		callAuth     bool
		identity     *model.Identity
		authErr      error
		wantGRPCCode codes.Code
	}{
		{
			name:         "missing authorization header",
			wantGRPCCode: codes.Unauthenticated,
		},
		{
			name:         "wrong scheme",
			mdAuthHeader: "Basic dXNlcjpwYXNz",
			wantGRPCCode: codes.Unauthenticated,
		},
		{
			name:         "invalid token",
			mdAuthHeader: "Bearer invalid",
			callAuth:     true,
			authErr:      fmt.Errorf("%w: %w", model.ErrAuthenticationFailed, model.ErrTokenInvalid),
			wantGRPCCode: codes.Unauthenticated,
		},
		{
			name:         "store failure",
			mdAuthHeader: "Bearer token",
			callAuth:     true,
			authErr:      assert.AnError,
			wantGRPCCode: codes.Internal,
		},
		{
			name:         "valid token",
			mdAuthHeader: "Bearer token",
			callAuth:     true,
			identity:     identity,
			wantGRPCCode: codes.OK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			authenticator := mocks.NewAuthenticator(t)
			if tt.callAuth {
				authenticator.On("Authenticate", mock.Anything, tt.mdAuthHeader).Return(tt.identity, tt.authErr)
			}

			cm := apicontext.NewManager()
			m := NewAuthenticate(authenticator, cm, testutil.MakeNoopLogger())

			ctx := context.Background()
			if tt.mdAuthHeader != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.mdAuthHeader))
			}

			newCtx, err := m.AuthFunc(ctx)
			assert.Equal(t, tt.wantGRPCCode, status.Code(err))
			if tt.wantGRPCCode != codes.OK {
				assert.Nil(t, newCtx)
				return
			}

			got, ok := cm.GetIdentityFromContext(newCtx)
			assert.True(t, ok)
			assert.Equal(t, identity, got)
		})
	}
}
