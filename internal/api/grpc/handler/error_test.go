package handler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/authsys-server/internal/model"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "invalid input", err: fmt.Errorf("%w: resource is required", model.ErrInvalidInput), want: codes.InvalidArgument},
		{name: "inactive user", err: model.ErrUserInactive, want: codes.Unauthenticated},
		{name: "expired token", err: fmt.Errorf("parse: %w", model.ErrTokenExpired), want: codes.Unauthenticated},
		{name: "forbidden", err: model.ErrForbiddenByOwnScope, want: codes.PermissionDenied},
		{name: "not found", err: model.ErrNotFound, want: codes.NotFound},
		{name: "conflict", err: model.ErrConflict, want: codes.AlreadyExists},
		{name: "unknown", err: assert.AnError, want: codes.Internal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st, ok := status.FromError(handleError(tt.err))
			assert.True(t, ok)
			assert.Equal(t, tt.want, st.Code())
		})
	}
}

func TestHandleError_UniformAuthMessage(t *testing.T) {
	t.Parallel()

	a, _ := status.FromError(handleError(model.ErrUserInactive))
	b, _ := status.FromError(handleError(model.ErrTokenInvalid))
	assert.Equal(t, a.Message(), b.Message())
}
