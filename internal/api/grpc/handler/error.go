package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/authsys-server/internal/model"
)

// handleError converts a domain error into a gRPC status. Authentication
// failures share one message so callers cannot tell their causes apart.
func handleError(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrAuthenticationFailed),
		errors.Is(err, model.ErrTokenInvalid),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrWrongTokenType):
		return status.Error(codes.Unauthenticated, "invalid token")
	case errors.Is(err, model.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, model.ErrConflict):
		return status.Error(codes.AlreadyExists, "already exists")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
