package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/authsys-server/internal/logger"
)

// Logging is a unary interceptor that logs introspection calls and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC logs method name, duration and status code for each unary call.
// Errors that carry no status are reported as Internal.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	code := codes.Internal
	if st, ok := status.FromError(err); ok {
		code = st.Code()
	}

	args := []any{
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds(),
		"status", code.String(),
	}
	if err != nil {
		l.logger.Error("gRPC request failed", append(args, "error", err.Error())...)
		return resp, err
	}

	l.logger.Info("gRPC request completed", args...)
	return resp, nil
}
