package handler

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

const (
	// IntrospectionServiceName is the fully qualified gRPC service name.
	IntrospectionServiceName = "authsys.v1.Introspection"

	authenticateMethod = "/" + IntrospectionServiceName + "/Authenticate"
	resolveScopeMethod = "/" + IntrospectionServiceName + "/ResolveScope"
)

// ScopeResolver computes the caller's scope for a resource and action.
type ScopeResolver interface {
	Resolve(ctx context.Context, identity *model.Identity, resource, action string) (model.Scope, error)
}

// IntrospectionServer lets resource services validate callers and look up their scopes.
// Messages are google.protobuf.Struct so that no generated code is needed.
type IntrospectionServer interface {
	Authenticate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ResolveScope(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// IntrospectionServiceDesc describes the introspection service for grpc.Server.RegisterService.
var IntrospectionServiceDesc = grpc.ServiceDesc{
	ServiceName: IntrospectionServiceName,
	HandlerType: (*IntrospectionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Authenticate", Handler: unaryHandler(authenticateMethod, IntrospectionServer.Authenticate)},
		{MethodName: "ResolveScope", Handler: unaryHandler(resolveScopeMethod, IntrospectionServer.ResolveScope)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "authsys/v1/introspection.proto",
}

func unaryHandler(
	fullMethod string,
	call func(IntrospectionServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(IntrospectionServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(IntrospectionServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var _ IntrospectionServer = (*Introspection)(nil)

// Introspection handles the introspection endpoints. Callers are
// authenticated by the router's auth interceptor.
type Introspection struct {
	resolver       ScopeResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewIntrospection creates a new Introspection handler.
func NewIntrospection(resolver ScopeResolver, contextManager model.ContextManager, logger *logger.Logger) *Introspection {
	return &Introspection{resolver: resolver, contextManager: contextManager, logger: logger}
}

// Authenticate returns the caller's user id and email.
func (h *Introspection) Authenticate(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	identity, ok := h.contextManager.GetIdentityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}

	resp, err := structpb.NewStruct(map[string]any{
		"user_id": identity.User.ID.String(),
		"email":   identity.User.Email,
	})
	if err != nil {
		return nil, handleError(fmt.Errorf("failed to build response: %w", err))
	}
	return resp, nil
}

// ResolveScope returns {"scope": "OWN"|"ALL"|null} for the caller.
func (h *Introspection) ResolveScope(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	identity, ok := h.contextManager.GetIdentityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}

	resource := strings.TrimSpace(req.GetFields()["resource"].GetStringValue())
	action := strings.TrimSpace(req.GetFields()["action"].GetStringValue())
	if resource == "" || action == "" {
		return nil, handleError(fmt.Errorf("%w: resource and action are required", model.ErrInvalidInput))
	}

	scope, err := h.resolver.Resolve(ctx, identity, resource, action)
	if err != nil {
		h.logger.Error("Introspection handler: scope resolution failed",
			"user_id", identity.User.ID.String(),
			"error", err.Error())
		return nil, handleError(err)
	}

	var value any
	if scope != model.ScopeNone {
		value = string(scope)
	}
	resp, err := structpb.NewStruct(map[string]any{"scope": value})
	if err != nil {
		return nil, handleError(fmt.Errorf("failed to build response: %w", err))
	}
	return resp, nil
}
