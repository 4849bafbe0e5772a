package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"storefront-engine/internal/coordinator"
	"storefront-engine/internal/domain"
)

const (
	storefrontServiceName = "storefront.v1.Storefront"
	dispatchMethod        = "/" + storefrontServiceName + "/Dispatch"
	snapshotMethod        = "/" + storefrontServiceName + "/Snapshot"
)

// StorefrontServer is the gRPC surface. Messages use the well-known
// google.protobuf.Struct so no generated code is needed; Dispatch takes the
// same envelope as POST /api/v1/intents and both methods return a snapshot.
type StorefrontServer interface {
	Dispatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Snapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// StorefrontServiceDesc is registered with grpc.Server.RegisterService.
var StorefrontServiceDesc = grpc.ServiceDesc{
	ServiceName: storefrontServiceName,
	HandlerType: (*StorefrontServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Dispatch", Handler: dispatchHandler},
		{MethodName: "Snapshot", Handler: snapshotHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/v1/storefront.proto",
}

func dispatchHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StorefrontServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: dispatchMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StorefrontServer).Dispatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func snapshotHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StorefrontServer).Snapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: snapshotMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StorefrontServer).Snapshot(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// GRPCHandler implements StorefrontServer on top of a Dispatcher.
type GRPCHandler struct {
	dispatcher Dispatcher
	validate   *validator.Validate
	log        zerolog.Logger
}

// NewGRPCHandler creates a new GRPCHandler.
func NewGRPCHandler(d Dispatcher, log zerolog.Logger) *GRPCHandler {
	return &GRPCHandler{
		dispatcher: d,
		validate:   validator.New(),
		log:        log.With().Str("component", "grpc").Logger(),
	}
}

// mapIntentErrorToGrpcStatus converts coordinator errors to gRPC status errors.
func mapIntentErrorToGrpcStatus(err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Message)
	case errors.Is(err, domain.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, coordinator.ErrLoopStopped):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	}
	return status.Errorf(codes.Internal, "failed to apply intent: %v", err)
}

func snapshotToStruct(snap coordinator.Snapshot) (*structpb.Struct, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return structpb.NewStruct(m)
}

func (s *GRPCHandler) Dispatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	raw, err := json.Marshal(req.AsMap())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	var env IntentEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := s.validate.Struct(env); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation failed: %v", err)
	}
	intent, err := env.ToIntent()
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	snap, err := s.dispatcher.Dispatch(ctx, intent)
	if err != nil {
		return nil, mapIntentErrorToGrpcStatus(err)
	}
	out, err := snapshotToStruct(snap)
	if err != nil {
		s.log.Error().Err(err).Msg("snapshot conversion failed")
		return nil, status.Error(codes.Internal, "failed to encode snapshot")
	}
	return out, nil
}

func (s *GRPCHandler) Snapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snap, err := s.dispatcher.Snapshot(ctx)
	if err != nil {
		return nil, mapIntentErrorToGrpcStatus(err)
	}
	out, err := snapshotToStruct(snap)
	if err != nil {
		s.log.Error().Err(err).Msg("snapshot conversion failed")
		return nil, status.Error(codes.Internal, "failed to encode snapshot")
	}
	return out, nil
}

// UnaryLoggingInterceptor stamps each call with an id and logs its outcome.
func UnaryLoggingInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		callID := uuid.NewString()
		resp, err := handler(ctx, req)
		ev := log.Info()
		if err != nil {
			ev = log.Warn().Err(err)
		}
		ev.Str("call_id", callID).
			Str("method", info.FullMethod).
			Str("code", status.Code(err).String()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("grpc.complete")
		return resp, err
	}
}

// StorefrontClient is a thin client for the Storefront service.
type StorefrontClient struct {
	cc grpc.ClientConnInterface
}

func NewStorefrontClient(cc grpc.ClientConnInterface) *StorefrontClient {
	return &StorefrontClient{cc: cc}
}

func (c *StorefrontClient) Dispatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, dispatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) Snapshot(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, snapshotMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
