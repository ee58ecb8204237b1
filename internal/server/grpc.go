// gRPC JourneyService: well-known protobuf payloads over a hand-registered service
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/nainya/journeylens/internal/logger"
	"github.com/nainya/journeylens/internal/metrics"
	"github.com/nainya/journeylens/pkg/journey"
)

// JourneyServiceName is the fully-qualified gRPC service name
const JourneyServiceName = "journey.v1.JourneyService"

// JourneyServiceServer is the server API for JourneyService
type JourneyServiceServer interface {
	ListEpisodes(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetEpisodeChats(context.Context, *wrapperspb.Int32Value) (*structpb.Struct, error)
	GetDashboard(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetDecision(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterJourneyServiceServer registers srv on s
func RegisterJourneyServiceServer(s grpc.ServiceRegistrar, srv JourneyServiceServer) {
	s.RegisterService(&journeyServiceDesc, srv)
}

func unaryHandler[Req proto.Message, Resp proto.Message](
	method string,
	newReq func() Req,
	call func(JourneyServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	fullMethod := "/" + JourneyServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(JourneyServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(JourneyServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var journeyServiceDesc = grpc.ServiceDesc{
	ServiceName: JourneyServiceName,
	HandlerType: (*JourneyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListEpisodes",
			Handler: unaryHandler("ListEpisodes", func() *emptypb.Empty { return &emptypb.Empty{} },
				JourneyServiceServer.ListEpisodes),
		},
		{
			MethodName: "GetEpisodeChats",
			Handler: unaryHandler("GetEpisodeChats", func() *wrapperspb.Int32Value { return &wrapperspb.Int32Value{} },
				JourneyServiceServer.GetEpisodeChats),
		},
		{
			MethodName: "GetDashboard",
			Handler: unaryHandler("GetDashboard", func() *emptypb.Empty { return &emptypb.Empty{} },
				JourneyServiceServer.GetDashboard),
		},
		{
			MethodName: "GetDecision",
			Handler: unaryHandler("GetDecision", func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} },
				JourneyServiceServer.GetDecision),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: journeyProtoFile,
}

// GrpcServer implements JourneyServiceServer on top of a Service
type GrpcServer struct {
	svc *Service
}

// NewGrpcServer builds a grpc.Server with the journey and health services
func NewGrpcServer(svc *Service, log *logger.Logger, m *metrics.Metrics) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(GrpcMetricsInterceptor(m, log)),
	)

	RegisterJourneyServiceServer(s, &GrpcServer{svc: svc})

	hs := health.NewServer()
	hs.SetServingStatus(JourneyServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	reflection.Register(s)

	return s
}

func (g *GrpcServer) ListEpisodes(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	list := &structpb.ListValue{}
	if err := toMessage(g.svc.Episodes(), list); err != nil {
		return nil, status.Errorf(codes.Internal, "encode episodes: %v", err)
	}
	return list, nil
}

func (g *GrpcServer) GetEpisodeChats(ctx context.Context, req *wrapperspb.Int32Value) (*structpb.Struct, error) {
	if req.GetValue() < 0 {
		return nil, status.Error(codes.InvalidArgument, "episode index must not be negative")
	}

	// An unreadable date range is reported in date_error, not as a status.
	result, err := g.svc.EpisodeChats(int(req.GetValue()))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(result)
}

func (g *GrpcServer) GetDashboard(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(g.svc.Dashboard())
}

func (g *GrpcServer) GetDecision(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "decision id is required")
	}

	trace, err := g.svc.Decision(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(trace)
}

// toStatus maps domain errors to gRPC status codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, journey.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, journey.ErrDataFormat):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func toStruct(v any) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if err := toMessage(v, s); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return s, nil
}

// toMessage converts a JSON-tagged Go value into a well-known protobuf message
func toMessage(v any, m proto.Message) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return protojson.Unmarshal(data, m)
}

// fromMessage converts a well-known protobuf message back into a Go value
func fromMessage(m proto.Message, v any) error {
	data, err := protojson.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// ========== Client ==========

// Client is a typed JourneyService client
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out proto.Message, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, "/"+JourneyServiceName+"/"+method, in, out, opts...)
}

// ListEpisodes returns all episodes
func (c *Client) ListEpisodes(ctx context.Context, opts ...grpc.CallOption) ([]journey.Episode, error) {
	out := &structpb.ListValue{}
	if err := c.invoke(ctx, "ListEpisodes", &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	var episodes []journey.Episode
	if err := fromMessage(out, &episodes); err != nil {
		return nil, fmt.Errorf("decode episodes: %w", err)
	}
	return episodes, nil
}

// GetEpisodeChats returns the chats of one episode
func (c *Client) GetEpisodeChats(ctx context.Context, index int32, opts ...grpc.CallOption) (*EpisodeChats, error) {
	out := &structpb.Struct{}
	if err := c.invoke(ctx, "GetEpisodeChats", wrapperspb.Int32(index), out, opts...); err != nil {
		return nil, err
	}
	var result EpisodeChats
	if err := fromMessage(out, &result); err != nil {
		return nil, fmt.Errorf("decode episode chats: %w", err)
	}
	return &result, nil
}

// GetDashboard returns the aggregated analytics
func (c *Client) GetDashboard(ctx context.Context, opts ...grpc.CallOption) (*Dashboard, error) {
	out := &structpb.Struct{}
	if err := c.invoke(ctx, "GetDashboard", &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	var d Dashboard
	if err := fromMessage(out, &d); err != nil {
		return nil, fmt.Errorf("decode dashboard: %w", err)
	}
	return &d, nil
}

// GetDecision returns one decision trace
func (c *Client) GetDecision(ctx context.Context, id string, opts ...grpc.CallOption) (*journey.DecisionTrace, error) {
	out := &structpb.Struct{}
	if err := c.invoke(ctx, "GetDecision", wrapperspb.String(id), out, opts...); err != nil {
		return nil, err
	}
	var trace journey.DecisionTrace
	if err := fromMessage(out, &trace); err != nil {
		return nil, fmt.Errorf("decode decision: %w", err)
	}
	return &trace, nil
}
