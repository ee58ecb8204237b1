// Integration tests for the JourneyService gRPC server
package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/nainya/journeylens/internal/logger"
	"github.com/nainya/journeylens/internal/metrics"
)

const bufSize = 1024 * 1024

func setupTestGrpc(t *testing.T) (*Client, *grpc.ClientConn, *metrics.Metrics) {
	t.Helper()
	svc, m, _ := newTestService(t)

	lis := bufconn.Listen(bufSize)
	grpcServer := NewGrpcServer(svc, logger.Nop(), m)
	go func() {
		// Serve returns once the server is stopped during cleanup
		_ = grpcServer.Serve(lis)
	}()

	bufDialer := func(context.Context, string) (net.Conn, error) {
		return lis.Dial()
	}
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(bufDialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Failed to dial bufnet: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		grpcServer.Stop()
		lis.Close()
	})

	return NewClient(conn), conn, m
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestGrpcListEpisodes(t *testing.T) {
	client, _, m := setupTestGrpc(t)

	episodes, err := client.ListEpisodes(testContext(t))
	if err != nil {
		t.Fatalf("ListEpisodes failed: %v", err)
	}
	if len(episodes) != 3 {
		t.Fatalf("Expected 3 episodes, got %d", len(episodes))
	}
	if episodes[2].Title != "Quiet week" {
		t.Errorf("Expected 'Quiet week', got %q", episodes[2].Title)
	}

	got := testutil.ToFloat64(m.GrpcRequestsTotal.WithLabelValues("/journey.v1.JourneyService/ListEpisodes", "OK"))
	if got != 1 {
		t.Errorf("Expected 1 recorded request, got %v", got)
	}
}

func TestGrpcGetEpisodeChats(t *testing.T) {
	client, _, _ := setupTestGrpc(t)

	result, err := client.GetEpisodeChats(testContext(t), 0)
	if err != nil {
		t.Fatalf("GetEpisodeChats failed: %v", err)
	}
	if result.Index != 0 || result.Episode.Title != "Kickoff" {
		t.Errorf("Unexpected episode: %+v", result.Episode)
	}
	if len(result.Chats) != 3 {
		t.Fatalf("Expected 3 chats, got %d", len(result.Chats))
	}
	third := result.Chats[2]
	if third.ID != "M3" || third.DecisionID != "D2" || !third.Team {
		t.Errorf("Unexpected chat: %+v", third)
	}
	if len(third.Drivers) != 1 || third.Drivers[0].ID != "M1" {
		t.Errorf("Expected driver M1, got %+v", third.Drivers)
	}
}

func TestGrpcGetEpisodeChatsErrors(t *testing.T) {
	client, _, _ := setupTestGrpc(t)
	ctx := testContext(t)

	tests := []struct {
		name  string
		index int32
		code  codes.Code
	}{
		{"unknown index", 9, codes.NotFound},
		{"negative index", -1, codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetEpisodeChats(ctx, tt.index)
			if status.Code(err) != tt.code {
				t.Errorf("Expected %v, got %v", tt.code, err)
			}
		})
	}
}

func TestGrpcEpisodeWithUnreadableDates(t *testing.T) {
	client, _, _ := setupTestGrpc(t)

	result, err := client.GetEpisodeChats(testContext(t), 1)
	if err != nil {
		t.Fatalf("Unreadable dates must not fail the call: %v", err)
	}
	if result.Episode.Title != "Broken" {
		t.Errorf("Expected the Broken episode, got %q", result.Episode.Title)
	}
	if result.DateError == "" {
		t.Error("Expected date_error to be set")
	}
	if len(result.Chats) != 0 {
		t.Errorf("Expected no chats, got %d", len(result.Chats))
	}
}

func TestGrpcEmptyEpisode(t *testing.T) {
	client, _, _ := setupTestGrpc(t)

	result, err := client.GetEpisodeChats(testContext(t), 2)
	if err != nil {
		t.Fatalf("GetEpisodeChats failed: %v", err)
	}
	if len(result.Chats) != 0 {
		t.Errorf("Expected no chats, got %d", len(result.Chats))
	}
}

func TestGrpcGetDashboard(t *testing.T) {
	client, _, _ := setupTestGrpc(t)

	d, err := client.GetDashboard(testContext(t))
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if d.Report.Engagement["Ruby"] != 2 || d.Report.Engagement["Advik"] != 1 {
		t.Errorf("Unexpected engagement: %v", d.Report.Engagement)
	}
	if d.Report.Monthly["January"].Workout != 2 {
		t.Errorf("Expected 2 January workouts, got %d", d.Report.Monthly["January"].Workout)
	}
	if len(d.Charts.Adherence.Labels) != 8 {
		t.Errorf("Expected 8 month labels, got %d", len(d.Charts.Adherence.Labels))
	}
}

func TestGrpcGetDecision(t *testing.T) {
	client, _, _ := setupTestGrpc(t)
	ctx := testContext(t)

	trace, err := client.GetDecision(ctx, "D2")
	if err != nil {
		t.Fatalf("GetDecision failed: %v", err)
	}
	if trace.Summary != "Zone 2 block" || len(trace.Rationale) != 2 {
		t.Errorf("Unexpected trace: %+v", trace)
	}

	if _, err := client.GetDecision(ctx, "D404"); status.Code(err) != codes.NotFound {
		t.Errorf("Expected NotFound, got %v", err)
	}
	if _, err := client.GetDecision(ctx, ""); status.Code(err) != codes.InvalidArgument {
		t.Errorf("Expected InvalidArgument, got %v", err)
	}
}

func TestGrpcHealth(t *testing.T) {
	_, conn, _ := setupTestGrpc(t)

	resp, err := healthpb.NewHealthClient(conn).Check(testContext(t), &healthpb.HealthCheckRequest{
		Service: JourneyServiceName,
	})
	if err != nil {
		t.Fatalf("Health check failed: %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("Expected SERVING, got %v", resp.Status)
	}
}

func TestGrpcReflectionDescribesService(t *testing.T) {
	_, conn, _ := setupTestGrpc(t)

	stream, err := reflectionpb.NewServerReflectionClient(conn).ServerReflectionInfo(testContext(t))
	if err != nil {
		t.Fatalf("Failed to open reflection stream: %v", err)
	}
	defer stream.CloseSend()

	err = stream.Send(&reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_FileContainingSymbol{
			FileContainingSymbol: JourneyServiceName,
		},
	})
	if err != nil {
		t.Fatalf("Failed to send reflection request: %v", err)
	}
	resp, err := stream.Recv()
	if err != nil {
		t.Fatalf("Failed to receive reflection response: %v", err)
	}
	if errResp := resp.GetErrorResponse(); errResp != nil {
		t.Fatalf("Reflection lookup failed: %s", errResp.GetErrorMessage())
	}

	var found *descriptorpb.FileDescriptorProto
	for _, raw := range resp.GetFileDescriptorResponse().GetFileDescriptorProto() {
		fdp := &descriptorpb.FileDescriptorProto{}
		if err := proto.Unmarshal(raw, fdp); err != nil {
			t.Fatalf("Failed to decode file descriptor: %v", err)
		}
		if fdp.GetName() == journeyProtoFile {
			found = fdp
		}
	}
	if found == nil {
		t.Fatalf("Expected %s in reflection response", journeyProtoFile)
	}
	if len(found.GetService()) != 1 || found.GetService()[0].GetName() != "JourneyService" {
		t.Fatalf("Expected JourneyService in descriptor, got %v", found.GetService())
	}
	if got := len(found.GetService()[0].GetMethod()); got != 4 {
		t.Errorf("Expected 4 methods, got %d", got)
	}
}

func TestJourneyDescriptorMatchesServiceDesc(t *testing.T) {
	d, err := protoregistry.GlobalFiles.FindDescriptorByName(protoreflect.FullName(JourneyServiceName))
	if err != nil {
		t.Fatalf("Service not registered: %v", err)
	}
	sd, ok := d.(protoreflect.ServiceDescriptor)
	if !ok {
		t.Fatalf("Expected service descriptor, got %T", d)
	}
	if sd.ParentFile().Path() != journeyServiceDesc.Metadata {
		t.Errorf("Expected file %v, got %s", journeyServiceDesc.Metadata, sd.ParentFile().Path())
	}
	if sd.Methods().Len() != len(journeyServiceDesc.Methods) {
		t.Fatalf("Expected %d methods, got %d", len(journeyServiceDesc.Methods), sd.Methods().Len())
	}
	for _, m := range journeyServiceDesc.Methods {
		if sd.Methods().ByName(protoreflect.Name(m.MethodName)) == nil {
			t.Errorf("Method %s missing from descriptor", m.MethodName)
		}
	}
}
