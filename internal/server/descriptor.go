// Protobuf descriptor for journey/v1/journey.proto so reflection clients can describe the service
package server

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const journeyProtoFile = "journey/v1/journey.proto"

func init() {
	fd, err := protodesc.NewFile(journeyFileDescriptor(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("build %s: %v", journeyProtoFile, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("register %s: %v", journeyProtoFile, err))
	}
}

// journeyFileDescriptor describes JourneyService in terms of the well-known
// types its handlers exchange. Method names must match journeyServiceDesc.
func journeyFileDescriptor() *descriptorpb.FileDescriptorProto {
	typeName := func(m proto.Message) *string {
		return proto.String("." + string(m.ProtoReflect().Descriptor().FullName()))
	}
	method := func(name string, in, out proto.Message) *descriptorpb.MethodDescriptorProto {
		return &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  typeName(in),
			OutputType: typeName(out),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(journeyProtoFile),
		Package: proto.String("journey.v1"),
		Dependency: []string{
			emptypb.File_google_protobuf_empty_proto.Path(),
			structpb.File_google_protobuf_struct_proto.Path(),
			wrapperspb.File_google_protobuf_wrappers_proto.Path(),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("JourneyService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("ListEpisodes", &emptypb.Empty{}, &structpb.ListValue{}),
				method("GetEpisodeChats", &wrapperspb.Int32Value{}, &structpb.Struct{}),
				method("GetDashboard", &emptypb.Empty{}, &structpb.Struct{}),
				method("GetDecision", &wrapperspb.StringValue{}, &structpb.Struct{}),
			},
		}},
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/nainya/journeylens/internal/server"),
		},
		Syntax: proto.String("proto3"),
	}
}
