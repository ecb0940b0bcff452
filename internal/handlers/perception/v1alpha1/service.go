package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "perception.v1alpha1.PerceptionService"

// PerceptionServiceServer is the server API of the perception service. Requests
// and responses are JSON documents carried as google.protobuf.Struct.
type PerceptionServiceServer interface {
	LoadScene(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UnloadScene(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	ApplyWallChange(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SetDoorState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpsertSource(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	RemoveSource(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	UpsertPlaceable(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	Tick(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	TestVisibility(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CanHear(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ComputePolygon(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	TestCollision(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ResetFog(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	SaveFog(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	GetFogImage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the perception service for grpc.Server registration
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PerceptionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("LoadScene", PerceptionServiceServer.LoadScene),
		unary("UnloadScene", PerceptionServiceServer.UnloadScene),
		unary("ApplyWallChange", PerceptionServiceServer.ApplyWallChange),
		unary("SetDoorState", PerceptionServiceServer.SetDoorState),
		unary("UpsertSource", PerceptionServiceServer.UpsertSource),
		unary("RemoveSource", PerceptionServiceServer.RemoveSource),
		unary("UpsertPlaceable", PerceptionServiceServer.UpsertPlaceable),
		unary("Tick", PerceptionServiceServer.Tick),
		unary("TestVisibility", PerceptionServiceServer.TestVisibility),
		unary("CanHear", PerceptionServiceServer.CanHear),
		unary("ComputePolygon", PerceptionServiceServer.ComputePolygon),
		unary("TestCollision", PerceptionServiceServer.TestCollision),
		unary("ResetFog", PerceptionServiceServer.ResetFog),
		unary("SaveFog", PerceptionServiceServer.SaveFog),
		unary("GetFogImage", PerceptionServiceServer.GetFogImage),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "perception/v1alpha1/perception.proto",
}

// RegisterPerceptionServiceServer registers the service implementation
func RegisterPerceptionServiceServer(s grpc.ServiceRegistrar, srv PerceptionServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns the full gRPC method path of a perception RPC
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[R proto.Message](
	method string,
	call func(PerceptionServiceServer, context.Context, *structpb.Struct) (R, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PerceptionServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PerceptionServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// PerceptionServiceClient calls the perception service
type PerceptionServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPerceptionServiceClient creates a client over an established connection
func NewPerceptionServiceClient(cc grpc.ClientConnInterface) *PerceptionServiceClient {
	return &PerceptionServiceClient{cc: cc}
}

// Call invokes a perception RPC that answers with a document
func (c *PerceptionServiceClient) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Exec invokes a perception RPC that answers with no content
func (c *PerceptionServiceClient) Exec(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, FullMethod(method), req, new(emptypb.Empty), opts...)
}
