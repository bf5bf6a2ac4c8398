package monitor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "ventpanel.v1.PanelMonitor"
	// GetFrameMethod is the full method name of GetFrame.
	GetFrameMethod = "/" + ServiceName + "/GetFrame"
)

// FrameServer is the server API of the panel monitor service.
type FrameServer interface {
	GetFrame(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes the panel monitor service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FrameServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetFrame",
			Handler:    getFrameHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ventpanel/v1/monitor.proto",
}

func getFrameHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(FrameServer).GetFrame(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetFrameMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FrameServer).GetFrame(ctx, req.(*emptypb.Empty)) //nolint:forcetypeassert // Same as above.
	}

	return interceptor(ctx, in, info, handler)
}
