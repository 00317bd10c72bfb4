package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "jobverse.v1.JobSearch"

const (
	searchMethod = "/" + ServiceName + "/Search"
	getJobMethod = "/" + ServiceName + "/GetJob"
)

// JobSearchServer is the server API. Requests and responses are
// google.protobuf.Struct values carrying the same JSON shapes as the REST
// API, so clients need no generated stubs beyond the well-known types.
type JobSearchServer interface {
	Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// JobSearchServiceDesc describes the service for grpc.Server.RegisterService.
var JobSearchServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JobSearchServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Search", Handler: unaryHandler(searchMethod, JobSearchServer.Search)},
		{MethodName: "GetJob", Handler: unaryHandler(getJobMethod, JobSearchServer.GetJob)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobverse/v1/job_search.proto",
}

type unaryMethod func(JobSearchServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(JobSearchServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(JobSearchServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client calls a remote JobSearch service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Search(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, searchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetJob(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getJobMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
