package wire

import (
	"context"

	"google.golang.org/grpc"
)

const (
	AssignmentsClientsMethod     = "/speech.v1.Assignments/Clients"
	AssignmentsAssignMethod      = "/speech.v1.Assignments/Assign"
	AssignmentsUnassignMethod    = "/speech.v1.Assignments/Unassign"
	AssignmentsGetMethod         = "/speech.v1.Assignments/Get"
	AssignmentsCheckMethod       = "/speech.v1.Assignments/Check"
	AssignmentsWatchMethod       = "/speech.v1.Assignments/Watch"
	AssignmentsUploadVideoMethod = "/speech.v1.Assignments/UploadVideo"
)

// AssignmentsServer is the exercise assignment API.
type AssignmentsServer interface {
	Clients(context.Context, *Empty) (*Users, error)
	Assign(context.Context, *AssignRequest) (*Assignment, error)
	Unassign(context.Context, *AssignmentRef) (*Empty, error)
	Get(context.Context, *AssignmentRef) (*Assignment, error)
	Check(context.Context, *CheckRequest) (*PracticeResult, error)
	Watch(*WatchAssignmentsRequest, grpc.ServerStreamingServer[AssignmentsSnapshot]) error
	UploadVideo(grpc.ClientStreamingServer[VideoChunk, MediaObject]) error
}

func assignmentsWatchHandler(srv any, stream grpc.ServerStream) error {
	in := new(WatchAssignmentsRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(AssignmentsServer).Watch(in, &grpc.GenericServerStream[WatchAssignmentsRequest, AssignmentsSnapshot]{ServerStream: stream})
}

func assignmentsUploadVideoHandler(srv any, stream grpc.ServerStream) error {
	return srv.(AssignmentsServer).UploadVideo(&grpc.GenericServerStream[VideoChunk, MediaObject]{ServerStream: stream})
}

var AssignmentsServiceDesc = grpc.ServiceDesc{
	ServiceName: "speech.v1.Assignments",
	HandlerType: (*AssignmentsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Clients", Handler: unaryHandler(AssignmentsClientsMethod, AssignmentsServer.Clients)},
		{MethodName: "Assign", Handler: unaryHandler(AssignmentsAssignMethod, AssignmentsServer.Assign)},
		{MethodName: "Unassign", Handler: unaryHandler(AssignmentsUnassignMethod, AssignmentsServer.Unassign)},
		{MethodName: "Get", Handler: unaryHandler(AssignmentsGetMethod, AssignmentsServer.Get)},
		{MethodName: "Check", Handler: unaryHandler(AssignmentsCheckMethod, AssignmentsServer.Check)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: assignmentsWatchHandler, ServerStreams: true},
		{StreamName: "UploadVideo", Handler: assignmentsUploadVideoHandler, ClientStreams: true},
	},
	Metadata: "speech/v1/assignments",
}

func RegisterAssignmentsServer(s grpc.ServiceRegistrar, srv AssignmentsServer) {
	s.RegisterService(&AssignmentsServiceDesc, srv)
}

type AssignmentsClient interface {
	Clients(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Users, error)
	Assign(ctx context.Context, in *AssignRequest, opts ...grpc.CallOption) (*Assignment, error)
	Unassign(ctx context.Context, in *AssignmentRef, opts ...grpc.CallOption) (*Empty, error)
	Get(ctx context.Context, in *AssignmentRef, opts ...grpc.CallOption) (*Assignment, error)
	Check(ctx context.Context, in *CheckRequest, opts ...grpc.CallOption) (*PracticeResult, error)
	Watch(ctx context.Context, in *WatchAssignmentsRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[AssignmentsSnapshot], error)
	UploadVideo(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[VideoChunk, MediaObject], error)
}

type assignmentsClient struct {
	cc grpc.ClientConnInterface
}

func NewAssignmentsClient(cc grpc.ClientConnInterface) AssignmentsClient {
	return &assignmentsClient{cc: cc}
}

func (c *assignmentsClient) Clients(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Users, error) {
	return invoke[Users](ctx, c.cc, AssignmentsClientsMethod, in, opts)
}

func (c *assignmentsClient) Assign(ctx context.Context, in *AssignRequest, opts ...grpc.CallOption) (*Assignment, error) {
	return invoke[Assignment](ctx, c.cc, AssignmentsAssignMethod, in, opts)
}

func (c *assignmentsClient) Unassign(ctx context.Context, in *AssignmentRef, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AssignmentsUnassignMethod, in, opts)
}

func (c *assignmentsClient) Get(ctx context.Context, in *AssignmentRef, opts ...grpc.CallOption) (*Assignment, error) {
	return invoke[Assignment](ctx, c.cc, AssignmentsGetMethod, in, opts)
}

func (c *assignmentsClient) Check(ctx context.Context, in *CheckRequest, opts ...grpc.CallOption) (*PracticeResult, error) {
	return invoke[PracticeResult](ctx, c.cc, AssignmentsCheckMethod, in, opts)
}

func (c *assignmentsClient) Watch(ctx context.Context, in *WatchAssignmentsRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[AssignmentsSnapshot], error) {
	return serverStream[WatchAssignmentsRequest, AssignmentsSnapshot](ctx, c.cc, &AssignmentsServiceDesc.Streams[0], AssignmentsWatchMethod, in, opts)
}

func (c *assignmentsClient) UploadVideo(ctx context.Context, opts ...grpc.CallOption) (grpc.ClientStreamingClient[VideoChunk, MediaObject], error) {
	stream, err := c.cc.NewStream(ctx, &AssignmentsServiceDesc.Streams[1], AssignmentsUploadVideoMethod, jsonCall(opts)...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[VideoChunk, MediaObject]{ClientStream: stream}, nil
}
