package wire

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ProfileRegisterMethod = "/speech.v1.Profile/Register"
	ProfileMeMethod       = "/speech.v1.Profile/Me"
)

// ProfileServer creates and reads the caller's user record.
type ProfileServer interface {
	Register(context.Context, *Empty) (*User, error)
	Me(context.Context, *Empty) (*User, error)
}

var ProfileServiceDesc = grpc.ServiceDesc{
	ServiceName: "speech.v1.Profile",
	HandlerType: (*ProfileServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(ProfileRegisterMethod, ProfileServer.Register)},
		{MethodName: "Me", Handler: unaryHandler(ProfileMeMethod, ProfileServer.Me)},
	},
	Metadata: "speech/v1/profile",
}

func RegisterProfileServer(s grpc.ServiceRegistrar, srv ProfileServer) {
	s.RegisterService(&ProfileServiceDesc, srv)
}

type ProfileClient interface {
	Register(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*User, error)
	Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*User, error)
}

type profileClient struct {
	cc grpc.ClientConnInterface
}

func NewProfileClient(cc grpc.ClientConnInterface) ProfileClient {
	return &profileClient{cc: cc}
}

func (c *profileClient) Register(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, ProfileRegisterMethod, in, opts)
}

func (c *profileClient) Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, ProfileMeMethod, in, opts)
}
