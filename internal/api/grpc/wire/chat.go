package wire

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ChatConversationMethod = "/speech.v1.Chat/Conversation"
	ChatContactsMethod     = "/speech.v1.Chat/Contacts"
	ChatSendMethod         = "/speech.v1.Chat/Send"
	ChatWatchMethod        = "/speech.v1.Chat/Watch"
)

// ChatServer is the conversation API. Watch streams the full message list on
// every change until the client cancels.
type ChatServer interface {
	Conversation(context.Context, *ConversationRequest) (*Conversation, error)
	Contacts(context.Context, *Empty) (*Users, error)
	Send(context.Context, *SendRequest) (*Message, error)
	Watch(*WatchMessagesRequest, grpc.ServerStreamingServer[MessagesSnapshot]) error
}

func chatWatchHandler(srv any, stream grpc.ServerStream) error {
	in := new(WatchMessagesRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ChatServer).Watch(in, &grpc.GenericServerStream[WatchMessagesRequest, MessagesSnapshot]{ServerStream: stream})
}

var ChatServiceDesc = grpc.ServiceDesc{
	ServiceName: "speech.v1.Chat",
	HandlerType: (*ChatServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Conversation", Handler: unaryHandler(ChatConversationMethod, ChatServer.Conversation)},
		{MethodName: "Contacts", Handler: unaryHandler(ChatContactsMethod, ChatServer.Contacts)},
		{MethodName: "Send", Handler: unaryHandler(ChatSendMethod, ChatServer.Send)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: chatWatchHandler, ServerStreams: true},
	},
	Metadata: "speech/v1/chat",
}

func RegisterChatServer(s grpc.ServiceRegistrar, srv ChatServer) {
	s.RegisterService(&ChatServiceDesc, srv)
}

type ChatClient interface {
	Conversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*Conversation, error)
	Contacts(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Users, error)
	Send(ctx context.Context, in *SendRequest, opts ...grpc.CallOption) (*Message, error)
	Watch(ctx context.Context, in *WatchMessagesRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MessagesSnapshot], error)
}

type chatClient struct {
	cc grpc.ClientConnInterface
}

func NewChatClient(cc grpc.ClientConnInterface) ChatClient {
	return &chatClient{cc: cc}
}

func (c *chatClient) Conversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*Conversation, error) {
	return invoke[Conversation](ctx, c.cc, ChatConversationMethod, in, opts)
}

func (c *chatClient) Contacts(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Users, error) {
	return invoke[Users](ctx, c.cc, ChatContactsMethod, in, opts)
}

func (c *chatClient) Send(ctx context.Context, in *SendRequest, opts ...grpc.CallOption) (*Message, error) {
	return invoke[Message](ctx, c.cc, ChatSendMethod, in, opts)
}

func (c *chatClient) Watch(ctx context.Context, in *WatchMessagesRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MessagesSnapshot], error) {
	return serverStream[WatchMessagesRequest, MessagesSnapshot](ctx, c.cc, &ChatServiceDesc.Streams[0], ChatWatchMethod, in, opts)
}
