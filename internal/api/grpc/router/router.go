package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	// registers the JSON codec used by the speech.v1 services
	_ "github.com/dtroode/speechpractice-server/internal/api/grpc/codec"
	"github.com/dtroode/speechpractice-server/internal/api/grpc/handler"
	"github.com/dtroode/speechpractice-server/internal/api/grpc/middleware"
	"github.com/dtroode/speechpractice-server/internal/api/grpc/wire"
	"github.com/dtroode/speechpractice-server/internal/logger"
	"github.com/dtroode/speechpractice-server/internal/metrics"
	"github.com/dtroode/speechpractice-server/internal/model"
)

// Services groups the business services exposed over gRPC. Media may be nil
// when object storage is disabled.
type Services struct {
	Profile    handler.ProfileService
	Chat       handler.ChatService
	Assignment handler.AssignmentService
	Media      handler.MediaService
}

// Router represents a gRPC router for the speech practice API.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	services       Services
	tokens         model.TokenManager
	contextManager model.ContextManager
	metrics        *metrics.Metrics
	logger         *logger.Logger
	health         *health.Server
}

// New creates new gRPC Router instance.
func New(
	services Services,
	tokens model.TokenManager,
	contextManager model.ContextManager,
	m *metrics.Metrics,
	logger *logger.Logger,
) *Router {
	return &Router{
		services:       services,
		tokens:         tokens,
		contextManager: contextManager,
		metrics:        m,
		logger:         logger,
		health:         health.NewServer(),
	}
}

// requiresAuth exempts the standard health service from authentication.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/grpc.health.v1.Health/")
}

// Register registers all gRPC services and middleware.
// Interceptors run in order: panic recovery, request logging, authentication.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger, r.metrics)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)
	recoveryOpt := middleware.RecoveryHandler(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recoveryOpt),
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoveryOpt),
			logging.HandleStream,
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)

	r.registerProfileRoutes(s)
	r.registerChatRoutes(s)
	r.registerAssignmentRoutes(s)
	r.registerHealth(s)

	return s
}

// Health returns the health server so the caller can flip serving status,
// for example to NOT_SERVING during shutdown.
func (r *Router) Health() *health.Server {
	return r.health
}

func (r *Router) registerProfileRoutes(server *grpc.Server) {
	wire.RegisterProfileServer(server, handler.NewProfile(r.services.Profile, r.contextManager, r.logger))
}

func (r *Router) registerChatRoutes(server *grpc.Server) {
	wire.RegisterChatServer(server, handler.NewChat(r.services.Chat, r.contextManager, r.logger))
}

func (r *Router) registerAssignmentRoutes(server *grpc.Server) {
	h := handler.NewAssignment(r.services.Assignment, r.services.Media, r.contextManager, r.logger)
	wire.RegisterAssignmentsServer(server, h)
}

func (r *Router) registerHealth(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, r.health)
	for _, name := range []string{
		wire.ProfileServiceDesc.ServiceName,
		wire.ChatServiceDesc.ServiceName,
		wire.AssignmentsServiceDesc.ServiceName,
	} {
		r.health.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
}
