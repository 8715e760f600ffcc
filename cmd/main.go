package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/speechpractice-server/internal/api/grpc/context"
	"github.com/dtroode/speechpractice-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/speechpractice-server/internal/api/grpc/server"
	"github.com/dtroode/speechpractice-server/internal/api/ops"
	"github.com/dtroode/speechpractice-server/internal/config"
	"github.com/dtroode/speechpractice-server/internal/logger"
	"github.com/dtroode/speechpractice-server/internal/metrics"
	"github.com/dtroode/speechpractice-server/internal/model"
	"github.com/dtroode/speechpractice-server/internal/ratelimit"
	"github.com/dtroode/speechpractice-server/internal/repository/firestore"
	"github.com/dtroode/speechpractice-server/internal/repository/memory"
	"github.com/dtroode/speechpractice-server/internal/repository/postgres"
	"github.com/dtroode/speechpractice-server/internal/server"
	"github.com/dtroode/speechpractice-server/internal/service"
	storage "github.com/dtroode/speechpractice-server/internal/storage/minio"
	"github.com/dtroode/speechpractice-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// stores is the backend selected by STORE_BACKEND.
type stores struct {
	users         model.UserStore
	conversations model.ConversationStore
	assignments   model.AssignmentStore
	checks        map[string]ops.HealthCheck
	close         func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	m := metrics.New()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err, "backend", cfg.Backend)
	}
	defer st.close()

	var limiter service.SendLimiter
	if cfg.Rate.RPS > 0 {
		limiter = ratelimit.NewPool(cfg.Rate.RPS, cfg.Rate.Burst)
	}

	services := router.Services{
		Profile:    service.NewProfile(st.users, logger),
		Chat:       service.NewChat(st.conversations, st.users, limiter, m, logger),
		Assignment: service.NewAssignment(st.assignments, st.users, m, logger),
	}

	var media *service.Media
	if cfg.Storage.Enabled {
		objects, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		st.checks["storage"] = objects.Ping
		media = service.NewMedia(objects, st.users, cfg.HTTP.PublicBaseURL, logger)
		services.Media = media
	}

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	grpcSrv := registerGRPCServer(services, tokenManager, m, logger, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var mediaOpener ops.MediaOpener
	if media != nil {
		mediaOpener = media
	}
	opsRouter := ops.NewRouter(st.checks, m.Registry(), mediaOpener, logger)
	httpSrv := ops.NewHTTPServer(opsRouter.Handler(), cfg.HTTP.Addr)

	var wg sync.WaitGroup
	start := func(s model.Server, sl model.SecurityLayer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}()
	}
	start(grpcSrv, server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName))
	start(httpSrv, server.NewSecurityLayer(false, "", ""))

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range []model.Server{grpcSrv, httpSrv} {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*stores, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		notifier := postgres.NewNotifier(db.Pool, logger, postgres.ChannelMessages, postgres.ChannelAssignments)
		go func() {
			if err := notifier.Run(ctx); err != nil {
				logger.Error("postgres notifier stopped", "error", err)
			}
		}()
		return &stores{
			users:         postgres.NewUserRepository(db),
			conversations: postgres.NewConversationRepository(db, notifier),
			assignments:   postgres.NewAssignmentRepository(db, notifier),
			checks:        map[string]ops.HealthCheck{"postgres": db.Ping},
			close:         func() { _ = db.Close() },
		}, nil

	case config.BackendFirestore:
		fs, err := firestore.NewStore(ctx, cfg.Firestore.ProjectID, cfg.Firestore.DatabaseID)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:         firestore.NewUserRepository(fs),
			conversations: firestore.NewConversationRepository(fs),
			assignments:   firestore.NewAssignmentRepository(fs),
			checks:        map[string]ops.HealthCheck{},
			close:         func() { _ = fs.Close() },
		}, nil

	default:
		logger.Warn("using in-memory store, data is lost on restart")
		return &stores{
			users:         memory.NewUserRepository(),
			conversations: memory.NewConversationRepository(),
			assignments:   memory.NewAssignmentRepository(),
			checks:        map[string]ops.HealthCheck{},
			close:         func() {},
		}, nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerGRPCServer(
	services router.Services,
	tokens model.TokenManager,
	m *metrics.Metrics,
	logger *logger.Logger,
	addr string,
) *grpcServer.GRPCServer {
	r := router.New(services, tokens, grpcctx.NewManager(), m, logger)
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, r.Health(), addr)
}
