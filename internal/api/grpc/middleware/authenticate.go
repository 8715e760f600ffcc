package middleware

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/speechpractice-server/internal/logger"
	"github.com/dtroode/speechpractice-server/internal/model"
)

// Authenticate validates bearer tokens and injects the caller's Session into context.
type Authenticate struct {
	tokens         model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the "authorization: bearer <token>" header, parses the token
// and returns a context carrying the Session.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	tokenString, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, err
	}

	session, err := m.tokens.ParseAccessToken(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate: token rejected", "error", err)
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}
	if err := session.Validate(); err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}

	return m.contextManager.SetSessionToContext(ctx, session), nil
}
