package context

import (
	"context"

	"github.com/dtroode/speechpractice-server/internal/model"
)

type sessionKey struct{}

// Manager represents a gRPC context manager for caller sessions.
// The authentication interceptor stores the Session resolved from the bearer
// token; handlers read it back and pass it to services explicitly.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetSessionToContext returns a copy of ctx carrying session.
func (m *Manager) SetSessionToContext(ctx context.Context, session model.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session stored in ctx and whether it
// was present.
func (m *Manager) GetSessionFromContext(ctx context.Context) (model.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(model.Session)
	return session, ok
}
