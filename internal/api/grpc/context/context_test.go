package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/speechpractice-server/internal/model"
)

func TestManager_SessionRoundTrip(t *testing.T) {
	m := NewManager()
	session := model.Session{UserID: "u1", Email: "u1@example.com", Role: model.RoleTherapist}

	ctx := m.SetSessionToContext(context.Background(), session)

	got, ok := m.GetSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, session, got)
}

func TestManager_NoSession(t *testing.T) {
	m := NewManager()

	got, ok := m.GetSessionFromContext(context.Background())
	assert.False(t, ok)
	assert.Equal(t, model.Session{}, got)
}

func TestManager_Overwrite(t *testing.T) {
	m := NewManager()
	ctx := m.SetSessionToContext(context.Background(), model.Session{UserID: "first", Role: model.RoleClient})
	ctx = m.SetSessionToContext(ctx, model.Session{UserID: "second", Role: model.RoleClient})

	got, ok := m.GetSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "second", got.UserID)
}
