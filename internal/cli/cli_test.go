package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/speechpractice-server/internal/model"
	"github.com/dtroode/speechpractice-server/internal/token"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand("test", "testdata/missing.env")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestChatIDCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "ordered", args: []string{"chat-id", "alice", "bob"}, want: "alice_bob"},
		{name: "reversed", args: []string{"chat-id", "bob", "alice"}, want: "alice_bob"},
		{name: "one arg", args: []string{"chat-id", "alice"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "cli-test")

	out, err := run(t, "token", "--user", "t1", "--email", "t@clinic.test", "--role", "therapist")
	require.NoError(t, err)

	session, err := token.NewJWT("cli-secret", "cli-test", 0).ParseAccessToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, model.Session{UserID: "t1", Email: "t@clinic.test", Role: model.RoleTherapist}, session)
}

func TestTokenCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing user", args: []string{"token", "--role", "client"}},
		{name: "unknown role", args: []string{"token", "--user", "u1", "--role", "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestRootCommand_Version(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
}
