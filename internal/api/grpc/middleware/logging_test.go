package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/speechpractice-server/internal/metrics"
	internaltestutil "github.com/dtroode/speechpractice-server/internal/testutil"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		handler  grpc.UnaryHandler
		wantCode codes.Code
	}{
		{
			name: "success path",
			handler: func(ctx context.Context, req any) (any, error) {
				return "ok", nil
			},
			wantCode: codes.OK,
		},
		{
			name: "grpc error propagates",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, status.Error(codes.InvalidArgument, "bad input")
			},
			wantCode: codes.InvalidArgument,
		},
		{
			name: "non-grpc error is counted as Internal",
			handler: func(ctx context.Context, req any) (any, error) {
				return nil, errors.New("boom")
			},
			wantCode: codes.Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := metrics.New()
			lg := NewLogging(internaltestutil.MakeNoopLogger(), m)

			info := &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}
			resp, err := lg.HandleGRPC(context.Background(), struct{}{}, info, tt.handler)

			if tt.wantCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "ok", resp)
			} else {
				assert.Error(t, err)
				assert.Nil(t, resp)
			}

			expected := `
# HELP speechpractice_grpc_requests_total gRPC calls by method and status code.
# TYPE speechpractice_grpc_requests_total counter
speechpractice_grpc_requests_total{code="` + tt.wantCode.String() + `",method="/svc/Method"} 1
`
			require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "speechpractice_grpc_requests_total"))
		})
	}
}

func TestLogging_HandleStream(t *testing.T) {
	t.Parallel()

	lg := NewLogging(internaltestutil.MakeNoopLogger(), nil)
	info := &grpc.StreamServerInfo{FullMethod: "/svc/Watch", IsServerStream: true}

	err := lg.HandleStream(nil, nil, info, func(srv any, ss grpc.ServerStream) error {
		return status.Error(codes.Canceled, "client went away")
	})
	assert.Equal(t, codes.Canceled, status.Code(err))

	err = lg.HandleStream(nil, nil, info, func(srv any, ss grpc.ServerStream) error {
		return nil
	})
	assert.NoError(t, err)
}
