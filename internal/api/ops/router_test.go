package ops

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/speechpractice-server/internal/metrics"
	"github.com/dtroode/speechpractice-server/internal/model"
	"github.com/dtroode/speechpractice-server/internal/testutil"
)

type stubMedia struct {
	objects map[string]string
	err     error
}

func (m *stubMedia) Open(_ context.Context, key string) (io.ReadCloser, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	body, ok := m.objects[key]
	if !ok {
		return nil, "", model.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(body)), "video/mp4", nil
}

func TestRouter_Healthz(t *testing.T) {
	tests := []struct {
		name     string
		checks   map[string]HealthCheck
		wantCode int
		wantBody string
	}{
		{
			name:     "no checks",
			wantCode: http.StatusOK,
			wantBody: `"status":"ok"`,
		},
		{
			name: "all healthy",
			checks: map[string]HealthCheck{
				"postgres": func(context.Context) error { return nil },
			},
			wantCode: http.StatusOK,
			wantBody: `"postgres":"ok"`,
		},
		{
			name: "one failing",
			checks: map[string]HealthCheck{
				"postgres": func(context.Context) error { return nil },
				"storage":  func(context.Context) error { return errors.New("bucket gone") },
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `"storage":"bucket gone"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRouter(tt.checks, nil, nil, testutil.MakeNoopLogger())
			rec := httptest.NewRecorder()

			rt.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	m := metrics.New()
	m.MessageSent()

	rt := NewRouter(nil, m.Registry(), nil, testutil.MakeNoopLogger())
	rec := httptest.NewRecorder()
	rt.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "speechpractice_")
}

func TestRouter_MetricsDisabled(t *testing.T) {
	rt := NewRouter(nil, nil, nil, testutil.MakeNoopLogger())
	rec := httptest.NewRecorder()
	rt.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Media(t *testing.T) {
	media := &stubMedia{objects: map[string]string{"videos/t1/clip.mp4": "frames"}}

	tests := []struct {
		name     string
		media    *stubMedia
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{name: "nested key", media: media, method: http.MethodGet, path: "/media/videos/t1/clip.mp4", wantCode: http.StatusOK, wantBody: "frames"},
		{name: "head has no body", media: media, method: http.MethodHead, path: "/media/videos/t1/clip.mp4", wantCode: http.StatusOK},
		{name: "missing", media: media, method: http.MethodGet, path: "/media/videos/none.mp4", wantCode: http.StatusNotFound, wantBody: "404 page not found"},
		{name: "store error", media: &stubMedia{err: model.ErrStoreUnavailable}, method: http.MethodGet, path: "/media/a.mp4", wantCode: http.StatusBadGateway, wantBody: "media unavailable"},
		{name: "wrong method", media: media, method: http.MethodPost, path: "/media/videos/t1/clip.mp4", wantCode: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRouter(nil, nil, tt.media, testutil.MakeNoopLogger())
			rec := httptest.NewRecorder()

			rt.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "video/mp4", rec.Header().Get("Content-Type"))
			}
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			} else if tt.method == http.MethodHead {
				assert.Empty(t, rec.Body.String())
			}
		})
	}
}
