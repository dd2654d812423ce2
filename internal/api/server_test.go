package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	workflowapi "github.com/futig/wrapgen/internal/api/workflow"
	"github.com/futig/wrapgen/internal/config"
	"github.com/futig/wrapgen/internal/integration/llm"
	"github.com/futig/wrapgen/internal/pkg/formatter"
	"github.com/futig/wrapgen/internal/pkg/validator"
	"github.com/futig/wrapgen/internal/repository"
	"github.com/futig/wrapgen/internal/usecase/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	uc := workflow.NewUsecase(
		llm.NewMockConnector(),
		repository.NewArchiveCache(config.ArchiveCacheConfig{TTL: time.Minute, CleanupInterval: time.Minute}),
		validator.NewValidator(config.InputConfig{MaxURLLength: 2048}),
		formatter.NewFactory(),
		workflow.Models{Project: "p", Image: "i"},
	)

	cors := config.CORSConfig{AllowedOrigins: []string{"https://page.example"}, MaxAge: time.Hour}
	return SetupRouter(workflowapi.NewHandler(uc), cors, zap.NewNop())
}

func TestSetupRouter(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{path: "/health", contentType: "application/json", contains: "healthy"},
		{path: "/", contentType: "text/html; charset=utf-8", contains: "/workflow/runs"},
		{path: "/docs/swagger.yaml", contentType: "application/yaml", contains: "/workflow/archive"},
		{path: "/workflow", contentType: "application/json", contains: `"status":"IDLE"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestSetupRouter_Metrics(t *testing.T) {
	r := newRouter(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/workflow", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "wrapgen_http_requests_total"))
}

func TestSetupRouter_CORS(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/workflow/runs", nil)
	req.Header.Set("Origin", "https://page.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "https://page.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
