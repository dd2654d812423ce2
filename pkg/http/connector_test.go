package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type echoBody struct {
	Value string `json:"value"`
}

func TestDoRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"value":"pong"}`))
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL})

	var out echoBody
	err := c.DoRequest(context.Background(), http.MethodPost, "/ping", &echoBody{Value: "ping"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "pong", out.Value)
}

func TestDoRequest_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL})

	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Len(t, httpErr.Body, 2000)
	assert.Less(t, len(httpErr.Error()), 600)
}

func TestDoRequest_NetworkError(t *testing.T) {
	failing := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	c := NewConnector(&ConnectorConfig{BaseURL: "http://unreachable"}, WithBaseTransport(failing))

	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestDoRequest_ResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL, MaxResponseBytes: 10})

	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	assert.ErrorContains(t, err, "exceeds 10 bytes")
}

func TestAPIKeyTransport(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
	}))
	defer srv.Close()

	key := ""
	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL},
		WithAPIKey("x-api-key", func() string { return key }),
	)

	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	var netErr *NetworkError
	assert.False(t, errors.As(err, &netErr), "a missing key is not a network failure")

	key = "rotated"
	require.NoError(t, c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil))
	assert.Equal(t, "rotated", gotKey)
}

func TestRequestLogging_RedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL},
		WithRequestLogging("x-api-key"),
		WithAPIKey("x-api-key", func() string { return "top-secret" }),
	)

	require.NoError(t, c.DoRequest(ctx, http.MethodPost, "/", &echoBody{Value: "v"}, nil))

	entries := logs.FilterMessage("HTTP outbound request").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, int64(len(`{"value":"v"}`)), fields["payload_bytes"])
	headers, ok := fields["headers"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "[REDACTED]", headers["X-Api-Key"])
	for _, v := range headers {
		assert.NotContains(t, v, "top-secret")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
