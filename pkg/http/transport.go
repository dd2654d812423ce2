package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrMissingAPIKey is returned by the key transport when the resolver yields nothing
var ErrMissingAPIKey = errors.New("api key is not set")

type payloadSizeContextKey struct{}

type apiKeyTransport struct {
	header    string
	resolve   func() string
	transport http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	key := strings.TrimSpace(t.resolve())
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set(t.header, key)

	return t.transport.RoundTrip(reqCopy)
}

// WithAPIKey sets header on every request to the value returned by resolve.
// The key is resolved per request so a rotated credential is picked up without restart.
func WithAPIKey(header string, resolve func() string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &apiKeyTransport{
			header:    header,
			resolve:   resolve,
			transport: rt,
		}
	})
}

type logTransport struct {
	redact    map[string]struct{}
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	headers := make(map[string]string, len(req.Header))
	for name := range req.Header {
		if _, ok := t.redact[strings.ToLower(name)]; ok {
			headers[name] = "[REDACTED]"
			continue
		}
		headers[name] = req.Header.Get(name)
	}

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Any("headers", headers),
	}
	if size, ok := ctx.Value(payloadSizeContextKey{}).(int); ok {
		fields = append(fields, zap.Int("payload_bytes", size))
	}

	ctxzap.Debug(ctx, "HTTP outbound request", fields...)

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed", zap.Error(err))
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP outbound response", zap.Int("status", resp.StatusCode))
	return resp, nil
}

// WithRequestLogging logs method, URL and headers of outbound requests.
// Values of the named headers are replaced before logging.
func WithRequestLogging(redactHeaders ...string) HttpOpts {
	redact := map[string]struct{}{"authorization": {}}
	for _, h := range redactHeaders {
		redact[strings.ToLower(h)] = struct{}{}
	}
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			redact:    redact,
			transport: rt,
		}
	})
}
