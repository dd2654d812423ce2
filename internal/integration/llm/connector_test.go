package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/wrapgen/internal/config"
	"github.com/futig/wrapgen/internal/entity"
	pkgRetry "github.com/futig/wrapgen/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyEnv = "WRAPGEN_TEST_GEMINI_KEY"

func testConfig(url string) config.LLMConnectorConfig {
	return config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			Url:                   url,
		},
		GenerateEndpoint: "/v1beta/models/%s:generateContent",
		ProjectModel:     "text-model",
		ImageModel:       "image-model",
		APIKeyEnv:        testKeyEnv,
		APIKeyHeader:     "x-goog-api-key",
		Retry:            *pkgRetry.DefaultRetryConfig(),
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGenerateText(t *testing.T) {
	t.Setenv(testKeyEnv, "secret-key")

	var got entity.GeminiGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/text-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("x-goog-api-key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": `{"name":`}, {"text": `"x"}`}},
				},
			}},
			"usageMetadata": map[string]any{"promptTokenCount": 10, "candidatesTokenCount": 5},
		})
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL))

	text, err := c.GenerateText(context.Background(), &entity.GenerationRequestSpec{
		Model:  "text-model",
		Prompt: "make an app",
		Schema: &entity.OutputSchema{
			Fields: []entity.SchemaField{
				{Name: "name", Kind: entity.FieldKindString},
				{Name: "shortName", Kind: entity.FieldKindString},
			},
			Required: []string{"name", "shortName"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, text)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "make an app", got.Contents[0].Parts[0].Text)

	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
	schema := got.GenerationConfig.ResponseSchema
	require.NotNil(t, schema)
	assert.Equal(t, "OBJECT", schema.Type)
	assert.Equal(t, []string{"name", "shortName"}, schema.Required)
	assert.Equal(t, []string{"name", "shortName"}, schema.PropertyOrdering)
	assert.Equal(t, "STRING", schema.Properties["shortName"].Type)
}

func TestGenerateImage(t *testing.T) {
	t.Setenv(testKeyEnv, "secret-key")

	var got entity.GeminiGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/image-model:generateContent", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": "Here is your icon"},
						{"inlineData": map[string]any{"mimeType": "image/png", "data": MockPNG}},
					},
				},
			}},
		})
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL))

	image, err := c.GenerateImage(context.Background(), &entity.GenerationRequestSpec{
		Model:       "image-model",
		Prompt:      "draw an icon",
		AspectRatio: "1:1",
	})
	require.NoError(t, err)
	assert.Equal(t, MockPNG, image.Data)
	assert.Equal(t, "image/png", image.MimeType)

	require.NotNil(t, got.GenerationConfig)
	require.NotNil(t, got.GenerationConfig.ImageConfig)
	assert.Equal(t, "1:1", got.GenerationConfig.ImageConfig.AspectRatio)
	assert.Nil(t, got.GenerationConfig.ResponseSchema)
}

func TestGenerateImage_NoImagePart(t *testing.T) {
	t.Setenv(testKeyEnv, "secret-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]any{{"text": "I cannot draw that"}}},
			}},
		})
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL))

	image, err := c.GenerateImage(context.Background(), &entity.GenerationRequestSpec{Model: "image-model"})
	assert.Nil(t, image)
	assert.ErrorIs(t, err, entity.ErrMissingIcon)
}

func TestGenerate_ProviderError(t *testing.T) {
	t.Setenv(testKeyEnv, "secret-key")

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusTooManyRequests, map[string]any{
			"error": map[string]any{"code": 429, "message": "Resource has been exhausted", "status": "RESOURCE_EXHAUSTED"},
		})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Retry.Attempts = 3
	c := NewConnector(cfg)

	_, err := c.GenerateText(context.Background(), &entity.GenerationRequestSpec{Model: "text-model"})
	require.ErrorIs(t, err, entity.ErrTransport)
	assert.Contains(t, err.Error(), "Resource has been exhausted")
	assert.Equal(t, int32(1), calls.Load(), "provider responses are never retried")
}

func TestGenerate_ProviderErrorWithoutBody(t *testing.T) {
	t.Setenv(testKeyEnv, "secret-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL))

	_, err := c.GenerateText(context.Background(), &entity.GenerationRequestSpec{Model: "text-model"})
	require.ErrorIs(t, err, entity.ErrTransport)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestGenerate_MissingCredential(t *testing.T) {
	t.Setenv(testKeyEnv, "")

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL))

	_, err := c.GenerateText(context.Background(), &entity.GenerationRequestSpec{Model: "text-model"})
	assert.ErrorIs(t, err, entity.ErrTransport)
	assert.ErrorIs(t, err, entity.ErrMissingCredential)
	assert.Zero(t, calls.Load())
}

func TestGenerate_BlockedPrompt(t *testing.T) {
	t.Setenv(testKeyEnv, "secret-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"promptFeedback": map[string]any{"blockReason": "SAFETY"},
		})
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL))

	_, err := c.GenerateText(context.Background(), &entity.GenerationRequestSpec{Model: "text-model"})
	require.ErrorIs(t, err, entity.ErrTransport)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestFirstInlineImage(t *testing.T) {
	tests := []struct {
		name  string
		parts []entity.GeminiPart
		want  *entity.GeneratedImage
	}{
		{name: "no parts"},
		{name: "text only", parts: []entity.GeminiPart{{Text: "hello"}}},
		{
			name: "skips non image data",
			parts: []entity.GeminiPart{
				{InlineData: &entity.GeminiInlineData{MimeType: "text/plain", Data: "aGk="}},
				{InlineData: &entity.GeminiInlineData{MimeType: "image/jpeg", Data: "AAAA"}},
			},
			want: &entity.GeneratedImage{Data: "AAAA", MimeType: "image/jpeg"},
		},
		{
			name: "first image wins",
			parts: []entity.GeminiPart{
				{InlineData: &entity.GeminiInlineData{MimeType: "image/png", Data: "Zmlyc3Q="}},
				{InlineData: &entity.GeminiInlineData{MimeType: "image/png", Data: "c2Vjb25k"}},
			},
			want: &entity.GeneratedImage{Data: "Zmlyc3Q=", MimeType: "image/png"},
		},
		{
			name:  "missing mime type defaults to png",
			parts: []entity.GeminiPart{{InlineData: &entity.GeminiInlineData{Data: "AAAA"}}},
			want:  &entity.GeneratedImage{Data: "AAAA", MimeType: "image/png"},
		},
		{
			name:  "empty data is skipped",
			parts: []entity.GeminiPart{{InlineData: &entity.GeminiInlineData{MimeType: "image/png"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstInlineImage(tt.parts))
		})
	}
}
