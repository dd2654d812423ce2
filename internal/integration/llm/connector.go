package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/futig/wrapgen/internal/config"
	"github.com/futig/wrapgen/internal/entity"
	"github.com/futig/wrapgen/internal/integration/common"
	"github.com/futig/wrapgen/internal/pkg/metrics"
	pkghttp "github.com/futig/wrapgen/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	callKindText  = "text"
	callKindImage = "image"
)

// Connector talks to the Gemini generateContent API
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	opts ...pkghttp.HttpOpts,
) *Connector {
	apiKeyEnv := cfg.APIKeyEnv
	opts = append([]pkghttp.HttpOpts{
		pkghttp.WithRequestLogging(cfg.APIKeyHeader),
		pkghttp.WithAPIKey(cfg.APIKeyHeader, func() string { return os.Getenv(apiKeyEnv) }),
	}, opts...)

	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, opts...),
		config:    cfg,
	}
}

// GenerateText runs a structured text generation and returns the concatenated text parts
func (c *Connector) GenerateText(ctx context.Context, spec *entity.GenerationRequestSpec) (string, error) {
	ctxzap.Info(ctx, "generating text via LLM service", zap.String("model", spec.Model))

	req := &entity.GeminiGenerateRequest{
		Contents: []entity.GeminiContent{userContent(spec.Prompt)},
	}
	if spec.Schema != nil {
		req.GenerationConfig = &entity.GeminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   toGeminiSchema(spec.Schema),
		}
	}

	resp, err := c.generate(ctx, callKindText, spec.Model, req)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, part := range resp.Parts() {
		sb.WriteString(part.Text)
	}

	ctxzap.Info(ctx, "text generated successfully", zap.Int("result_length", sb.Len()))

	return sb.String(), nil
}

// GenerateImage runs an image generation and returns the first inline image part.
// A response without image data yields entity.ErrMissingIcon.
func (c *Connector) GenerateImage(ctx context.Context, spec *entity.GenerationRequestSpec) (*entity.GeneratedImage, error) {
	ctxzap.Info(ctx, "generating image via LLM service", zap.String("model", spec.Model))

	req := &entity.GeminiGenerateRequest{
		Contents: []entity.GeminiContent{userContent(spec.Prompt)},
	}
	if spec.AspectRatio != "" {
		req.GenerationConfig = &entity.GeminiGenerationConfig{
			ImageConfig: &entity.GeminiImageConfig{AspectRatio: spec.AspectRatio},
		}
	}

	resp, err := c.generate(ctx, callKindImage, spec.Model, req)
	if err != nil {
		return nil, err
	}

	image := FirstInlineImage(resp.Parts())
	if image == nil {
		ctxzap.Warn(ctx, "image response carried no inline image data", zap.Int("part_count", len(resp.Parts())))
		return nil, entity.ErrMissingIcon
	}

	ctxzap.Info(ctx, "image generated successfully",
		zap.String("mime_type", image.MimeType),
		zap.Int("base64_length", len(image.Data)),
	)

	return image, nil
}

func (c *Connector) generate(
	ctx context.Context,
	kind, model string,
	req *entity.GeminiGenerateRequest,
) (*entity.GeminiGenerateResponse, error) {
	endpoint := fmt.Sprintf(c.config.GenerateEndpoint, model)
	start := time.Now()

	var resp entity.GeminiGenerateResponse
	err := c.config.Retry.Do(ctx, func() error {
		resp = entity.GeminiGenerateResponse{}
		return c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp)
	})

	metrics.GenerationCallDuration.WithLabelValues(kind, model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.GenerationCallTotal.WithLabelValues(kind, model, "error").Inc()
		ctxzap.Error(ctx, "generation call failed", zap.String("kind", kind), zap.Error(err))
		return nil, toTransportError(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" && len(resp.Candidates) == 0 {
		metrics.GenerationCallTotal.WithLabelValues(kind, model, "blocked").Inc()
		return nil, fmt.Errorf("%w: prompt blocked (%s)", entity.ErrTransport, resp.PromptFeedback.BlockReason)
	}

	metrics.GenerationCallTotal.WithLabelValues(kind, model, "ok").Inc()
	if usage := resp.UsageMetadata; usage != nil {
		metrics.GenerationTokensUsed.WithLabelValues(model, "prompt").Add(float64(usage.PromptTokenCount))
		metrics.GenerationTokensUsed.WithLabelValues(model, "completion").Add(float64(usage.CandidatesTokenCount))
	}

	return &resp, nil
}

// FirstInlineImage scans parts in order and returns the first one carrying inline image bytes
func FirstInlineImage(parts []entity.GeminiPart) *entity.GeneratedImage {
	for _, part := range parts {
		if part.InlineData == nil || part.InlineData.Data == "" {
			continue
		}
		mimeType := part.InlineData.MimeType
		if mimeType != "" && !strings.HasPrefix(mimeType, "image/") {
			continue
		}
		if mimeType == "" {
			mimeType = "image/png"
		}
		return &entity.GeneratedImage{
			Data:     part.InlineData.Data,
			MimeType: mimeType,
		}
	}
	return nil
}

func userContent(prompt string) entity.GeminiContent {
	return entity.GeminiContent{
		Role:  "user",
		Parts: []entity.GeminiPart{{Text: prompt}},
	}
}

func toGeminiSchema(schema *entity.OutputSchema) *entity.GeminiSchema {
	out := &entity.GeminiSchema{
		Type:       "OBJECT",
		Properties: make(map[string]*entity.GeminiSchema, len(schema.Fields)),
		Required:   schema.Required,
	}
	for _, f := range schema.Fields {
		out.Properties[f.Name] = &entity.GeminiSchema{Type: strings.ToUpper(string(f.Kind))}
		out.PropertyOrdering = append(out.PropertyOrdering, f.Name)
	}
	return out
}

// toTransportError keeps the provider's own message when there is one
func toTransportError(err error) error {
	if errors.Is(err, pkghttp.ErrMissingAPIKey) {
		return fmt.Errorf("%w: %w", entity.ErrTransport, entity.ErrMissingCredential)
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		var body entity.GeminiErrorBody
		if jsonErr := json.Unmarshal(httpErr.Body, &body); jsonErr == nil && body.Error.Message != "" {
			return fmt.Errorf("%w: %s", entity.ErrTransport, body.Error.Message)
		}
		return fmt.Errorf("%w: provider responded with HTTP %d", entity.ErrTransport, httpErr.StatusCode)
	}

	return fmt.Errorf("%w: %v", entity.ErrTransport, err)
}
