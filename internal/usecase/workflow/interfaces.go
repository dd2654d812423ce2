package workflow

import (
	"context"

	"github.com/futig/wrapgen/internal/entity"
	"github.com/futig/wrapgen/internal/pkg/archive"
	"github.com/futig/wrapgen/internal/pkg/formatter"
)

// GenerationClient is the generation service as seen by the workflow
type GenerationClient interface {
	GenerateText(ctx context.Context, spec *entity.GenerationRequestSpec) (string, error)
	GenerateImage(ctx context.Context, spec *entity.GenerationRequestSpec) (*entity.GeneratedImage, error)
}

// ArchiveCache keeps assembled archives per run
type ArchiveCache interface {
	GetOrLoad(runID string, load func() (*archive.Archive, error)) (*archive.Archive, bool, error)
	Delete(runID string)
}

type Validator interface {
	ValidateStartRun(req *entity.StartRunRequest) error
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
