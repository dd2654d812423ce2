package workflow

import (
	"context"

	"github.com/futig/wrapgen/internal/entity"
	"github.com/futig/wrapgen/internal/pkg/archive"
	wfusecase "github.com/futig/wrapgen/internal/usecase/workflow"
)

type WorkflowUsecase interface {
	State() *entity.WorkflowState
	Start(ctx context.Context, url string) (*entity.WorkflowState, error)
	Complete(ctx context.Context, runID string) *entity.WorkflowState
	Archive(ctx context.Context) (*archive.Archive, error)
	ExportSource(ctx context.Context, format entity.ResultFormat) (*wfusecase.SourceExport, error)
	Icon() ([]byte, string, error)
}
