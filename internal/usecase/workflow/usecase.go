package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/futig/wrapgen/internal/entity"
	"github.com/futig/wrapgen/internal/pkg/archive"
	"github.com/futig/wrapgen/internal/pkg/formatter"
	"github.com/futig/wrapgen/internal/pkg/metrics"
	"github.com/futig/wrapgen/internal/pkg/responseparser"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const missingIconWarning = "the icon could not be generated; the archive download is unavailable for this result"

// Models names the two generation model identities
type Models struct {
	Project string
	Image   string
}

// WorkflowUsecase owns the single process-wide WorkflowState
type WorkflowUsecase struct {
	mu    sync.RWMutex
	state *entity.WorkflowState

	client     GenerationClient
	archives   ArchiveCache
	validator  Validator
	formatters FormatterFactory
	models     Models

	now      func() time.Time
	newRunID func() string
}

func NewUsecase(
	client GenerationClient,
	archives ArchiveCache,
	validator Validator,
	formatters FormatterFactory,
	models Models,
) *WorkflowUsecase {
	return &WorkflowUsecase{
		state:      entity.IdleState(),
		client:     client,
		archives:   archives,
		validator:  validator,
		formatters: formatters,
		models:     models,
		now:        time.Now,
		newRunID:   func() string { return uuid.New().String() },
	}
}

// State returns a snapshot of the current workflow state
func (uc *WorkflowUsecase) State() *entity.WorkflowState {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state.Clone()
}

// Start moves the workflow into Running for url and returns the new state.
// Blank input leaves the state untouched; a second start while running is rejected.
func (uc *WorkflowUsecase) Start(ctx context.Context, url string) (*entity.WorkflowState, error) {
	req := &entity.StartRunRequest{URL: url}
	if err := uc.validator.ValidateStartRun(req); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.state.IsRunning() {
		return nil, entity.ErrRunInProgress
	}

	if prev := uc.state.RunID; prev != "" {
		uc.archives.Delete(prev)
	}

	startedAt := uc.now()
	uc.state = &entity.WorkflowState{
		Status:    entity.WorkflowStatusRunning,
		RunID:     uc.newRunID(),
		URL:       req.URL,
		StartedAt: &startedAt,
	}

	ctxzap.Info(ctx, "workflow run started",
		zap.String("run_id", uc.state.RunID),
		zap.String("url", req.URL),
	)

	return uc.state.Clone(), nil
}

// Complete performs the generation steps of a started run and returns the final state
func (uc *WorkflowUsecase) Complete(ctx context.Context, runID string) *entity.WorkflowState {
	current := uc.State()
	if current.RunID != runID || !current.IsRunning() {
		ctxzap.Warn(ctx, "run is not the active one, skipping", zap.String("run_id", runID))
		return current
	}

	project, err := uc.generateProject(ctx, current.URL)
	if err != nil {
		ctxzap.Error(ctx, "project step failed", zap.Error(err))
		return uc.fail(ctx, runID, failureReason(err))
	}

	uc.transition(runID, func(s *entity.WorkflowState) {
		s.Project = project
	})

	ctxzap.Info(ctx, "project generated",
		zap.String("package_name", project.PackageName),
		zap.String("short_name", project.ShortName),
	)

	icon, err := uc.generateIcon(ctx, project)
	if err != nil {
		ctxzap.Warn(ctx, "icon step failed, finishing without icon", zap.Error(err))
		return uc.succeed(ctx, runID, nil, missingIconWarning)
	}

	return uc.succeed(ctx, runID, icon, "")
}

// Run starts and completes a run in one call
func (uc *WorkflowUsecase) Run(ctx context.Context, url string) (*entity.WorkflowState, error) {
	started, err := uc.Start(ctx, url)
	if err != nil {
		return nil, err
	}
	return uc.Complete(ctx, started.RunID), nil
}

// Archive assembles the archive of the current result. Failures never touch the workflow state.
func (uc *WorkflowUsecase) Archive(ctx context.Context) (*archive.Archive, error) {
	state := uc.State()
	if !state.ArchiveAvailable() {
		return nil, entity.ErrArchiveUnavailable
	}

	a, assembled, err := uc.archives.GetOrLoad(state.RunID, func() (*archive.Archive, error) {
		if !uc.isCurrent(state.RunID) {
			return nil, entity.ErrArchiveUnavailable
		}
		return archive.Assemble(state.Project, state.Icon)
	})
	if errors.Is(err, entity.ErrArchiveUnavailable) {
		return nil, err
	}
	if err != nil {
		ctxzap.Error(ctx, "archive assembly failed", zap.Error(err))
		return nil, err
	}
	// A run started meanwhile may have deleted this entry before it was stored
	if !uc.isCurrent(state.RunID) {
		uc.archives.Delete(state.RunID)
		return nil, entity.ErrArchiveUnavailable
	}
	if !assembled {
		ctxzap.Debug(ctx, "archive served from cache", zap.String("run_id", state.RunID))
		return a, nil
	}

	metrics.ArchiveSizeBytes.Observe(float64(len(a.Data)))

	ctxzap.Info(ctx, "archive assembled",
		zap.String("file_name", a.FileName),
		zap.Int("size", len(a.Data)),
	)

	return a, nil
}

// Project returns the descriptor of a successful run
func (uc *WorkflowUsecase) Project() (*entity.ProjectDescriptor, error) {
	state := uc.State()
	if state.Status != entity.WorkflowStatusSucceeded || state.Project == nil {
		return nil, entity.ErrNoResult
	}
	return state.Project, nil
}

// SourceExport is the generated source rendered as a single document
type SourceExport struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportSource renders the generated sources of the current result in format
func (uc *WorkflowUsecase) ExportSource(ctx context.Context, format entity.ResultFormat) (*SourceExport, error) {
	fm, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	project, err := uc.Project()
	if err != nil {
		return nil, err
	}

	sourcePath, err := archive.SourcePath(project.PackageName)
	if err != nil {
		return nil, err
	}

	data, err := fm.Format(formatter.ProjectDocument(project, sourcePath))
	if err != nil {
		return nil, fmt.Errorf("format source: %w", err)
	}

	ctxzap.Info(ctx, "source exported", zap.String("format", string(format)), zap.Int("size", len(data)))

	return &SourceExport{
		FileName:    strings.TrimSuffix(archive.FileName(project.ShortName), ".zip") + "_source" + fm.FileExtension(),
		ContentType: fm.ContentType(),
		Data:        data,
	}, nil
}

// Icon returns the decoded icon of a successful run
func (uc *WorkflowUsecase) Icon() ([]byte, string, error) {
	state := uc.State()
	if state.Status != entity.WorkflowStatusSucceeded || state.Icon == nil {
		return nil, "", entity.ErrNoResult
	}

	data, err := state.Icon.Bytes()
	if err != nil {
		return nil, "", err
	}
	return data, state.Icon.MimeType, nil
}

func (uc *WorkflowUsecase) generateProject(ctx context.Context, url string) (*entity.ProjectDescriptor, error) {
	spec, err := NewProjectRequest(uc.models.Project, url)
	if err != nil {
		return nil, err
	}

	raw, err := uc.client.GenerateText(ctx, spec)
	if err != nil {
		return nil, err
	}

	return responseparser.ParseProject(raw)
}

func (uc *WorkflowUsecase) generateIcon(ctx context.Context, project *entity.ProjectDescriptor) (*entity.IconAsset, error) {
	image, err := uc.client.GenerateImage(ctx, NewIconRequest(uc.models.Image, project))
	if err != nil {
		return nil, err
	}
	if image == nil || image.Data == "" {
		return nil, entity.ErrMissingIcon
	}

	icon := &entity.IconAsset{Data: image.Data, MimeType: image.MimeType}
	if _, err := icon.Bytes(); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrMissingIcon, err)
	}
	return icon, nil
}

func (uc *WorkflowUsecase) fail(ctx context.Context, runID, reason string) *entity.WorkflowState {
	state := uc.transition(runID, func(s *entity.WorkflowState) {
		s.Status = entity.WorkflowStatusFailed
		s.Project = nil
		s.Icon = nil
		s.Reason = reason
	})
	uc.observe(ctx, state, "failed")
	return state
}

func (uc *WorkflowUsecase) succeed(
	ctx context.Context,
	runID string,
	icon *entity.IconAsset,
	warning string,
) *entity.WorkflowState {
	state := uc.transition(runID, func(s *entity.WorkflowState) {
		s.Status = entity.WorkflowStatusSucceeded
		s.Icon = icon
		s.Warning = warning
	})

	outcome := "succeeded"
	if icon == nil {
		outcome = "succeeded_without_icon"
	}
	uc.observe(ctx, state, outcome)
	return state
}

func (uc *WorkflowUsecase) isCurrent(runID string) bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state.RunID == runID
}

// transition replaces the state of runID with a modified copy and returns a snapshot
func (uc *WorkflowUsecase) transition(runID string, apply func(s *entity.WorkflowState)) *entity.WorkflowState {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.state.RunID != runID {
		return uc.state.Clone()
	}

	next := uc.state.Clone()
	apply(next)
	if next.Status != entity.WorkflowStatusRunning {
		finishedAt := uc.now()
		next.FinishedAt = &finishedAt
	}
	uc.state = next

	return uc.state.Clone()
}

func (uc *WorkflowUsecase) observe(ctx context.Context, state *entity.WorkflowState, outcome string) {
	metrics.WorkflowRunsTotal.WithLabelValues(outcome).Inc()
	if state.StartedAt != nil && state.FinishedAt != nil {
		metrics.WorkflowRunDuration.Observe(state.FinishedAt.Sub(*state.StartedAt).Seconds())
	}

	ctxzap.Info(ctx, "workflow run finished",
		zap.String("run_id", state.RunID),
		zap.String("status", string(state.Status)),
		zap.String("outcome", outcome),
	)
}

// failureReason turns a project step error into the message shown to the user
func failureReason(err error) string {
	switch {
	case errors.Is(err, entity.ErrMalformedResponse):
		return entity.ErrMalformedResponse.Error()
	case errors.Is(err, entity.ErrTransport):
		return err.Error()
	default:
		return entity.ErrTransport.Error()
	}
}
