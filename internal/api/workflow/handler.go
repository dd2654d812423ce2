package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/futig/wrapgen/internal/entity"
	"github.com/futig/wrapgen/internal/pkg/logger"
	"github.com/futig/wrapgen/internal/pkg/response"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxStartRunBody = 64 << 10

type Handler struct {
	usecase WorkflowUsecase
}

func NewHandler(usecase WorkflowUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// StartRun handles POST /workflow/runs
func (h *Handler) StartRun(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartRun")
	requestID := middleware.GetReqID(r.Context())

	var req entity.StartRunRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxStartRunBody)).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	state, err := h.usecase.Start(ctx, req.URL)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "run accepted", zap.String("run_id", state.RunID))

	h.respondJSON(w, http.StatusAccepted, toStateDTO(state, entity.ResultViewInstallable))

	// The run outlives the request
	go func() {
		bgCtx := logger.AddFields(logger.WithRunID(logger.Detach(ctx), state.RunID),
			zap.String("request_id", requestID),
			zap.String("action", "StartRun-async"),
		)

		final := h.usecase.Complete(bgCtx, state.RunID)

		ctxzap.Info(bgCtx, "run completed", zap.String("status", string(final.Status)))
	}()
}

// GetState handles GET /workflow
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetState")

	view := entity.ResultViewInstallable
	if v := r.URL.Query().Get("view"); v != "" {
		view = entity.ResultView(v)
		if !view.IsValid() {
			h.respondError(ctx, w, http.StatusBadRequest, "unknown view: use installable, archive or source", nil)
			return
		}
	}

	state := h.usecase.State()

	ctxzap.Debug(ctx, "state requested", zap.String("status", string(state.Status)))

	h.respondJSON(w, http.StatusOK, toStateDTO(state, view))
}

// DownloadArchive handles GET /workflow/archive
func (h *Handler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DownloadArchive")

	a, err := h.usecase.Archive(ctx)
	if errors.Is(err, entity.ErrArchiveUnavailable) {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "the archive could not be assembled", err)
		return
	}

	response.Attachment(w, a.FileName, a.ContentType(), a.Data)
}

// ExportSource handles GET /workflow/source
func (h *Handler) ExportSource(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportSource")

	format := entity.FormatMarkdown
	if f := r.URL.Query().Get("format"); f != "" {
		format = entity.ResultFormat(f)
	}
	if !format.IsValid() {
		h.respondError(ctx, w, http.StatusBadRequest, "unsupported format: use markdown, pdf or docx", nil)
		return
	}

	export, err := h.usecase.ExportSource(ctx, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if format == entity.FormatMarkdown && r.URL.Query().Get("download") == "" {
		response.Blob(w, export.ContentType, export.Data)
		return
	}
	response.Attachment(w, export.FileName, export.ContentType, export.Data)
}

// GetIcon handles GET /workflow/icon.png
func (h *Handler) GetIcon(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetIcon")

	data, mimeType, err := h.usecase.Icon()
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	if mimeType == "" {
		mimeType = defaultIconMimeType
	}

	response.Blob(w, mimeType, data)
}

// GetWebManifest handles GET /workflow/manifest.webmanifest
func (h *Handler) GetWebManifest(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetWebManifest")

	state := h.usecase.State()
	if state.Status != entity.WorkflowStatusSucceeded || state.Project == nil {
		h.handleUsecaseError(ctx, w, entity.ErrNoResult)
		return
	}

	w.Header().Set("Content-Type", "application/manifest+json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(toWebManifest(state))
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Error(ctx, message)
	}
	h.respondJSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrValidation) || errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, entity.ErrUnsupportedFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "unsupported format", err)
	case errors.Is(err, entity.ErrRunInProgress):
		h.respondError(ctx, w, http.StatusConflict, err.Error(), err)
	case errors.Is(err, entity.ErrArchiveUnavailable):
		h.respondError(ctx, w, http.StatusConflict, err.Error(), err)
	case errors.Is(err, entity.ErrNoResult):
		h.respondError(ctx, w, http.StatusNotFound, err.Error(), err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
