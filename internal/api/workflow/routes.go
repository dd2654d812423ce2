package workflow

import (
	"github.com/go-chi/chi/v5"
)

const (
	basePath        = "/workflow"
	archivePath     = basePath + "/archive"
	sourcePath      = basePath + "/source"
	iconPath        = basePath + "/icon.png"
	webManifestPath = basePath + "/manifest.webmanifest"
)

// RegisterRoutes registers workflow routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route(basePath, func(r chi.Router) {
		r.Get("/", h.GetState)
		r.Post("/runs", h.StartRun)
		r.Get("/archive", h.DownloadArchive)
		r.Get("/source", h.ExportSource)
		r.Get("/icon.png", h.GetIcon)
		r.Get("/manifest.webmanifest", h.GetWebManifest)
	})
}
