package workflow

import (
	"github.com/futig/wrapgen/internal/entity"
)

const defaultIconMimeType = "image/png"

func toStateDTO(s *entity.WorkflowState, view entity.ResultView) *entity.WorkflowStateDTO {
	dto := &entity.WorkflowStateDTO{
		Status:           s.Status,
		RunID:            s.RunID,
		URL:              s.URL,
		HasIcon:          s.Icon != nil,
		ArchiveAvailable: s.ArchiveAvailable(),
		Reason:           s.Reason,
		Warning:          s.Warning,
		StartedAt:        s.StartedAt,
		FinishedAt:       s.FinishedAt,
	}

	if s.Project == nil {
		return dto
	}

	dto.Project = toProjectDTO(s.Project)
	dto.View = view
	dto.Links = &entity.ViewLinks{
		Installable: webManifestPath,
		Source:      sourcePath + "?format=" + string(entity.FormatMarkdown),
	}
	if s.Icon != nil {
		dto.Links.Icon = iconPath
	}
	if dto.ArchiveAvailable {
		dto.Links.Archive = archivePath
	}

	return dto
}

func toProjectDTO(p *entity.ProjectDescriptor) *entity.ProjectDTO {
	return &entity.ProjectDTO{
		Name:            p.Name,
		ShortName:       p.ShortName,
		Description:     p.Description,
		PackageName:     p.PackageName,
		ThemeColor:      p.ThemeColor,
		BackgroundColor: p.BackgroundColor,
		MainActivity:    p.MainActivity,
		ManifestXML:     p.ManifestXML,
		BuildGradle:     p.BuildGradle,
	}
}

// toWebManifest builds the installable web app manifest pointing back at the wrapped site
func toWebManifest(s *entity.WorkflowState) *entity.WebManifest {
	p := s.Project
	m := &entity.WebManifest{
		Name:            p.Name,
		ShortName:       p.ShortName,
		Description:     p.Description,
		StartURL:        s.URL,
		Display:         "standalone",
		ThemeColor:      p.ThemeColor,
		BackgroundColor: p.BackgroundColor,
	}

	if s.Icon != nil {
		mimeType := s.Icon.MimeType
		if mimeType == "" {
			mimeType = defaultIconMimeType
		}
		m.Icons = []entity.WebManifestIcon{{
			Src:     iconPath,
			Sizes:   "any",
			Type:    mimeType,
			Purpose: "any",
		}}
	}

	return m
}
