package entity

import "time"

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

// ResultView is the result tab selected in the page. It never influences the workflow.
type ResultView string

const (
	ResultViewInstallable ResultView = "installable"
	ResultViewArchive     ResultView = "archive"
	ResultViewSource      ResultView = "source"
)

func (v ResultView) IsValid() bool {
	switch v {
	case ResultViewInstallable, ResultViewArchive, ResultViewSource:
		return true
	default:
		return false
	}
}

type StartRunRequest struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type ProjectDTO struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Description     string `json:"description"`
	PackageName     string `json:"package_name"`
	ThemeColor      string `json:"theme_color"`
	BackgroundColor string `json:"background_color"`
	MainActivity    string `json:"main_activity"`
	ManifestXML     string `json:"manifest_xml"`
	BuildGradle     string `json:"build_gradle"`
}

type ViewLinks struct {
	Installable string `json:"installable,omitempty"`
	Archive     string `json:"archive,omitempty"`
	Source      string `json:"source,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type WorkflowStateDTO struct {
	Status           WorkflowStatus `json:"status"`
	RunID            string         `json:"run_id,omitempty"`
	URL              string         `json:"url,omitempty"`
	Project          *ProjectDTO    `json:"project,omitempty"`
	HasIcon          bool           `json:"has_icon"`
	ArchiveAvailable bool           `json:"archive_available"`
	Reason           string         `json:"reason,omitempty"`
	Warning          string         `json:"warning,omitempty"`
	View             ResultView     `json:"view,omitempty"`
	Links            *ViewLinks     `json:"links,omitempty"`
	StartedAt        *time.Time     `json:"started_at,omitempty"`
	FinishedAt       *time.Time     `json:"finished_at,omitempty"`
}

type WebManifestIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose,omitempty"`
}

// WebManifest is the web app manifest served for the installable view
type WebManifest struct {
	Name            string            `json:"name"`
	ShortName       string            `json:"short_name"`
	Description     string            `json:"description"`
	StartURL        string            `json:"start_url"`
	Scope           string            `json:"scope,omitempty"`
	Display         string            `json:"display"`
	ThemeColor      string            `json:"theme_color"`
	BackgroundColor string            `json:"background_color"`
	Icons           []WebManifestIcon `json:"icons,omitempty"`
}
