package formatter

import (
	"fmt"

	"github.com/futig/wrapgen/internal/entity"
)

// Section is one titled source text of a document
type Section struct {
	Heading  string
	Language string
	Body     string
}

// Document is what a Formatter renders
type Document struct {
	Title    string
	Summary  []string
	Sections []Section
}

type Formatter interface {
	Format(doc *Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}

// ProjectDocument lays out the generated sources of a project
func ProjectDocument(p *entity.ProjectDescriptor, sourcePath string) *Document {
	return &Document{
		Title: p.Name,
		Summary: []string{
			p.Description,
			"Package: " + p.PackageName,
			"Short name: " + p.ShortName,
			"Theme color: " + p.ThemeColor,
			"Background color: " + p.BackgroundColor,
		},
		Sections: []Section{
			{Heading: sourcePath, Language: "kotlin", Body: p.MainActivity},
			{Heading: "app/src/main/AndroidManifest.xml", Language: "xml", Body: p.ManifestXML},
			{Heading: "app/build.gradle", Language: "groovy", Body: p.BuildGradle},
		},
	}
}
