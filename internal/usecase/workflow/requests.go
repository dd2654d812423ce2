package workflow

import (
	"fmt"
	"strings"

	"github.com/futig/wrapgen/internal/entity"
)

const iconAspectRatio = "1:1"

// projectFields lists the fields the project call must return, in output order
var projectFields = []string{
	"name",
	"shortName",
	"description",
	"packageName",
	"themeColor",
	"backgroundColor",
	"mainActivity",
	"manifestXml",
	"buildGradle",
}

const projectPromptTemplate = `You are an Android engineer. Create a minimal Android application that wraps the website %q in a full-screen WebView.

Return a single JSON object with exactly these nine string fields and nothing else:
- name: the application display name, derived from the website
- shortName: a short launcher label of at most 12 characters
- description: one or two sentences describing the application
- packageName: a reverse-domain package identifier made of lowercase letters, digits and dots, e.g. com.example.app
- themeColor: the primary brand color of the website as a hex color, e.g. #1E88E5
- backgroundColor: a background color as a hex color
- mainActivity: the complete Kotlin source of MainActivity.kt in the package above; it must enable JavaScript and DOM storage, keep navigation inside the WebView and handle the back button
- manifestXml: the complete AndroidManifest.xml declaring the INTERNET permission, the launcher activity and the icon @mipmap/ic_launcher
- buildGradle: the complete module-level app/build.gradle using the package above as namespace and applicationId

Do not wrap the JSON in markdown and do not add commentary.`

const iconPromptTemplate = `Design a launcher icon for an app named %q. The app: %s
Style: flat, vector style, a single bold centered glyph, square composition, plain white background, no text, no border, no shadow.`

// NewProjectRequest builds the project synthesis call for url
func NewProjectRequest(model, url string) (*entity.GenerationRequestSpec, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: url must not be empty", entity.ErrValidation)
	}

	schema := &entity.OutputSchema{
		Fields:   make([]entity.SchemaField, 0, len(projectFields)),
		Required: append([]string(nil), projectFields...),
	}
	for _, name := range projectFields {
		schema.Fields = append(schema.Fields, entity.SchemaField{Name: name, Kind: entity.FieldKindString})
	}

	return &entity.GenerationRequestSpec{
		Model:  model,
		Prompt: fmt.Sprintf(projectPromptTemplate, url),
		Schema: schema,
	}, nil
}

// NewIconRequest builds the icon call from the project name and description
func NewIconRequest(model string, project *entity.ProjectDescriptor) *entity.GenerationRequestSpec {
	return &entity.GenerationRequestSpec{
		Model:       model,
		Prompt:      fmt.Sprintf(iconPromptTemplate, project.Name, project.Description),
		AspectRatio: iconAspectRatio,
	}
}
