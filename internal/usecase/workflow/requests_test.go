package workflow

import (
	"testing"

	"github.com/futig/wrapgen/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectRequest(t *testing.T) {
	spec, err := NewProjectRequest("project-model", "  https://example.com  ")
	require.NoError(t, err)

	assert.Equal(t, "project-model", spec.Model)
	assert.Contains(t, spec.Prompt, `"https://example.com"`)
	assert.Empty(t, spec.AspectRatio)

	require.NotNil(t, spec.Schema)
	assert.Equal(t, projectFields, spec.Schema.Required)
	require.Len(t, spec.Schema.Fields, 9)
	for i, f := range spec.Schema.Fields {
		assert.Equal(t, projectFields[i], f.Name)
		assert.Equal(t, entity.FieldKindString, f.Kind)
		assert.Contains(t, spec.Prompt, f.Name)
	}
}

func TestNewProjectRequest_Blank(t *testing.T) {
	spec, err := NewProjectRequest("project-model", " \t ")
	assert.Nil(t, spec)
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestNewProjectRequest_SchemaIsFreshPerCall(t *testing.T) {
	a, err := NewProjectRequest("m", "https://a.example")
	require.NoError(t, err)
	b, err := NewProjectRequest("m", "https://b.example")
	require.NoError(t, err)

	a.Schema.Required[0] = "mutated"
	assert.Equal(t, "name", b.Schema.Required[0])
	assert.Equal(t, "name", projectFields[0])
}

func TestNewIconRequest(t *testing.T) {
	spec := NewIconRequest("image-model", &entity.ProjectDescriptor{
		Name:        "Daily News",
		Description: "Reads the daily paper",
	})

	assert.Equal(t, "image-model", spec.Model)
	assert.Equal(t, "1:1", spec.AspectRatio)
	assert.Nil(t, spec.Schema)
	assert.Contains(t, spec.Prompt, `"Daily News"`)
	assert.Contains(t, spec.Prompt, "Reads the daily paper")
	assert.Contains(t, spec.Prompt, "white background")
}
