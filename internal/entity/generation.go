package entity

// FieldKind is the primitive kind of a schema field
type FieldKind string

const (
	FieldKindString  FieldKind = "string"
	FieldKindNumber  FieldKind = "number"
	FieldKindInteger FieldKind = "integer"
	FieldKindBoolean FieldKind = "boolean"
)

type SchemaField struct {
	Name string
	Kind FieldKind
}

// OutputSchema describes the object the generation service must return
type OutputSchema struct {
	Fields   []SchemaField
	Required []string
}

// GenerationRequestSpec describes a single call to the generation service.
// It is built fresh for every call and never mutated afterwards.
type GenerationRequestSpec struct {
	Model       string
	Prompt      string
	Schema      *OutputSchema // nil for image calls
	AspectRatio string        // image calls only, e.g. "1:1"
}

// GeneratedImage is the first inline image found in an image response
type GeneratedImage struct {
	Data     string // base64
	MimeType string
}
