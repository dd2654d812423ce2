package entity

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

var packageNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ProjectDescriptor is the parsed result of the project generation call
type ProjectDescriptor struct {
	Name            string `json:"name"`
	ShortName       string `json:"shortName"`
	Description     string `json:"description"`
	PackageName     string `json:"packageName"`
	ThemeColor      string `json:"themeColor"`
	BackgroundColor string `json:"backgroundColor"`
	MainActivity    string `json:"mainActivity"`
	ManifestXML     string `json:"manifestXml"`
	BuildGradle     string `json:"buildGradle"`
}

// Validate checks that every field is present and that the package name
// can be used as a directory path.
func (p *ProjectDescriptor) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"shortName", p.ShortName},
		{"description", p.Description},
		{"packageName", p.PackageName},
		{"themeColor", p.ThemeColor},
		{"backgroundColor", p.BackgroundColor},
		{"mainActivity", p.MainActivity},
		{"manifestXml", p.ManifestXML},
		{"buildGradle", p.BuildGradle},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}

	return ValidatePackageName(p.PackageName)
}

// PackagePath converts a package name like com.example.app into com/example/app
func (p *ProjectDescriptor) PackagePath() (string, error) {
	if err := ValidatePackageName(p.PackageName); err != nil {
		return "", err
	}
	return strings.ReplaceAll(p.PackageName, ".", "/"), nil
}

func ValidatePackageName(name string) error {
	if !packageNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPackageName, name)
	}
	return nil
}

// IconAsset is a generated launcher icon
type IconAsset struct {
	Data     string `json:"-"` // base64 as returned by the generation service
	MimeType string `json:"mime_type"`
}

// Bytes decodes the icon payload
func (i *IconAsset) Bytes() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(i.Data))
	if err != nil {
		return nil, fmt.Errorf("decode icon: %w", err)
	}
	return raw, nil
}
