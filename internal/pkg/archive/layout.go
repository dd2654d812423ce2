package archive

import (
	"path"
	"regexp"
	"strings"

	"github.com/futig/wrapgen/internal/entity"
)

// Fixed entry paths of the generated project
const (
	ManifestPath    = "app/src/main/AndroidManifest.xml"
	BuildGradlePath = "app/build.gradle"
	SourceRoot      = "app/src/main/java"
	MainSourceFile  = "MainActivity.kt"
	IconPath        = "app/src/main/res/mipmap-xxxhdpi/ic_launcher.png"

	fileNameSuffix  = "_android.zip"
	defaultBaseName = "app"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SourcePath returns app/src/main/java/<package as dirs>/MainActivity.kt
func SourcePath(packageName string) (string, error) {
	if err := entity.ValidatePackageName(packageName); err != nil {
		return "", err
	}
	return path.Join(SourceRoot, strings.ReplaceAll(packageName, ".", "/"), MainSourceFile), nil
}

// FileName derives the suggested download name from the short name
func FileName(shortName string) string {
	base := strings.Join(strings.Fields(shortName), "_")
	base = unsafeNameChars.ReplaceAllString(base, "")
	base = strings.Trim(base, "_-")
	if base == "" {
		base = defaultBaseName
	}
	return base + fileNameSuffix
}
