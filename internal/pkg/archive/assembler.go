// Package archive lays out a generated project as a zip file
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/futig/wrapgen/internal/entity"
	"github.com/klauspost/compress/zip"
)

const ContentType = "application/zip"

// entryTime is stamped on every entry so equal inputs give equal archives
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Archive is a fully serialized project archive
type Archive struct {
	FileName string
	Data     []byte
	Entries  []string
}

func (a *Archive) ContentType() string {
	return ContentType
}

type entry struct {
	path string
	data []byte
}

// Assemble builds the archive for project and icon. Nothing is returned unless every entry was written.
func Assemble(project *entity.ProjectDescriptor, icon *entity.IconAsset) (*Archive, error) {
	if project == nil {
		return nil, errors.New("assemble archive: project is missing")
	}
	if icon == nil {
		return nil, fmt.Errorf("assemble archive: %w", entity.ErrMissingIcon)
	}

	sourcePath, err := SourcePath(project.PackageName)
	if err != nil {
		return nil, fmt.Errorf("assemble archive: %w", err)
	}

	iconBytes, err := icon.Bytes()
	if err != nil {
		return nil, fmt.Errorf("assemble archive: %w", err)
	}

	entries := []entry{
		{path: ManifestPath, data: []byte(project.ManifestXML)},
		{path: BuildGradlePath, data: []byte(project.BuildGradle)},
		{path: sourcePath, data: []byte(project.MainActivity)},
		{path: IconPath, data: iconBytes},
	}

	data, err := write(entries)
	if err != nil {
		return nil, fmt.Errorf("assemble archive: %w", err)
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.path
	}

	return &Archive{
		FileName: FileName(project.ShortName),
		Data:     data,
		Entries:  names,
	}, nil
}

func write(entries []entry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		method := zip.Deflate
		if e.path == IconPath {
			// PNG data is already compressed
			method = zip.Store
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.path,
			Method:   method,
			Modified: entryTime,
		})
		if err != nil {
			return nil, fmt.Errorf("create entry %s: %w", e.path, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, fmt.Errorf("write entry %s: %w", e.path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	return buf.Bytes(), nil
}
