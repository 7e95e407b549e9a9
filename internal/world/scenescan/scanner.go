// Package scenescan discovers scene files on disk.
package scenescan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chosenoffset.com/sightline/internal/world/maploader"
	"github.com/pkg/errors"
)

// SceneEntry represents a discoverable scene file
type SceneEntry struct {
	Name   string           // Display name (file name without extension)
	Path   string           // Path to the scene file
	Format maploader.Format // Encoding picked from the extension
}

// ScanPath returns the scenes at path. A file is returned as the only
// entry; a directory is scanned with ScanDirectory.
func ScanPath(path string) ([]SceneEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat scene path")
	}
	if info.IsDir() {
		return ScanDirectory(path)
	}
	if !isSceneFile(path) {
		return nil, errors.Errorf("%s is not a JSON or YAML file", path)
	}
	return []SceneEntry{entryFor(path)}, nil
}

// ScanDirectory lists the scene files in dir sorted by name. Atlas files and
// hidden files are skipped.
func ScanDirectory(dir string) ([]SceneEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scene directory")
	}

	var scenes []SceneEntry
	for _, entry := range entries {
		// Skip directories
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") || strings.Contains(strings.ToLower(name), "atlas") {
			continue
		}
		path := filepath.Join(dir, name)
		if !isSceneFile(path) {
			continue
		}
		scenes = append(scenes, entryFor(path))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

func isSceneFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func entryFor(path string) SceneEntry {
	base := filepath.Base(path)
	return SceneEntry{
		Name:   strings.TrimSuffix(base, filepath.Ext(base)),
		Path:   path,
		Format: maploader.FormatFor(path),
	}
}
