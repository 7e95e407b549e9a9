package scenescan

import (
	"os"
	"path/filepath"
	"testing"

	"chosenoffset.com/sightline/internal/world/maploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "yard.yaml"))
	touch(t, filepath.Join(dir, "hall.json"))
	touch(t, filepath.Join(dir, "stone-atlas.json"))
	touch(t, filepath.Join(dir, ".hidden.json"))
	touch(t, filepath.Join(dir, "notes.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	scenes, err := ScanDirectory(dir)
	require.NoError(t, err)
	require.Len(t, scenes, 2)

	assert.Equal(t, "hall", scenes[0].Name)
	assert.Equal(t, maploader.FormatJSON, scenes[0].Format)
	assert.Equal(t, filepath.Join(dir, "hall.json"), scenes[0].Path)
	assert.Equal(t, "yard", scenes[1].Name)
	assert.Equal(t, maploader.FormatYAML, scenes[1].Format)
}

func TestScanPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hall.json")
	touch(t, file)

	scenes, err := ScanPath(file)
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	assert.Equal(t, "hall", scenes[0].Name)

	scenes, err = ScanPath(dir)
	require.NoError(t, err)
	assert.Len(t, scenes, 1)

	_, err = ScanPath(filepath.Join(dir, "notes.txt"))
	assert.Error(t, err, "missing file")

	txt := filepath.Join(dir, "notes.txt")
	touch(t, txt)
	_, err = ScanPath(txt)
	assert.Error(t, err, "not a scene file")
}

func TestScanTestdata(t *testing.T) {
	scenes, err := ScanDirectory(filepath.Join("..", "maploader", "testdata"))
	require.NoError(t, err)

	var names []string
	for _, s := range scenes {
		names = append(names, s.Name)
		_, err := maploader.LoadMap(s.Path)
		assert.NoError(t, err, s.Path)
	}
	assert.Equal(t, []string{"hall", "yard"}, names)
}
