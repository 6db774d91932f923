package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTool(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg-stub")
	require.NoError(t, os.WriteFile(path, []byte(body), 0755))
	return path
}

func writeChunks(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	var paths []string
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("data"), 0644))
		paths = append(paths, p)
	}
	return paths
}

func TestMergeSuccessCleansUp(t *testing.T) {
	root := t.TempDir()
	tool := stubTool(t, "#!/bin/sh\nfor last; do :; done\nprintf merged > \"$last\"\n")
	m := NewMerger(root, tool, time.Minute)

	chunks := writeChunks(t, root, "0000_a_x.webm", "0001_b_y.webm")

	finalPath, err := m.Merge(context.Background(), "sess-1", chunks)
	require.NoError(t, err)
	assert.Equal(t, m.FinalPath("sess-1"), finalPath)
	assert.FileExists(t, finalPath)

	for _, p := range chunks {
		assert.NoFileExists(t, p)
	}
	assert.NoFileExists(t, m.ManifestPath("sess-1"))
}

func TestMergeFailureLeavesArtifacts(t *testing.T) {
	root := t.TempDir()
	tool := stubTool(t, "#!/bin/sh\nexit 1\n")
	m := NewMerger(root, tool, time.Minute)

	chunks := writeChunks(t, root, "0000_a_x.webm")

	_, err := m.Merge(context.Background(), "sess-1", chunks)
	require.Error(t, err)

	// Чанки и манифест остаются для диагностики
	assert.FileExists(t, chunks[0])
	assert.FileExists(t, m.ManifestPath("sess-1"))
}

func TestMergeTimeoutIsFailure(t *testing.T) {
	root := t.TempDir()
	tool := stubTool(t, "#!/bin/sh\nsleep 5\n")
	m := NewMerger(root, tool, 50*time.Millisecond)

	chunks := writeChunks(t, root, "0000_a_x.webm")

	_, err := m.Merge(context.Background(), "sess-1", chunks)
	require.Error(t, err)
	assert.FileExists(t, chunks[0])
}

func TestMergeNoChunksIsError(t *testing.T) {
	m := NewMerger(t.TempDir(), "ffmpeg", time.Minute)

	_, err := m.Merge(context.Background(), "sess-1", nil)
	assert.Error(t, err)
}

func TestWriteManifestEscapesQuotes(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "list.txt")

	err := writeManifest(manifest, []string{
		filepath.Join(dir, "plain.webm"),
		filepath.Join(dir, "with'quote.webm"),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "file '"+filepath.Join(dir, "plain.webm")+"'\n")
	// Кавычка внутри пути не должна ломать формат concat
	assert.Contains(t, text, `with'\''quote.webm`)
}
