package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPathFor(t *testing.T) {
	orig := CLI.Compress
	defer func() { CLI.Compress = orig }()

	CLI.Compress = false
	assert.Equal(t, "data.toon", outputPathFor("data.json"))
	assert.Equal(t, "dir/file.toon", outputPathFor("dir/file.json"))
	assert.Equal(t, "noext.toon", outputPathFor("noext"))

	CLI.Compress = true
	assert.Equal(t, "data.toon.gz", outputPathFor("data.json"))
}

func TestWriteFile_Plain(t *testing.T) {
	orig := CLI.Compress
	defer func() { CLI.Compress = orig }()
	CLI.Compress = false

	path := filepath.Join(t.TempDir(), "out.toon")
	require.NoError(t, writeFile(path, "name: Alice"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: Alice", string(data))
}

func TestWriteFile_Compressed(t *testing.T) {
	orig := CLI.Compress
	defer func() { CLI.Compress = orig }()
	CLI.Compress = true

	path := filepath.Join(t.TempDir(), "out.toon.gz")
	require.NoError(t, writeFile(path, "name: Alice\nage: 30"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "name: Alice\nage: 30", string(data))
}

func TestResolveConfig_InvalidTimeout(t *testing.T) {
	orig := CLI.Timeout
	defer func() { CLI.Timeout = orig }()

	bad := "sideways"
	CLI.Timeout = &bad

	_, err := resolveConfig()
	assert.Error(t, err)
}
