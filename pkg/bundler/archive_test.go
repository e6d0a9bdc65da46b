package bundler

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshua-decoder/joshua-bundle/pkg/errors"
)

func TestWriteArchive(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "fr-en")
	writeFile(t, filepath.Join(bundle, ConfigFileName), "weights-file = weights\n")
	writeFile(t, filepath.Join(bundle, "weights"), "lm_0 1.0\n")
	writeFile(t, filepath.Join(bundle, "grammar.packed", "vocabulary"), "vocab")
	writeFile(t, filepath.Join(bundle, LauncherFileName), "#!/bin/bash\n")
	require.NoError(t, os.Chmod(filepath.Join(bundle, LauncherFileName), LauncherMode))

	archive := filepath.Join(t.TempDir(), "fr-en.zip")
	require.NoError(t, WriteArchive(context.Background(), bundle, archive))

	zr, err := zip.OpenReader(archive)
	require.NoError(t, err)
	defer zr.Close()

	entries := make(map[string]*zip.File)
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	for _, name := range []string{
		"fr-en/",
		"fr-en/" + ConfigFileName,
		"fr-en/weights",
		"fr-en/grammar.packed/",
		"fr-en/grammar.packed/vocabulary",
		"fr-en/" + LauncherFileName,
	} {
		assert.Contains(t, entries, name)
	}

	launcher := entries["fr-en/"+LauncherFileName]
	require.NotNil(t, launcher)
	assert.Equal(t, os.FileMode(LauncherMode), launcher.Mode().Perm())

	rc, err := entries["fr-en/weights"].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "lm_0 1.0\n", string(data))
}

func TestWriteArchive_InsideBundle(t *testing.T) {
	bundle := t.TempDir()
	writeFile(t, filepath.Join(bundle, "weights"), "w")

	err := WriteArchive(context.Background(), bundle, filepath.Join(bundle, "bundle.zip"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))

	_, statErr := os.Stat(filepath.Join(bundle, "bundle.zip"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteArchive_MissingBundle(t *testing.T) {
	err := WriteArchive(context.Background(), filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "out.zip"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInternal, errors.CodeOf(err))
}
