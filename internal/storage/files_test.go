package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, []string{"pdf", "txt"})
	require.NoError(t, err)

	t.Run("saves allowed file", func(t *testing.T) {
		ref, err := s.Save(context.Background(), "notes.txt", strings.NewReader("hello"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "notes.txt"), ref)

		content, err := os.ReadFile(ref)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(content))
	})

	t.Run("extension casing does not matter", func(t *testing.T) {
		_, err := s.Save(context.Background(), "REPORT.PDF", strings.NewReader("x"))
		assert.NoError(t, err)
	})

	t.Run("rejects disallowed extension before writing", func(t *testing.T) {
		_, err := s.Save(context.Background(), "malware.exe", strings.NewReader("x"))
		require.ErrorIs(t, err, ErrExtensionNotAllowed)

		_, statErr := os.Stat(filepath.Join(dir, "malware.exe"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("strips path components from the name", func(t *testing.T) {
		ref, err := s.Save(context.Background(), "../../escape.txt", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "escape.txt"), ref)
	})
}
