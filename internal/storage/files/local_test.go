package files_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/files"
)

func TestLocal(t *testing.T) {
	base := t.TempDir()
	store, err := files.NewLocal(config.Storage{BasePath: base, MaxFileSize: 8})
	require.NoError(t, err)

	t.Run("Should save and open a file", func(t *testing.T) {
		n, err := store.Save("form-attachments/mouse.png", strings.NewReader("12345678"))
		require.NoError(t, err)
		assert.Equal(t, int64(8), n)

		f, err := store.Open("form-attachments/mouse.png")
		require.NoError(t, err)
		defer f.Close()

		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "12345678", string(data))
	})

	t.Run("Should reject oversized files and keep the old one", func(t *testing.T) {
		_, err := store.Save("form-attachments/mouse.png", strings.NewReader("123456789"))
		assert.ErrorIs(t, err, files.ErrFileTooLarge)

		data, err := os.ReadFile(filepath.Join(base, "form-attachments", "mouse.png"))
		require.NoError(t, err)
		assert.Equal(t, "12345678", string(data))
	})

	t.Run("Should leave nothing behind when a staged upload is discarded", func(t *testing.T) {
		p, err := store.Stage("form-attachments/keyboard.png", strings.NewReader("abc"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), p.Size())

		require.NoError(t, p.Discard())

		_, err = store.Open("form-attachments/keyboard.png")
		assert.ErrorIs(t, err, os.ErrNotExist)

		entries, err := os.ReadDir(filepath.Join(base, "form-attachments"))
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), "upload-"), e.Name())
		}
	})

	t.Run("Should publish a staged upload on commit", func(t *testing.T) {
		p, err := store.Stage("form-attachments/keyboard.png", strings.NewReader("abc"))
		require.NoError(t, err)

		_, err = store.Open("form-attachments/keyboard.png")
		require.ErrorIs(t, err, os.ErrNotExist)

		require.NoError(t, p.Commit())
		require.NoError(t, p.Discard())

		data, err := os.ReadFile(filepath.Join(base, "form-attachments", "keyboard.png"))
		require.NoError(t, err)
		assert.Equal(t, "abc", string(data))
	})

	t.Run("Should reject paths outside the base directory", func(t *testing.T) {
		_, err := store.Save("../escape.txt", strings.NewReader("x"))
		assert.ErrorIs(t, err, files.ErrInvalidPath)

		_, err = store.Open("../../etc/passwd")
		assert.ErrorIs(t, err, files.ErrInvalidPath)
	})

	t.Run("Should fail to open missing file", func(t *testing.T) {
		_, err := store.Open("form-attachments/missing.png")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
