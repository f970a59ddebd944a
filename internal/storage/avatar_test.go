package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveKeepsExtension(t *testing.T) {
	s, err := NewAvatarStore(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, err)

	name, err := s.Save(strings.NewReader("png-bytes"), "Me.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.Len(t, name, 36+len(".png"))

	p, err := s.Path(name)
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaveGeneratesDistinctNames(t *testing.T) {
	s, err := NewAvatarStore(t.TempDir())
	require.NoError(t, err)
	a, err := s.Save(strings.NewReader("a"), "a.jpg")
	require.NoError(t, err)
	b, err := s.Save(strings.NewReader("b"), "a.jpg")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPathRejectsTraversalAndMissing(t *testing.T) {
	dir := t.TempDir()
	s, err := NewAvatarStore(filepath.Join(dir, "images"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("x"), 0o644))

	for _, name := range []string{"../secret.txt", "missing.png", "", "/"} {
		_, err := s.Path(name)
		assert.ErrorIs(t, err, ErrNotFound, name)
	}
}
