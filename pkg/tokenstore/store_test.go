package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_MissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "credentials.yaml"), "")

	token, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Equal(t, DefaultKey, s.Key())
}

func TestSaveAndToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.yaml")
	s := New(path, "")

	require.NoError(t, s.Save("aaa.bbb.ccc"))

	token, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "aaa.bbb.ccc", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSave_KeepsOtherEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("other: keep-me\n"), 0600))

	s := New(path, "VL-TK")
	require.NoError(t, s.Save("token-1"))

	other, err := New(path, "other").Token()
	require.NoError(t, err)
	assert.Equal(t, "keep-me", other)
}

func TestSave_EmptyTokenRemovesKey(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "credentials.yaml"), "")
	require.NoError(t, s.Save("token-1"))
	require.NoError(t, s.Save(""))

	token, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestToken_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("VL-TK: [unclosed\n"), 0600))

	_, err := New(path, "").Token()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse token file")
}

func TestToken_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	token, err := New(path, "").Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}
