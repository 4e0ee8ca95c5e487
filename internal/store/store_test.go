package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_MemoryOnly(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("@site")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("@site", `{"id":"S1"}`))
	v, ok, err := s.Get("@site")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"S1"}`, v)

	require.NoError(t, s.Delete("@site"))
	_, ok, _ = s.Get("@site")
	assert.False(t, ok)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iplay.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("@site", "first"))
	require.NoError(t, s.Set("@site", "second"))
	require.NoError(t, s.Set("@sites", "[]"))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("@site")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", v, "last write wins")

	v, ok, err = reopened.Get("@sites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestStore_DeleteMissingKey(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "iplay.db"))
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Delete("never-set"))
}
