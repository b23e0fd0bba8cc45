package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	put, err := s.Put("plasma", "void mainImage(){}")
	require.NoError(t, err)

	got, err := s.Get("plasma")
	require.NoError(t, err)
	assert.Equal(t, "plasma", got.Name)
	assert.Equal(t, "void mainImage(){}", got.Code)
	assert.Equal(t, put.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestPutPreservesCreatedAt(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	first, err := s.Put("rec", "v1")
	require.NoError(t, err)

	second, err := s.Put("rec", "v2")
	require.NoError(t, err)

	// Compare instants: the second CreatedAt round-trips through JSON and
	// comes back in UTC without the monotonic reading.
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt), "CreatedAt must survive updates")
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	got, err := s.Get("rec")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Code)
}

func TestDelete(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put("doomed", "x")
	require.NoError(t, err)
	require.NoError(t, s.Delete("doomed"))

	_, err = s.Get("doomed")
	assert.Error(t, err)
	assert.Error(t, s.Delete("doomed"), "deleting a missing record is an error")
}

func TestListSorted(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := s.Put(name, "x")
		require.NoError(t, err)
	}

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestInvalidNamesRejected(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../escape", "a/b", ".hidden", "spaces here"} {
		_, err := s.Put(name, "x")
		assert.Error(t, err, "name %q must be rejected", name)
		_, err = s.Get(name)
		assert.Error(t, err)
		assert.Error(t, s.Delete(name))
	}
}
