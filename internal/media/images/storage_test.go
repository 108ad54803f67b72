package images

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage_SaveGetDelete(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	key := CoverKey("user-a", "9780141036144")
	data := []byte("fake image bytes")

	require.NoError(t, s.Save(key, data))
	require.True(t, s.Exists(key))

	got, err := s.Get(key)
	require.NoError(t, err)
	require.Equal(t, data, got)

	require.NoError(t, s.Delete(key))
	require.False(t, s.Exists(key))

	// Idempotent delete.
	require.NoError(t, s.Delete(key))
}

func TestStorage_KeyLayout(t *testing.T) {
	require.Equal(t, "users/user-a/book_covers/9780141036144.jpg", CoverKey("user-a", "9780141036144"))
	require.Equal(t, "profile_images/user-a/profile.jpg", ProfileKey("user-a"))
}

func TestStorage_RejectsTraversal(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	require.Error(t, s.Save("../outside.jpg", []byte("x")))
	_, err = s.Get("/etc/passwd")
	require.Error(t, err)
}

func TestStorage_EmptyDataRejected(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	require.Error(t, s.Save(CoverKey("u", "i"), nil))
}

func TestStorage_GetMissing(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(CoverKey("user-a", "missing"))
	require.Error(t, err)
}

func TestStorage_Hash(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	key := ProfileKey("user-a")
	require.NoError(t, s.Save(key, []byte("image")))

	h1, err := s.Hash(key)
	require.NoError(t, err)
	require.Len(t, h1, 64)

	h2, err := s.Hash(key)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}
