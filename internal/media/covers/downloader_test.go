package covers

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exlibrismoi/exlibris-server/internal/media/images"
)

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 15))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func newTestDownloader(t *testing.T) (*Downloader, *images.Storage) {
	t.Helper()
	storage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)
	return NewDownloader(storage, slog.New(slog.DiscardHandler)), storage
}

func TestDownloader_Download(t *testing.T) {
	imgData := testJPEG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(imgData)
	}))
	defer srv.Close()

	d, storage := newTestDownloader(t)

	result, err := d.Download(context.Background(), "user-a", "9780141036144", srv.URL)
	require.NoError(t, err)
	require.Equal(t, images.CoverKey("user-a", "9780141036144"), result.Key)
	require.NotEmpty(t, result.BlurHash)
	require.True(t, storage.Exists(result.Key))
}

func TestDownloader_Download_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	d, storage := newTestDownloader(t)

	_, err := d.Download(context.Background(), "user-a", "9780141036144", srv.URL)
	require.Error(t, err)
	require.False(t, storage.Exists(images.CoverKey("user-a", "9780141036144")))
}

func TestDownloader_Download_EmptyURL(t *testing.T) {
	d, _ := newTestDownloader(t)

	_, err := d.Download(context.Background(), "user-a", "isbn", "")
	require.Error(t, err)
}

func TestDownloader_Download_NonImageStillStored(t *testing.T) {
	// A body that isn't a decodable image is still stored; only the
	// blurhash is skipped.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	d, storage := newTestDownloader(t)

	result, err := d.Download(context.Background(), "user-a", "9780141036144", srv.URL)
	require.NoError(t, err)
	require.Empty(t, result.BlurHash)
	require.True(t, storage.Exists(result.Key))
}
