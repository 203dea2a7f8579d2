package fetch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetchSniffsTypeAndSize(t *testing.T) {
	body := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Misleading header and URL extension; the sniffer must win.
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := New(5*time.Second, 1<<20)
	res, err := f.Fetch(context.Background(), srv.URL+"/file.txt", nil)
	require.NoError(t, err)
	defer os.Remove(res.Path)

	assert.Equal(t, "image/png", res.MIME)
	assert.Equal(t, int64(len(body)), res.Size)
	assert.Equal(t, ".txt", filepath.Ext(res.Path))

	got, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestFetchDeclaredTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1048576")
		_, _ = w.Write(bytes.Repeat([]byte("x"), 1048576))
	}))
	defer srv.Close()

	f := New(5*time.Second, 1024)
	_, err := f.Fetch(context.Background(), srv.URL+"/big.declared", nil)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Zero(t, tempFileCount(t, ".declared"), "no temp file may be left behind")
}

func TestFetchUnlabeledTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Chunked response with no Content-Length, bigger than the cap.
		fl := w.(http.Flusher)
		chunk := bytes.Repeat([]byte("y"), 512)
		for i := 0; i < 10; i++ {
			_, _ = w.Write(chunk)
			fl.Flush()
		}
	}))
	defer srv.Close()

	f := New(5*time.Second, 1024)
	_, err := f.Fetch(context.Background(), srv.URL+"/big.unlabeled", nil)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Zero(t, tempFileCount(t, ".unlabeled"), "partial temp file must be removed")
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(5*time.Second, 1<<20)
	_, err := f.Fetch(context.Background(), srv.URL, nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestFetchProgressReachesCompletion(t *testing.T) {
	body := bytes.Repeat([]byte("z"), 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := New(5*time.Second, 1<<20)
	var last float64
	res, err := f.Fetch(context.Background(), srv.URL, func(pct float64) { last = pct })
	require.NoError(t, err)
	defer os.Remove(res.Path)
	assert.Equal(t, float64(100), last)
}

func TestDetectMIMEFallback(t *testing.T) {
	// Leading zeros defeat stdlib sniffing; the mimetype fallback still
	// answers with something sensible.
	got := detectMIME(make([]byte, 64))
	assert.NotEmpty(t, got)
	if got == "application/octet-stream" {
		t.Logf("fallback stayed generic: %s", got)
	}
	assert.Equal(t, "application/octet-stream", detectMIME(nil))
}

// tempFileCount counts upbot temp files with the given extension in the OS
// temp dir. Each caller uses an extension unique to its test so counts don't
// race with other packages' downloads.
func tempFileCount(t *testing.T, ext string) int {
	t.Helper()
	entries, err := os.ReadDir(os.TempDir())
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "upbot-") && strings.HasSuffix(e.Name(), ext) {
			n++
		}
	}
	return n
}
