package thumbnail

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImageThumbnailFitsBounds(t *testing.T) {
	path := writePNG(t, 1280, 800)
	b := Generate(discardLogger(), path, "image/png")
	if b == nil {
		t.Fatal("expected thumbnail bytes for an image")
	}
	img, err := jpeg.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("thumbnail is not valid JPEG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > 320 || bounds.Dy() > 320 {
		t.Fatalf("thumbnail %dx%d exceeds 320x320", bounds.Dx(), bounds.Dy())
	}
	// Aspect ratio preserved: 1280x800 fits to 320x200.
	if bounds.Dx() != 320 || bounds.Dy() != 200 {
		t.Fatalf("expected 320x200, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestVideoPlaceholder(t *testing.T) {
	b := Generate(discardLogger(), "does-not-matter.mp4", "video/mp4")
	if b == nil {
		t.Fatal("expected placeholder thumbnail for video")
	}
	img, err := jpeg.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("placeholder is not valid JPEG: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 320 {
		t.Fatalf("expected 320x320 placeholder, got %v", img.Bounds())
	}
}

func TestNonMediaReturnsNil(t *testing.T) {
	for _, mime := range []string{"application/pdf", "text/plain; charset=utf-8", "audio/mpeg", ""} {
		if b := Generate(discardLogger(), "whatever.bin", mime); b != nil {
			t.Errorf("expected nil thumbnail for %q", mime)
		}
	}
}

func TestCorruptImageSwallowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if b := Generate(discardLogger(), path, "image/png"); b != nil {
		t.Fatal("corrupt image must yield nil, not an error or panic")
	}
	if b := Generate(discardLogger(), filepath.Join(t.TempDir(), "missing.png"), "image/jpeg"); b != nil {
		t.Fatal("missing file must yield nil")
	}
}
