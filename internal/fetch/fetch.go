// Package fetch streams remote resources into temporary files and sniffs
// their content type from the leading bytes.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"
)

const (
	// sniffLen is how many leading bytes are kept for MIME detection.
	sniffLen = 2048

	// DefaultProgressInterval caps how often the progress callback fires,
	// so status-message edits don't flood the Telegram API.
	DefaultProgressInterval = 2 * time.Second
)

// ErrTooLarge is returned when the resource exceeds the configured size cap,
// whether declared via Content-Length or discovered while streaming.
var ErrTooLarge = errors.New("file exceeds size limit")

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

// Result describes a completed download. The caller owns Path and must
// remove it when done.
type Result struct {
	Path string
	MIME string
	Size int64
}

// Fetcher downloads resources over HTTP with a size cap and a read timeout.
type Fetcher struct {
	client           *http.Client
	maxSize          int64
	progressInterval time.Duration
}

// New creates a Fetcher. timeout bounds the whole GET including body reads;
// maxSize caps the downloaded byte count.
func New(timeout time.Duration, maxSize int64) *Fetcher {
	return &Fetcher{
		client:           &http.Client{Timeout: timeout},
		maxSize:          maxSize,
		progressInterval: DefaultProgressInterval,
	}
}

// Fetch streams rawURL into a fresh temp file and returns its path together
// with the MIME type sniffed from the first bytes of the body. onProgress
// (optional) receives download percentages when the response declares a
// length, rate-limited to one call per progress interval plus a final 100.
// On any error no temp file is left behind.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, onProgress func(pct float64)) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	declared := resp.ContentLength
	if declared > f.maxSize {
		return nil, ErrTooLarge
	}

	tmpf, err := os.CreateTemp("", "upbot-*"+urlExt(rawURL))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpf.Name()

	pw := &progressWriter{
		total:    declared,
		callback: onProgress,
		interval: f.progressInterval,
	}
	// N = maxSize+1 so an unlabeled oversized body is detectable: anything
	// past the cap means the response was too large.
	lr := &io.LimitedReader{R: resp.Body, N: f.maxSize + 1}
	written, err := io.Copy(tmpf, io.TeeReader(lr, pw))
	if err != nil {
		tmpf.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("download failed: %w", err)
	}
	if written > f.maxSize {
		tmpf.Close()
		os.Remove(tmpPath)
		return nil, ErrTooLarge
	}
	if err := tmpf.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if onProgress != nil && declared > 0 {
		onProgress(100)
	}

	return &Result{Path: tmpPath, MIME: detectMIME(pw.Head()), Size: written}, nil
}

// urlExt extracts the file extension from the URL path, if any, so the temp
// file keeps the original suffix.
func urlExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}

// progressWriter counts bytes flowing through it, keeps the head for MIME
// sniffing, and emits throttled percentage callbacks.
type progressWriter struct {
	head     []byte
	total    int64
	written  int64
	callback func(float64)
	interval time.Duration
	last     time.Time
}

func (w *progressWriter) Write(p []byte) (int, error) {
	if len(w.head) < sniffLen {
		need := sniffLen - len(w.head)
		if need > len(p) {
			need = len(p)
		}
		w.head = append(w.head, p[:need]...)
	}
	w.written += int64(len(p))
	if w.callback != nil && w.total > 0 {
		if now := time.Now(); now.Sub(w.last) >= w.interval {
			w.last = now
			w.callback(float64(w.written) / float64(w.total) * 100)
		}
	}
	return len(p), nil
}

func (w *progressWriter) Head() []byte { return w.head }
