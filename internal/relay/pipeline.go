package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/rv-sl/upbot/internal/fetch"
	"github.com/rv-sl/upbot/internal/thumbnail"
)

// fallbackName labels uploads whose URL has no usable path segment.
const fallbackName = "downloaded_file"

// Pipeline executes one relay job end to end: fetch, thumbnail, upload,
// status bookkeeping, temp cleanup. Run is called from pool workers.
type Pipeline struct {
	log     *slog.Logger
	m       Messenger
	fetcher *fetch.Fetcher
}

func NewPipeline(log *slog.Logger, m Messenger, fetcher *fetch.Fetcher) *Pipeline {
	return &Pipeline{log: log, m: m, fetcher: fetcher}
}

// Run processes the job to completion. Every exit path either never created
// a temp file or removes it; the status message ends deleted on success or
// edited with the failure text otherwise.
func (p *Pipeline) Run(job Job) {
	log := p.log.With("job_id", job.ID, "chat_id", job.ChatID, "user_id", job.UserID, "url", job.URL)

	res, err := p.fetcher.Fetch(context.Background(), job.URL, func(pct float64) {
		p.editStatus(log, job, fmt.Sprintf("Downloading... %d%%", int(pct)))
	})
	if err != nil {
		log.Error("fetch_error", "error", err.Error())
		p.editStatus(log, job, fetchFailureText(err))
		return
	}
	defer os.Remove(res.Path)

	log.Info("fetch_done", "mime", res.MIME, "bytes", res.Size, "path", res.Path)

	thumb := thumbnail.Generate(log, res.Path, res.MIME)

	p.editStatus(log, job, fmt.Sprintf("Uploading to Telegram... (File size: %.2f MB)", float64(res.Size)/1024/1024))

	media := Media{
		Path:    res.Path,
		Caption: "Downloaded: " + uploadName(job.URL),
		Thumb:   thumb,
	}
	if err := p.upload(job.ChatID, res.MIME, media); err != nil {
		log.Error("upload_error", "mime", res.MIME, "error", err.Error())
		p.editStatus(log, job, "Error uploading file: "+err.Error())
		return
	}

	if err := p.m.DeleteMessage(job.ChatID, job.StatusMsgID); err != nil {
		log.Warn("status_delete_error", "error", err.Error())
	}
	log.Info("upload_done", "mime", res.MIME, "bytes", res.Size)
}

// upload routes by sniffed MIME prefix, never by URL extension or transport
// headers.
func (p *Pipeline) upload(chatID int64, mime string, media Media) error {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return p.m.SendPhoto(chatID, media)
	case strings.HasPrefix(mime, "video/"):
		return p.m.SendVideo(chatID, media)
	case strings.HasPrefix(mime, "audio/"):
		return p.m.SendAudio(chatID, media)
	default:
		return p.m.SendDocument(chatID, media)
	}
}

func (p *Pipeline) editStatus(log *slog.Logger, job Job, text string) {
	if err := p.m.EditText(job.ChatID, job.StatusMsgID, text); err != nil {
		log.Debug("status_edit_error", "error", err.Error())
	}
}

// fetchFailureText maps fetch error kinds to the user-facing message. Raw
// internals stay in the logs.
func fetchFailureText(err error) string {
	var se *fetch.StatusError
	switch {
	case errors.Is(err, fetch.ErrTooLarge):
		return "Error: file is too large for this bot."
	case errors.As(err, &se):
		return fmt.Sprintf("Error: download failed (HTTP %d).", se.Code)
	default:
		return "Error: download failed: " + err.Error()
	}
}

// uploadName derives the caption file name from the URL path basename.
func uploadName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallbackName
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return fallbackName
	}
	return name
}
