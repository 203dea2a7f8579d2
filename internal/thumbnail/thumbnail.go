// Package thumbnail derives small JPEG previews for media uploads.
package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
)

// side is the bounding box for generated previews, per Telegram's thumbnail
// size recommendation.
const side = 320

// Generate returns JPEG preview bytes for the file at path, or nil when the
// content type has no preview or generation fails. Thumbnailing is strictly
// best-effort: failures are logged and swallowed, never propagated.
func Generate(log *slog.Logger, path, mime string) []byte {
	switch {
	case strings.HasPrefix(mime, "image/"):
		img, err := imaging.Open(path)
		if err != nil {
			log.Debug("thumbnail_skip", "path", path, "error", err.Error())
			return nil
		}
		return encode(log, imaging.Fit(img, side, side, imaging.Lanczos))
	case strings.HasPrefix(mime, "video/"):
		// No frame extraction; a solid placeholder stands in for video.
		return encode(log, imaging.New(side, side, color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}))
	default:
		return nil
	}
}

func encode(log *slog.Logger, img image.Image) []byte {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		log.Debug("thumbnail_encode_error", "error", err.Error())
		return nil
	}
	return buf.Bytes()
}
