package fetch

import (
	"net/http"

	"github.com/gabriel-vasile/mimetype"
)

// detectMIME sniffs a media type from leading content bytes. Stdlib
// detection runs first; the broader mimetype library is the fallback when
// stdlib answers with the generic octet-stream type.
func detectMIME(head []byte) string {
	if len(head) == 0 {
		return "application/octet-stream"
	}
	mt := http.DetectContentType(head)
	if mt != "application/octet-stream" {
		return mt
	}
	return mimetype.Detect(head).String()
}
