package httpx

import (
	"fmt"
	"io"
	"mime"
	"net/http"
)

// Download streams body to w as a file attachment named filename. An empty
// contentType is sent as application/octet-stream.
func Download(w http.ResponseWriter, filename, contentType string, body io.Reader) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}

	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", disposition)
	h.Set("X-Content-Type-Options", "nosniff")

	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		return fmt.Errorf("write download %q: %w", filename, err)
	}

	return nil
}
