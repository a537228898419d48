package www

import (
	"net/http"
)

// handleUpload proxies a browser upload through to the backend, then kicks
// the file poller so the new entry shows up without waiting a full cycle.
func (h *Handlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		h.redirectNotice(w, r, "no file selected")
		return
	}
	defer file.Close()

	if err := h.client.Upload(r.Context(), header.Filename, file); err != nil {
		h.redirectNotice(w, r, "upload failed: "+err.Error())
		return
	}
	if h.refreshFiles != nil {
		h.refreshFiles()
	}
	h.redirectNotice(w, r, "uploaded "+header.Filename)
}
