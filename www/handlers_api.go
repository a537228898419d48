package www

import (
	"encoding/json"
	"log"
	"net/http"
)

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("www: json encode error: %v", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (h *Handlers) apiNodes(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, h.nodes.All())
}

func (h *Handlers) apiFiles(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, h.files.List())
}

func (h *Handlers) apiHealth(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]any{
		"status": "ok",
		"nodes":  h.nodes.Len(),
	})
}

func (h *Handlers) apiCommands(w http.ResponseWriter, r *http.Request) {
	records, err := h.db.ListCommands(100)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonOK(w, records)
}
