package snapshot

import "time"

// NodeInfo is the last reported state of one node. Records are replaced
// wholesale on every poll, never patched field by field.
type NodeInfo struct {
	Status       string `json:"status,omitempty"`
	RAMFreeBytes *int64 `json:"ram_free_bytes,omitempty"` // nil means not reported
	SDOK         *bool  `json:"sd_ok,omitempty"`          // nil means not reported
	Ck           string `json:"ck,omitempty"`
	Area         string `json:"area,omitempty"`
	No           string `json:"no,omitempty"`
	Updated      string `json:"updated,omitempty"`
}

// FileEntry is one firmware/asset file on the backend file store.
type FileEntry struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadTime time.Time `json:"upload_time"`
}
