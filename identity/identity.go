// Package identity derives human-readable labels from raw node identifiers.
//
// Device ids arrive as "<site>-<area>-<12 hex chars>" where the tail is the
// hardware address the firmware burned into the id. The label splits that
// into a site path and a colon-grouped MAC.
package identity

import (
	"strings"

	"fleetpanel/codec"
)

const hwAddrLen = 12

// Format turns a raw node id into a display label: the last 12 characters
// regrouped as colon-separated byte pairs, prefixed by the rest of the id
// with hyphens converted to path separators.
//
// Ids shorter than 12 characters are returned as-is. Output is always
// escaped for markup embedding.
func Format(id string) string {
	if len(id) < hwAddrLen {
		return codec.EscapeMarkup(id)
	}

	suffix := id[len(id)-hwAddrLen:]
	var mac strings.Builder
	for i := 0; i < hwAddrLen; i += 2 {
		if i > 0 {
			mac.WriteByte(':')
		}
		mac.WriteString(suffix[i : i+2])
	}

	prefix := strings.ReplaceAll(id[:len(id)-hwAddrLen], "-", "/")
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return codec.EscapeMarkup(mac.String())
	}
	return codec.EscapeMarkup(prefix + " - " + mac.String())
}
