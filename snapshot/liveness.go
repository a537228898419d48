package snapshot

import "strings"

// State is a node's liveness classification.
type State int

const (
	Online State = iota
	Offline
)

func (s State) String() string {
	if s == Offline {
		return "offline"
	}
	return "online"
}

// Classify maps a reported status string to Online or Offline. The backend
// is authoritative: only a status equal to "offline" (case-insensitive)
// classifies as Offline. Every other value — "online", "running", "unknown",
// empty, absent — counts as Online, so nodes with unreported status are
// never hidden from the operator.
func Classify(status string) State {
	if strings.EqualFold(status, "offline") {
		return Offline
	}
	return Online
}
