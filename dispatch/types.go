package dispatch

import (
	"context"

	"fleetpanel/backend"
)

// Action names, as used by the renderer's action descriptors, the command
// registry, and the audit log.
const (
	ActionConfigure  = "configure"
	ActionOTA        = "ota"
	ActionDeleteNode = "delete-node"
	ActionDeleteFile = "delete-file"
	ActionRenameFile = "rename-file"
	ActionCopyLink   = "copy-link"
	ActionLogs       = "logs"
)

// Outcome is the terminal state of one workflow run.
type Outcome string

const (
	// OutcomeOK: the request was sent and the backend accepted it.
	OutcomeOK Outcome = "ok"
	// OutcomeCancelled: the operator aborted during collect. No request
	// was sent and no state changed.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeFailed: validation failed, or the backend rejected the
	// request, or transport failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeNoop: the workflow decided nothing needed sending (e.g.
	// rename to the same name).
	OutcomeNoop Outcome = "noop"
	// OutcomeBusy: an identical command is still in flight.
	OutcomeBusy Outcome = "busy"
)

// Result is what a workflow hands back for the Interpret step: a user
// notice plus workflow-specific payload.
type Result struct {
	Outcome Outcome
	Message string
	// CopyText carries the link text when the clipboard was unavailable
	// and the operator has to copy manually.
	CopyText string
	// Logs carries the fetched log lines for the logs workflow.
	Logs []string
}

func (r Result) OK() bool { return r.Outcome == OutcomeOK }

// Prompter collects workflow input one field at a time. Returning ok=false
// cancels the whole workflow; answers already given are discarded.
type Prompter interface {
	Prompt(label, preset string) (value string, ok bool)
	Confirm(message string) bool
}

// Clipboard abstracts the copy-link target. Write failing (or a nil
// clipboard) routes the link through the manual-copy fallback.
type Clipboard interface {
	Write(text string) error
}

// Backend is the slice of the backend client the dispatcher needs.
// *backend.Client satisfies it.
type Backend interface {
	PushConfig(ctx context.Context, p backend.ConfigPayload) error
	TriggerOTA(ctx context.Context, node, url string) error
	DeleteNode(ctx context.Context, id string) error
	DeleteFile(ctx context.Context, name string) error
	RenameFile(ctx context.Context, name, newName string) error
	FetchLogs(ctx context.Context, id string) ([]string, error)
}

// Recorder persists a finished command to the audit log. *store.DB
// satisfies it.
type Recorder interface {
	RecordCommand(commandID, action, target, actor, outcome, detail string) error
}

// EventSink receives finished commands for export. *events.Emitter
// satisfies it via an adapter in main.
type EventSink interface {
	CommandFinished(commandID, action, target, actor, outcome, detail string)
}

// SequencePrompter replays a fixed list of answers in order, then cancels.
// It backs both the web form path (answers come from the submitted form,
// in collect order) and tests.
type SequencePrompter struct {
	Answers   []string
	Confirmed bool

	// Recorded collect activity, for assertions and form echo.
	Labels  []string
	Presets []string

	next int
}

func (p *SequencePrompter) Prompt(label, preset string) (string, bool) {
	p.Labels = append(p.Labels, label)
	p.Presets = append(p.Presets, preset)
	if p.next >= len(p.Answers) {
		return "", false
	}
	v := p.Answers[p.next]
	p.next++
	return v, true
}

func (p *SequencePrompter) Confirm(string) bool { return p.Confirmed }
