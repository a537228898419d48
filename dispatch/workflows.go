package dispatch

import (
	"context"
	"math"
	"strconv"
	"strings"

	"fleetpanel/backend"
)

// Configure collects min → max → ck → area → no and pushes a threshold
// configuration. The ck/area/no prompts are pre-filled from the node's
// last known state in the snapshot store; a node missing from the store is
// a terminal, visible failure.
func (d *Dispatcher) Configure(ctx context.Context, p Prompter, actor, nodeID string) Result {
	if !d.begin(ActionConfigure, nodeID) {
		return busyResult(ActionConfigure)
	}
	defer d.end(ActionConfigure, nodeID)

	info, found := d.nodes.Get(nodeID)
	if !found {
		return d.finish(ActionConfigure, nodeID, actor,
			Result{Outcome: OutcomeFailed, Message: "node not found: " + nodeID}, nil)
	}

	minStr, ok := p.Prompt("Set min temperature (°C)", "16")
	if !ok {
		return Result{Outcome: OutcomeCancelled}
	}
	maxStr, ok := p.Prompt("Set max temperature (°C)", "20")
	if !ok {
		return Result{Outcome: OutcomeCancelled}
	}
	ck, ok := p.Prompt("Set ck", info.Ck)
	if !ok {
		return Result{Outcome: OutcomeCancelled}
	}
	area, ok := p.Prompt("Set area", info.Area)
	if !ok {
		return Result{Outcome: OutcomeCancelled}
	}
	no, ok := p.Prompt("Set no", info.No)
	if !ok {
		return Result{Outcome: OutcomeCancelled}
	}

	minVal, err := parseFinite(minStr)
	if err != nil {
		return d.finish(ActionConfigure, nodeID, actor,
			Result{Outcome: OutcomeFailed, Message: "min must be a number"}, nil)
	}
	maxVal, err := parseFinite(maxStr)
	if err != nil {
		return d.finish(ActionConfigure, nodeID, actor,
			Result{Outcome: OutcomeFailed, Message: "max must be a number"}, nil)
	}

	payload := backend.ConfigPayload{
		Node: nodeID,
		Min:  minVal,
		Max:  maxVal,
		Ck:   ck,
		Area: area,
		No:   no,
	}
	if err := d.backend.PushConfig(ctx, payload); err != nil {
		return d.finish(ActionConfigure, nodeID, actor,
			Result{Outcome: OutcomeFailed, Message: userMessage(err)}, nil)
	}
	return d.finish(ActionConfigure, nodeID, actor,
		Result{Outcome: OutcomeOK, Message: "configuration sent"}, d.refreshNodes)
}

// OTA collects a firmware URL and triggers an over-the-air update. The
// only validation is non-emptiness; an empty answer cancels like a prompt
// abort does.
func (d *Dispatcher) OTA(ctx context.Context, p Prompter, actor, nodeID string) Result {
	if !d.begin(ActionOTA, nodeID) {
		return busyResult(ActionOTA)
	}
	defer d.end(ActionOTA, nodeID)

	url, ok := p.Prompt("Firmware URL", "")
	if !ok || strings.TrimSpace(url) == "" {
		return Result{Outcome: OutcomeCancelled}
	}

	if err := d.backend.TriggerOTA(ctx, nodeID, url); err != nil {
		return d.finish(ActionOTA, nodeID, actor,
			Result{Outcome: OutcomeFailed, Message: userMessage(err)}, nil)
	}
	return d.finish(ActionOTA, nodeID, actor,
		Result{Outcome: OutcomeOK, Message: "OTA triggered"}, d.refreshNodes)
}

// DeleteNode confirms and removes one node record from the backend.
func (d *Dispatcher) DeleteNode(ctx context.Context, p Prompter, actor, nodeID string) Result {
	if !d.begin(ActionDeleteNode, nodeID) {
		return busyResult(ActionDeleteNode)
	}
	defer d.end(ActionDeleteNode, nodeID)

	if !p.Confirm("Delete node " + nodeID + "?") {
		return Result{Outcome: OutcomeCancelled}
	}

	if err := d.backend.DeleteNode(ctx, nodeID); err != nil {
		return d.finish(ActionDeleteNode, nodeID, actor,
			Result{Outcome: OutcomeFailed, Message: userMessage(err)}, nil)
	}
	return d.finish(ActionDeleteNode, nodeID, actor,
		Result{Outcome: OutcomeOK, Message: "deleted " + nodeID}, d.refreshNodes)
}

// DeleteFile confirms and removes one file from the backend store.
func (d *Dispatcher) DeleteFile(ctx context.Context, p Prompter, actor, name string) Result {
	if !d.begin(ActionDeleteFile, name) {
		return busyResult(ActionDeleteFile)
	}
	defer d.end(ActionDeleteFile, name)

	if !p.Confirm("Delete file " + name + "?") {
		return Result{Outcome: OutcomeCancelled}
	}

	if err := d.backend.DeleteFile(ctx, name); err != nil {
		return d.finish(ActionDeleteFile, name, actor,
			Result{Outcome: OutcomeFailed, Message: userMessage(err)}, nil)
	}
	return d.finish(ActionDeleteFile, name, actor,
		Result{Outcome: OutcomeOK, Message: "deleted " + name}, d.refreshFiles)
}

// RenameFile collects a new name and renames. An empty or unchanged name
// is a no-op: no request is sent at all.
func (d *Dispatcher) RenameFile(ctx context.Context, p Prompter, actor, name string) Result {
	if !d.begin(ActionRenameFile, name) {
		return busyResult(ActionRenameFile)
	}
	defer d.end(ActionRenameFile, name)

	newName, ok := p.Prompt("New name for "+name, name)
	if !ok {
		return Result{Outcome: OutcomeCancelled}
	}
	if newName == "" || newName == name {
		return Result{Outcome: OutcomeNoop}
	}

	if err := d.backend.RenameFile(ctx, name, newName); err != nil {
		return d.finish(ActionRenameFile, name, actor,
			Result{Outcome: OutcomeFailed, Message: userMessage(err)}, nil)
	}
	return d.finish(ActionRenameFile, name, actor,
		Result{Outcome: OutcomeOK, Message: "renamed to " + newName}, d.refreshFiles)
}

// CopyLink builds the fully-qualified download URL and puts it on the
// clipboard. When no clipboard is available the link is handed back for
// manual copy, which still leaves the operator with pasteable text.
func (d *Dispatcher) CopyLink(actor, fileURL string) Result {
	link := d.publicBase + fileURL

	if d.clipboard != nil {
		if err := d.clipboard.Write(link); err == nil {
			return d.finish(ActionCopyLink, fileURL, actor,
				Result{Outcome: OutcomeOK, Message: "link copied: " + link}, nil)
		}
	}
	return d.finish(ActionCopyLink, fileURL, actor,
		Result{Outcome: OutcomeOK, Message: "copy the link below", CopyText: link}, nil)
}

// Logs fetches the bounded log tail for one node. An unknown node and an
// empty log are presented identically — both come back as no lines.
func (d *Dispatcher) Logs(ctx context.Context, actor, nodeID string) Result {
	if !d.begin(ActionLogs, nodeID) {
		return busyResult(ActionLogs)
	}
	defer d.end(ActionLogs, nodeID)

	lines, err := d.backend.FetchLogs(ctx, nodeID)
	if err != nil {
		if isNotFound(err) {
			return Result{Outcome: OutcomeOK, Logs: nil}
		}
		return Result{Outcome: OutcomeFailed, Message: userMessage(err)}
	}
	return Result{Outcome: OutcomeOK, Logs: lines}
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
