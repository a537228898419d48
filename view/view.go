// Package view projects the snapshot stores into presentational view
// models. It is pure: no I/O, no store mutation, deterministic output for
// a given snapshot. Cards carry action descriptors; invoking the matching
// workflow is the command registry's job, not the renderer's.
package view

import (
	"fmt"
	"html/template"
	"sort"

	"fleetpanel/codec"
	"fleetpanel/identity"
	"fleetpanel/snapshot"
)

// Action describes one activation point on a card: the workflow name and
// the encoded target it applies to.
type Action struct {
	Action string
	Target string
}

// NodeCard is one node's rendered state.
type NodeCard struct {
	ID      string
	Target  string // transport-encoded id for request paths
	Label   template.HTML
	Status  string
	Online  bool
	RAM     string
	SD      string
	Updated string
	Actions []Action
}

// FileRow is one file store entry.
type FileRow struct {
	Name     string
	Target   string // transport-encoded name
	URL      string
	Uploaded string
	Actions  []Action
}

// Page is the full dashboard projection.
type Page struct {
	Online       []NodeCard
	Offline      []NodeCard
	OnlineCount  int
	OfflineCount int
	Files        []FileRow
}

var nodeActions = []string{"ota", "configure", "logs", "delete-node"}
var fileActions = []string{"copy-link", "rename-file", "delete-file"}

// BuildPage partitions nodes by liveness and lays out the file list.
// Nodes are ordered by id lexicographically so output is deterministic.
func BuildPage(nodes map[string]snapshot.NodeInfo, files []snapshot.FileEntry) Page {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var page Page
	for _, id := range ids {
		card := buildCard(id, nodes[id])
		if card.Online {
			page.Online = append(page.Online, card)
		} else {
			page.Offline = append(page.Offline, card)
		}
	}
	page.OnlineCount = len(page.Online)
	page.OfflineCount = len(page.Offline)

	rows := make([]FileRow, 0, len(files))
	for _, f := range files {
		rows = append(rows, buildRow(f))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	page.Files = rows

	return page
}

func buildCard(id string, info snapshot.NodeInfo) NodeCard {
	target := codec.EncodeSegment(id)
	card := NodeCard{
		ID:      id,
		Target:  target,
		Label:   template.HTML(identity.Format(id)),
		Status:  info.Status,
		Online:  snapshot.Classify(info.Status) == snapshot.Online,
		RAM:     formatBytes(info.RAMFreeBytes),
		SD:      formatSD(info.SDOK),
		Updated: info.Updated,
	}
	for _, a := range nodeActions {
		card.Actions = append(card.Actions, Action{Action: a, Target: target})
	}
	return card
}

func buildRow(f snapshot.FileEntry) FileRow {
	target := codec.EncodeSegment(f.Name)
	row := FileRow{
		Name:   f.Name,
		Target: target,
		URL:    f.URL,
	}
	if !f.UploadTime.IsZero() {
		row.Uploaded = f.UploadTime.Format("2006-01-02 15:04:05")
	}
	for _, a := range fileActions {
		row.Actions = append(row.Actions, Action{Action: a, Target: target})
	}
	return row
}

// formatBytes renders a RAM figure the way the devices report it: bytes
// below 1 KiB, then whole KB/MB. A nil figure was never reported; a
// reported zero still shows as "0 B".
func formatBytes(b *int64) string {
	const kb = 1024
	if b == nil {
		return "-"
	}
	v := *b
	switch {
	case v < kb:
		return fmt.Sprintf("%d B", v)
	case v < kb*kb:
		return fmt.Sprintf("%d KB", (v+kb/2)/kb)
	default:
		return fmt.Sprintf("%d MB", (v+kb*kb/2)/(kb*kb))
	}
}

func formatSD(ok *bool) string {
	switch {
	case ok == nil:
		return "not reported"
	case *ok:
		return "ok"
	default:
		return "fail"
	}
}
