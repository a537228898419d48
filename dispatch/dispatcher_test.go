package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fleetpanel/backend"
	"fleetpanel/snapshot"
)

// --- Mock backend ---

type call struct {
	method string
	args   []string
}

type mockBackend struct {
	mu    sync.Mutex
	calls []call
	err   error
	logs  []string
}

func (m *mockBackend) record(method string, args ...string) {
	m.mu.Lock()
	m.calls = append(m.calls, call{method, args})
	m.mu.Unlock()
}

func (m *mockBackend) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockBackend) PushConfig(_ context.Context, p backend.ConfigPayload) error {
	m.record("PushConfig", p.Node, p.Ck, p.Area, p.No)
	return m.err
}
func (m *mockBackend) TriggerOTA(_ context.Context, node, url string) error {
	m.record("TriggerOTA", node, url)
	return m.err
}
func (m *mockBackend) DeleteNode(_ context.Context, id string) error {
	m.record("DeleteNode", id)
	return m.err
}
func (m *mockBackend) DeleteFile(_ context.Context, name string) error {
	m.record("DeleteFile", name)
	return m.err
}
func (m *mockBackend) RenameFile(_ context.Context, name, newName string) error {
	m.record("RenameFile", name, newName)
	return m.err
}
func (m *mockBackend) FetchLogs(_ context.Context, id string) ([]string, error) {
	m.record("FetchLogs", id)
	return m.logs, m.err
}

// --- Mock recorder / sink / clipboard ---

type mockRecorder struct {
	records []string // action:outcome
}

func (m *mockRecorder) RecordCommand(_, action, _, _, outcome, _ string) error {
	m.records = append(m.records, action+":"+outcome)
	return nil
}

type mockClipboard struct {
	written []string
	err     error
}

func (m *mockClipboard) Write(text string) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, text)
	return nil
}

// --- Helpers ---

type counters struct {
	nodes, files int
}

func newTestDispatcher(b Backend, nodes map[string]snapshot.NodeInfo) (*Dispatcher, *counters, *mockRecorder) {
	store := snapshot.NewNodeStore()
	store.Replace(nodes)
	cnt := &counters{}
	rec := &mockRecorder{}
	d := New(Config{
		Nodes:        store,
		Backend:      b,
		Recorder:     rec,
		PublicBase:   "http://panel.local",
		RefreshNodes: func() { cnt.nodes++ },
		RefreshFiles: func() { cnt.files++ },
	})
	return d, cnt, rec
}

// --- Configure ---

func TestConfigurePrefillsFromStore(t *testing.T) {
	b := &mockBackend{}
	d, cnt, _ := newTestDispatcher(b, map[string]snapshot.NodeInfo{
		"n1": {Status: "online", Ck: "x", Area: "y", No: "1"},
	})

	p := &SequencePrompter{Answers: []string{"16", "20", "x", "y", "1"}}
	res := d.Configure(context.Background(), p, "op", "n1")
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}

	wantPresets := []string{"16", "20", "x", "y", "1"}
	if len(p.Presets) != 5 {
		t.Fatalf("presets = %v", p.Presets)
	}
	for i, want := range wantPresets {
		if p.Presets[i] != want {
			t.Errorf("preset[%d] = %q, want %q", i, p.Presets[i], want)
		}
	}
	if b.callCount() != 1 {
		t.Errorf("requests = %d, want exactly 1", b.callCount())
	}
	if cnt.nodes != 1 {
		t.Errorf("node refreshes = %d, want 1", cnt.nodes)
	}
}

func TestConfigureCancelAtMaxSendsNothing(t *testing.T) {
	b := &mockBackend{}
	d, cnt, rec := newTestDispatcher(b, map[string]snapshot.NodeInfo{"n1": {}})

	// One answer, then the prompter cancels at the max step.
	p := &SequencePrompter{Answers: []string{"16"}}
	res := d.Configure(context.Background(), p, "op", "n1")
	if res.Outcome != OutcomeCancelled {
		t.Fatalf("outcome = %q, want cancelled", res.Outcome)
	}
	if b.callCount() != 0 {
		t.Errorf("requests = %d, want 0", b.callCount())
	}
	if cnt.nodes != 0 {
		t.Errorf("refreshes = %d, want 0", cnt.nodes)
	}
	if len(rec.records) != 0 {
		t.Errorf("cancelled run should not be audit-logged: %v", rec.records)
	}
}

func TestConfigureNodeNotFound(t *testing.T) {
	b := &mockBackend{}
	d, _, _ := newTestDispatcher(b, nil)

	p := &SequencePrompter{Answers: []string{"16", "20", "", "", ""}}
	res := d.Configure(context.Background(), p, "op", "ghost")
	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %q, want failed", res.Outcome)
	}
	if res.Message != "node not found: ghost" {
		t.Errorf("message = %q", res.Message)
	}
	if len(p.Labels) != 0 {
		t.Error("missing node must fail before any prompt")
	}
	if b.callCount() != 0 {
		t.Errorf("requests = %d, want 0", b.callCount())
	}
}

func TestConfigureRejectsNonNumeric(t *testing.T) {
	b := &mockBackend{}
	d, _, _ := newTestDispatcher(b, map[string]snapshot.NodeInfo{"n1": {}})

	p := &SequencePrompter{Answers: []string{"warm", "20", "", "", ""}}
	res := d.Configure(context.Background(), p, "op", "n1")
	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %q, want failed", res.Outcome)
	}
	if b.callCount() != 0 {
		t.Errorf("requests = %d, want 0 — malformed input must not be transmitted", b.callCount())
	}
}

func TestConfigureBackendErrorVerbatim(t *testing.T) {
	b := &mockBackend{err: &backend.APIError{Status: 409, Message: "node busy"}}
	d, cnt, _ := newTestDispatcher(b, map[string]snapshot.NodeInfo{"n1": {}})

	p := &SequencePrompter{Answers: []string{"16", "20", "", "", ""}}
	res := d.Configure(context.Background(), p, "op", "n1")
	if res.Outcome != OutcomeFailed || res.Message != "node busy" {
		t.Fatalf("result = %+v", res)
	}
	if cnt.nodes != 0 {
		t.Error("failed command must not schedule a refresh")
	}
}

func TestConfigureNetworkErrorGeneric(t *testing.T) {
	b := &mockBackend{err: errors.New("dial tcp: connection refused")}
	d, _, _ := newTestDispatcher(b, map[string]snapshot.NodeInfo{"n1": {}})

	p := &SequencePrompter{Answers: []string{"16", "20", "", "", ""}}
	res := d.Configure(context.Background(), p, "op", "n1")
	if res.Message != "network error" {
		t.Errorf("message = %q, want generic network error", res.Message)
	}
}

// --- OTA ---

func TestOTA(t *testing.T) {
	b := &mockBackend{}
	d, cnt, _ := newTestDispatcher(b, map[string]snapshot.NodeInfo{"n1": {}})

	p := &SequencePrompter{Answers: []string{"http://host/files/fw.bin"}}
	res := d.OTA(context.Background(), p, "op", "n1")
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	if b.calls[0].method != "TriggerOTA" || b.calls[0].args[1] != "http://host/files/fw.bin" {
		t.Errorf("call = %+v", b.calls[0])
	}
	if cnt.nodes != 1 {
		t.Errorf("refreshes = %d, want 1", cnt.nodes)
	}
}

func TestOTAEmptyURLCancels(t *testing.T) {
	b := &mockBackend{}
	d, _, _ := newTestDispatcher(b, map[string]snapshot.NodeInfo{"n1": {}})

	p := &SequencePrompter{Answers: []string{"   "}}
	res := d.OTA(context.Background(), p, "op", "n1")
	if res.Outcome != OutcomeCancelled {
		t.Fatalf("outcome = %q", res.Outcome)
	}
	if b.callCount() != 0 {
		t.Errorf("requests = %d, want 0", b.callCount())
	}
}

// --- Delete node ---

func TestDeleteNodeDeclinedConfirm(t *testing.T) {
	b := &mockBackend{}
	d, _, _ := newTestDispatcher(b, map[string]snapshot.NodeInfo{"n1": {}})

	res := d.DeleteNode(context.Background(), &SequencePrompter{Confirmed: false}, "op", "n1")
	if res.Outcome != OutcomeCancelled {
		t.Fatalf("outcome = %q", res.Outcome)
	}
	if b.callCount() != 0 {
		t.Errorf("requests = %d, want 0", b.callCount())
	}
}

func TestDeleteNodeErrorSurfacedNoRefresh(t *testing.T) {
	b := &mockBackend{err: &backend.APIError{Status: 423, Message: "locked"}}
	d, cnt, rec := newTestDispatcher(b, map[string]snapshot.NodeInfo{"n1": {}})

	res := d.DeleteNode(context.Background(), &SequencePrompter{Confirmed: true}, "op", "n1")
	if res.Outcome != OutcomeFailed || res.Message != "locked" {
		t.Fatalf("result = %+v", res)
	}
	if cnt.nodes != 0 {
		t.Error("failed delete must not trigger a node-list refresh")
	}
	if len(rec.records) != 1 || rec.records[0] != "delete-node:failed" {
		t.Errorf("audit = %v", rec.records)
	}
}

// --- Rename ---

func TestRenameFileNoopEmptyOrUnchanged(t *testing.T) {
	for _, newName := range []string{"", "fw.bin"} {
		b := &mockBackend{}
		d, cnt, _ := newTestDispatcher(b, nil)

		p := &SequencePrompter{Answers: []string{newName}}
		res := d.RenameFile(context.Background(), p, "op", "fw.bin")
		if res.Outcome != OutcomeNoop {
			t.Errorf("newName %q: outcome = %q, want noop", newName, res.Outcome)
		}
		if b.callCount() != 0 {
			t.Errorf("newName %q: requests = %d, want 0", newName, b.callCount())
		}
		if cnt.files != 0 {
			t.Errorf("newName %q: refreshes = %d, want 0", newName, cnt.files)
		}
	}
}

func TestRenameFile(t *testing.T) {
	b := &mockBackend{}
	d, cnt, _ := newTestDispatcher(b, nil)

	p := &SequencePrompter{Answers: []string{"fw2.bin"}}
	res := d.RenameFile(context.Background(), p, "op", "fw.bin")
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	if b.calls[0].method != "RenameFile" || b.calls[0].args[1] != "fw2.bin" {
		t.Errorf("call = %+v", b.calls[0])
	}
	if cnt.files != 1 {
		t.Errorf("file refreshes = %d, want 1", cnt.files)
	}
}

// --- Copy link ---

func TestCopyLink(t *testing.T) {
	cb := &mockClipboard{}
	d := New(Config{Clipboard: cb, PublicBase: "http://panel.local"})

	res := d.CopyLink("op", "/files/fw.bin")
	if !res.OK() || res.CopyText != "" {
		t.Fatalf("result = %+v", res)
	}
	if len(cb.written) != 1 || cb.written[0] != "http://panel.local/files/fw.bin" {
		t.Errorf("written = %v", cb.written)
	}
}

func TestCopyLinkFallback(t *testing.T) {
	cb := &mockClipboard{err: errors.New("no clipboard")}
	d := New(Config{Clipboard: cb, PublicBase: "http://panel.local"})

	res := d.CopyLink("op", "/files/fw.bin")
	if !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	// Fallback still leaves pasteable text with the operator.
	if res.CopyText != "http://panel.local/files/fw.bin" {
		t.Errorf("CopyText = %q", res.CopyText)
	}
}

func TestCopyLinkNoClipboard(t *testing.T) {
	d := New(Config{PublicBase: "http://panel.local"})
	res := d.CopyLink("op", "/files/fw.bin")
	if res.CopyText == "" {
		t.Error("nil clipboard must route through the manual-copy fallback")
	}
}

// --- Logs ---

func TestLogs(t *testing.T) {
	b := &mockBackend{logs: []string{"boot", "ready"}}
	d, _, _ := newTestDispatcher(b, nil)

	res := d.Logs(context.Background(), "op", "n1")
	if !res.OK() || len(res.Logs) != 2 {
		t.Fatalf("result = %+v", res)
	}
}

func TestLogsNotFoundLooksLikeEmpty(t *testing.T) {
	b := &mockBackend{err: &backend.APIError{Status: 404, Message: "node not found"}}
	d, _, _ := newTestDispatcher(b, nil)

	res := d.Logs(context.Background(), "op", "ghost")
	if !res.OK() {
		t.Fatalf("result = %+v — unknown node renders as no logs, not an error", res)
	}
	if len(res.Logs) != 0 {
		t.Errorf("logs = %v", res.Logs)
	}
}

// --- Dedup ---

func TestDuplicateInFlightCommandRejected(t *testing.T) {
	b := &mockBackend{}
	d, _, _ := newTestDispatcher(b, map[string]snapshot.NodeInfo{"n1": {}})

	if !d.begin(ActionDeleteNode, "n1") {
		t.Fatal("first begin should claim the slot")
	}
	res := d.DeleteNode(context.Background(), &SequencePrompter{Confirmed: true}, "op", "n1")
	if res.Outcome != OutcomeBusy {
		t.Fatalf("outcome = %q, want busy", res.Outcome)
	}
	if b.callCount() != 0 {
		t.Errorf("requests = %d, want 0", b.callCount())
	}
	d.end(ActionDeleteNode, "n1")

	// Different target is not blocked.
	res = d.DeleteNode(context.Background(), &SequencePrompter{Confirmed: true}, "op", "n2")
	if res.Outcome == OutcomeBusy {
		t.Error("different target must not be deduplicated")
	}
}
