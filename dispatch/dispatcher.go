// Package dispatch runs the operator command workflows. Every workflow has
// the same shape — collect input, validate, encode, send exactly one
// backend request, interpret the reply — with cancellation as an explicit
// outcome at every collect step.
package dispatch

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"fleetpanel/backend"
	"fleetpanel/snapshot"
)

type Dispatcher struct {
	nodes     *snapshot.NodeStore
	backend   Backend
	clipboard Clipboard
	recorder  Recorder
	events    EventSink

	// publicBase prefixes file URLs for copy-link.
	publicBase string

	// Post-success refresh hooks, wired to the pollers' RefreshAfter.
	refreshNodes func()
	refreshFiles func()

	mu       sync.Mutex
	inflight map[string]struct{}
}

type Config struct {
	Nodes        *snapshot.NodeStore
	Backend      Backend
	Clipboard    Clipboard
	Recorder     Recorder
	Events       EventSink
	PublicBase   string
	RefreshNodes func()
	RefreshFiles func()
}

func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		nodes:        cfg.Nodes,
		backend:      cfg.Backend,
		clipboard:    cfg.Clipboard,
		recorder:     cfg.Recorder,
		events:       cfg.Events,
		publicBase:   cfg.PublicBase,
		refreshNodes: cfg.RefreshNodes,
		refreshFiles: cfg.RefreshFiles,
		inflight:     make(map[string]struct{}),
	}
}

// begin claims the (action, target) slot. A second identical command while
// the first is still running gets rejected rather than duplicated on the
// backend.
func (d *Dispatcher) begin(action, target string) bool {
	key := action + "\x00" + target
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inflight[key]; busy {
		return false
	}
	d.inflight[key] = struct{}{}
	return true
}

func (d *Dispatcher) end(action, target string) {
	d.mu.Lock()
	delete(d.inflight, action+"\x00"+target)
	d.mu.Unlock()
}

func busyResult(action string) Result {
	return Result{Outcome: OutcomeBusy, Message: action + " already in progress"}
}

// finish records the terminal outcome and fires the refresh hook on
// success. Cancelled and no-op runs never sent a request, so they are not
// logged or exported.
func (d *Dispatcher) finish(action, target, actor string, res Result, refresh func()) Result {
	if res.Outcome == OutcomeCancelled || res.Outcome == OutcomeNoop {
		return res
	}
	commandID := uuid.New().String()
	if d.recorder != nil {
		if err := d.recorder.RecordCommand(commandID, action, target, actor, string(res.Outcome), res.Message); err != nil {
			log.Printf("dispatch: record %s: %v", action, err)
		}
	}
	if d.events != nil {
		d.events.CommandFinished(commandID, action, target, actor, string(res.Outcome), res.Message)
	}
	if res.OK() && refresh != nil {
		refresh()
	}
	return res
}

// userMessage maps a send error to the operator-facing notice: the
// backend's own error text verbatim when it sent one, a generic transport
// notice otherwise.
func userMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "network error"
}

func isNotFound(err error) bool {
	var apiErr *backend.APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}
