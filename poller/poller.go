// Package poller runs the recurring snapshot refresh loops. One Poller per
// resource class (nodes, files), independently scheduled.
package poller

import (
	"context"
	"log"
	"time"
)

// Fetch pulls a fresh snapshot and replaces the corresponding store. It
// must either replace the store wholesale or return an error leaving the
// store untouched.
type Fetch func(ctx context.Context) error

type Poller struct {
	name      string
	fetch     Fetch
	interval  time.Duration
	timeout   time.Duration
	refreshCh chan struct{}
	stopChan  chan struct{}
}

func New(name string, fetch Fetch, interval, timeout time.Duration) *Poller {
	return &Poller{
		name:      name,
		fetch:     fetch,
		interval:  interval,
		timeout:   timeout,
		refreshCh: make(chan struct{}, 1),
		stopChan:  make(chan struct{}),
	}
}

func (p *Poller) Start() {
	go p.run()
}

func (p *Poller) Stop() {
	select {
	case p.stopChan <- struct{}{}:
	default:
	}
}

// RefreshNow requests an immediate out-of-cycle poll. Coalesced if one is
// already pending.
func (p *Poller) RefreshNow() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

// RefreshAfter schedules RefreshNow after d, giving the backend time to
// settle after a mutating command. Best effort only; it is not a
// synchronization barrier against the regular poll cycle.
func (p *Poller) RefreshAfter(d time.Duration) {
	time.AfterFunc(d, p.RefreshNow)
}

func (p *Poller) run() {
	// Prime immediately so the panel is not empty for a full interval
	// after startup.
	p.poll()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.poll()
		case <-p.refreshCh:
			p.poll()
		}
	}
}

// poll runs one fetch. Failures are logged and otherwise silent: the
// stores keep their previous snapshot and the panel degrades to stale data.
func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.fetch(ctx); err != nil {
		log.Printf("poller: %s refresh: %v", p.name, err)
	}
}
