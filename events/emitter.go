// Package events exports dispatched-command events to Kafka so fleet-wide
// operations tooling can consume an audit trail across panels. Entirely
// optional: with no brokers configured the emitter is a no-op.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"fleetpanel/config"
)

// CommandEvent mirrors one store.CommandRecord onto the wire.
type CommandEvent struct {
	CommandID string    `json:"command_id"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Actor     string    `json:"actor"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Emitter struct {
	writer *kafka.Writer
}

func NewEmitter(cfg *config.EventsConfig) *Emitter {
	if len(cfg.Kafka.Brokers) == 0 {
		return &Emitter{}
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	log.Printf("events: exporting commands to kafka topic %s", cfg.Topic)
	return &Emitter{writer: w}
}

// Enabled reports whether events actually leave the process.
func (e *Emitter) Enabled() bool { return e != nil && e.writer != nil }

// EmitCommand publishes one event. Best effort: failures are logged, never
// surfaced to the operator, and never block a workflow.
func (e *Emitter) EmitCommand(evt CommandEvent) {
	if !e.Enabled() {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("events: marshal: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.Target),
		Value: data,
	}); err != nil {
		log.Printf("events: publish %s: %v", evt.Action, err)
	}
}

func (e *Emitter) Close() error {
	if !e.Enabled() {
		return nil
	}
	return e.writer.Close()
}
