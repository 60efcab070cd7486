// Package events carries pipeline progress as typed events, keeping the
// core free of console output. A presentation layer subscribes through the
// Emitter interface and decides how to render.
package events

import (
	"log/slog"
	"time"
)

// Kind identifies what happened.
type Kind string

const (
	ConsentDecided     Kind = "consent_decided"
	ConsensusReached   Kind = "consensus_reached"
	TopologySelected   Kind = "topology_selected"
	BandwidthAllocated Kind = "bandwidth_allocated"
	CostsAllocated     Kind = "costs_allocated"
	PaymentSettled     Kind = "payment_settled"
	ComplianceChecked  Kind = "compliance_checked"
	SessionClosed      Kind = "session_closed"
)

// Event is one pipeline occurrence. Device is empty for session-wide
// events; Fields carries kind-specific detail.
type Event struct {
	Kind    Kind
	Session string
	Device  string
	At      time.Time
	Fields  map[string]any
}

// Emitter receives pipeline events.
type Emitter interface {
	Emit(Event)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Emit(Event) {}

// Func adapts a function to the Emitter interface.
type Func func(Event)

func (f Func) Emit(e Event) { f(e) }

// Slog forwards events to a structured logger.
type Slog struct {
	Logger *slog.Logger
}

func (s Slog) Emit(e Event) {
	attrs := make([]any, 0, 2+2*len(e.Fields))
	attrs = append(attrs, "session", e.Session)
	if e.Device != "" {
		attrs = append(attrs, "device", e.Device)
	}
	for k, v := range e.Fields {
		attrs = append(attrs, k, v)
	}
	s.Logger.Info(string(e.Kind), attrs...)
}

// New stamps an event with the current time.
func New(kind Kind, session string, fields map[string]any) Event {
	return Event{Kind: kind, Session: session, At: time.Now(), Fields: fields}
}
