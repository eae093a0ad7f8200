// Package events defines the structured events the transition core emits
// alongside a receipt, for embedders that want an indexable activity feed
// without parsing CommandOutput.Logs themselves.
package events

// Payload is the wire shape one event is rendered to: a type tag plus a
// flat string-keyed attribute map.
type Payload struct {
	Type       string
	Attributes map[string]string
}

// Event is anything that can render itself to a Payload.
type Event interface {
	EventType() string
	Event() *Payload
}

// Emitter broadcasts events to downstream subscribers (e.g. an indexer
// wired in by the embedder). core/commands never calls this directly;
// core/execution collects events per-command and hands them to the
// Emitter supplied via Transition's caller.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter discards every event. It is the default when an embedder
// does not care about the event feed.
type NoopEmitter struct{}

func (NoopEmitter) Emit(Event) {}
