package smartaccount

import (
	"context"
	"fmt"
	"sync"
)

// Attribute is a single key/value pair attached to an event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is a notification published by the account during a call.
//
// Type is a slash separated topic, for example "signer/added". Diagnostic
// events report tolerated failures. The host keeps them even if the call
// that produced them was aborted.
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes,omitempty"`
	Diagnostic bool        `json:"diagnostic,omitempty"`
}

// NewEvent returns an event of the given type. Key values must be provided
// in pairs and are formatted using the %v verb.
func NewEvent(typ string, keyvals ...interface{}) Event {
	if len(keyvals)%2 != 0 {
		panic("event key values must be provided in pairs")
	}
	ev := Event{Type: typ}
	for i := 0; i < len(keyvals); i += 2 {
		ev.Attributes = append(ev.Attributes, Attribute{
			Key:   fmt.Sprint(keyvals[i]),
			Value: fmt.Sprint(keyvals[i+1]),
		})
	}
	return ev
}

// AsDiagnostic returns a copy of this event that survives an aborted call.
func (e Event) AsDiagnostic() Event {
	e.Diagnostic = true
	return e
}

// Attr returns the value of the first attribute with given key.
func (e Event) Attr(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// EventManager collects events emitted during a single call.
type EventManager struct {
	mu     sync.Mutex
	events []Event
}

// NewEventManager returns an empty collector.
func NewEventManager() *EventManager {
	return &EventManager{}
}

// Emit appends an event.
func (m *EventManager) Emit(ev Event) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
}

// Events returns all collected events in emission order.
func (m *EventManager) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Diagnostics returns only the diagnostic events, in emission order.
func (m *EventManager) Diagnostics() []Event {
	var out []Event
	for _, ev := range m.Events() {
		if ev.Diagnostic {
			out = append(out, ev)
		}
	}
	return out
}

// WithEventManager attaches an event collector to the context.
func WithEventManager(ctx context.Context, m *EventManager) context.Context {
	return context.WithValue(ctx, contextKeyEvents, m)
}

// GetEventManager returns the collector attached to the context, if any.
func GetEventManager(ctx context.Context) (*EventManager, bool) {
	m, ok := ctx.Value(contextKeyEvents).(*EventManager)
	return m, ok
}

// EmitEvent publishes an event using the collector attached to the context.
// Diagnostic events are also logged. Without a collector the event is only
// logged.
func EmitEvent(ctx context.Context, ev Event) {
	logger := GetLogger(ctx)
	keyvals := make([]interface{}, 0, 2+2*len(ev.Attributes))
	keyvals = append(keyvals, "event", ev.Type)
	for _, a := range ev.Attributes {
		keyvals = append(keyvals, a.Key, a.Value)
	}
	if ev.Diagnostic {
		logger.Error("diagnostic event", keyvals...)
	} else {
		logger.Debug("event", keyvals...)
	}

	if m, ok := GetEventManager(ctx); ok {
		m.Emit(ev)
	}
}
