package event

import (
	"context"
	"fmt"
	"sync"
)

// Type represents the type of an event
type Type string

// Metadata carries routing information alongside the payload
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Push events sent by the host
const (
	Init                     Type = "init"
	SetupInventory           Type = "setupInventory"
	RefreshSlots             Type = "refreshSlots"
	CloseInventory           Type = "closeInventory"
	SetInventoryVisible      Type = "setInventoryVisible"
	RefreshBackpackInventory Type = "refreshBackpackInventory"
	DisplayMetadata          Type = "displayMetadata"
	ToggleHotbar             Type = "toggleHotbar"
)

// Local notifications
const (
	StateChanged   Type = "state.changed"
	CraftCompleted Type = "craft.completed"
	CraftProgress  Type = "craft.progress"
)

// HostEventTypes lists every push event the host may send.
var HostEventTypes = []Type{
	Init,
	SetupInventory,
	RefreshSlots,
	CloseInventory,
	SetInventoryVisible,
	RefreshBackpackInventory,
	DisplayMetadata,
	ToggleHotbar,
}

// IsHostEvent reports whether t is a known host push event.
func IsHostEvent(t Type) bool {
	for _, h := range HostEventTypes {
		if h == t {
			return true
		}
	}
	return false
}

// New builds an event stamped with the current schema version.
func New(t Type, payload interface{}, source string) Event {
	return Event{
		Version:  EventSchemaVersion,
		Type:     t,
		Payload:  payload,
		Metadata: Metadata{MetaSource: source},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously
// in subscription order.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
