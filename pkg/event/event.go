// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Common event types
const (
	UnitCreated        Type = "unit_created"
	UnitDestroyed      Type = "unit_destroyed"
	BuildingCaptured   Type = "building_captured"
	StructurePlaced    Type = "structure_placed"
	StructureCompleted Type = "structure_completed"
	StructureDestroyed Type = "structure_destroyed"
	ProjectileFired    Type = "projectile_fired"
	ProjectileImpact   Type = "projectile_impact"
	CloudSpawned       Type = "cloud_spawned"
	GameStarted        Type = "game_started"
	GameEnded          Type = "game_ended"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	for _, handler := range handlers {
		handler(event)
	}
}

// UnitEvent contains information about unit-related events
type UnitEvent struct {
	BaseEvent
	UnitID  uint64
	Faction string
}

// NewUnitEvent creates a new unit event
func NewUnitEvent(eventType Type, source interface{}, unitID uint64, faction string) *UnitEvent {
	return &UnitEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		UnitID:  unitID,
		Faction: faction,
	}
}

// BuildingEvent contains information about capture-related events
type BuildingEvent struct {
	BaseEvent
	BuildingID uint64
	NewOwner   string
	OldOwner   string
}

// NewBuildingEvent creates a new building event
func NewBuildingEvent(eventType Type, source interface{}, buildingID uint64, newOwner, oldOwner string) *BuildingEvent {
	return &BuildingEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		BuildingID: buildingID,
		NewOwner:   newOwner,
		OldOwner:   oldOwner,
	}
}

// ImpactEvent contains information about a projectile impact
type ImpactEvent struct {
	BaseEvent
	ProjectileID uint64
	X            float64
	Z            float64
}

// NewImpactEvent creates a new impact event
func NewImpactEvent(source interface{}, projectileID uint64, x, z float64) *ImpactEvent {
	return &ImpactEvent{
		BaseEvent: BaseEvent{
			EventType: ProjectileImpact,
			Source:    source,
		},
		ProjectileID: projectileID,
		X:            x,
		Z:            z,
	}
}

// StructureEvent contains information about structure lifecycle events
type StructureEvent struct {
	BaseEvent
	StructureID uint64
	Faction     string
}

// NewStructureEvent creates a new structure event
func NewStructureEvent(eventType Type, source interface{}, structureID uint64, faction string) *StructureEvent {
	return &StructureEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		StructureID: structureID,
		Faction:     faction,
	}
}
