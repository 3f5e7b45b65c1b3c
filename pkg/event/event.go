// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	DifficultyChanged    Type = "difficulty_changed"
	WaveSpawned          Type = "wave_spawned"
	AsteroidDodged       Type = "asteroid_dodged"
	AsteroidDestroyed    Type = "asteroid_destroyed"
	ShipHit              Type = "ship_hit"
	BossActivated        Type = "boss_activated"
	BossHit              Type = "boss_hit"
	BossDefeated         Type = "boss_defeated"
	LevelChanged         Type = "level_changed"
	AccelerationUnlocked Type = "acceleration_unlocked"
	GameOver             Type = "game_over"
	GameRestarted        Type = "game_restarted"
)

// AllTypes lists every event type the simulation publishes
var AllTypes = []Type{
	DifficultyChanged, WaveSpawned, AsteroidDodged, AsteroidDestroyed, ShipHit,
	BossActivated, BossHit, BossDefeated, LevelChanged, AccelerationUnlocked,
	GameOver, GameRestarted,
}

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

// Publisher accepts events. The simulation only ever publishes.
type Publisher interface {
	Publish(event Event)
}

// Discard is a Publisher that drops every event
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}

// Handler is a function that handles events
type Handler func(Event)

type subscriber struct {
	id      uint64
	handler Handler
}

// Subscription identifies a registered handler
type Subscription struct {
	ID     uint64
	Cancel func()
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, sub := range subs {
		if sub.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[eventType]) == 0 {
		delete(b.handlers, eventType)
	}
}

// Publish sends an event to all subscribed handlers. Handlers run
// synchronously on the publishing goroutine.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(event)
	}
}

// Specific event implementations

// DifficultyEvent reports a difficulty bump and the retuned spawner
type DifficultyEvent struct {
	BaseEvent
	Level         int
	SpawnInterval float64
	MinSpeed      float64
	MaxSpeed      float64
}

// NewDifficultyEvent creates a difficulty event
func NewDifficultyEvent(source interface{}, level int, spawnInterval, minSpeed, maxSpeed float64) *DifficultyEvent {
	return &DifficultyEvent{
		BaseEvent:     BaseEvent{EventType: DifficultyChanged, Source: source},
		Level:         level,
		SpawnInterval: spawnInterval,
		MinSpeed:      minSpeed,
		MaxSpeed:      maxSpeed,
	}
}

// WaveEvent reports a line formation spawn
type WaveEvent struct {
	BaseEvent
	Count int
	Z     float64
}

// NewWaveEvent creates a wave event
func NewWaveEvent(source interface{}, count int, z float64) *WaveEvent {
	return &WaveEvent{
		BaseEvent: BaseEvent{EventType: WaveSpawned, Source: source},
		Count:     count,
		Z:         z,
	}
}

// ScoreEvent reports points earned for a dodge, a shot or a boss hit
type ScoreEvent struct {
	BaseEvent
	EntityID uint64
	Points   int
}

// NewScoreEvent creates a score event of the given type
func NewScoreEvent(eventType Type, source interface{}, entityID uint64, points int) *ScoreEvent {
	return &ScoreEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		EntityID:  entityID,
		Points:    points,
	}
}

// ShipHitEvent reports an asteroid impact on the ship
type ShipHitEvent struct {
	BaseEvent
	Position       physics.Vec3
	LivesRemaining int
}

// NewShipHitEvent creates a ship hit event
func NewShipHitEvent(source interface{}, position physics.Vec3, livesRemaining int) *ShipHitEvent {
	return &ShipHitEvent{
		BaseEvent:      BaseEvent{EventType: ShipHit, Source: source},
		Position:       position,
		LivesRemaining: livesRemaining,
	}
}

// BossEvent reports a boss activation or defeat
type BossEvent struct {
	BaseEvent
	Level  int
	Health int
	Points int
}

// NewBossEvent creates a boss event of the given type
func NewBossEvent(eventType Type, source interface{}, level, health, points int) *BossEvent {
	return &BossEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Level:     level,
		Health:    health,
		Points:    points,
	}
}

// LevelEvent reports a level change or a level-gated unlock
type LevelEvent struct {
	BaseEvent
	Level int
}

// NewLevelEvent creates a level event of the given type
func NewLevelEvent(eventType Type, source interface{}, level int) *LevelEvent {
	return &LevelEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Level:     level,
	}
}

// GameOverEvent carries the final results of a run
type GameOverEvent struct {
	BaseEvent
	Score   int
	Level   int
	Elapsed float64
}

// NewGameOverEvent creates a game over event
func NewGameOverEvent(source interface{}, score, level int, elapsed float64) *GameOverEvent {
	return &GameOverEvent{
		BaseEvent: BaseEvent{EventType: GameOver, Source: source},
		Score:     score,
		Level:     level,
		Elapsed:   elapsed,
	}
}
