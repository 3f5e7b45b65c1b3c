// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"
	"time"

	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// TestNewEventBus tests the creation of a new event bus
func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()

	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}

	if bus.handlers == nil {
		t.Error("handlers map not initialized")
	}

	if bus.nextID != 1 {
		t.Errorf("expected nextID to be 1, got %d", bus.nextID)
	}
}

// TestBaseEvent tests the BaseEvent functionality
func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    interface{}
	}{
		{
			name:      "AsteroidDodged event",
			eventType: AsteroidDodged,
			source:    "test_source",
		},
		{
			name:      "BossHit event",
			eventType: BossHit,
			source:    123,
		},
		{
			name:      "Empty source",
			eventType: GameRestarted,
			source:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &BaseEvent{
				EventType: tt.eventType,
				Source:    tt.source,
			}

			if event.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", event.GetType(), tt.eventType)
			}

			if event.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", event.GetSource(), tt.source)
			}
		})
	}
}

// TestBusSubscribe tests event subscription functionality
func TestBusSubscribe_SingleHandler_ReturnsValidSubscription(t *testing.T) {
	bus := NewEventBus()

	handler := func(e Event) {
		// Handler for testing subscription
	}

	sub := bus.Subscribe(AsteroidDodged, handler)

	if sub == nil {
		t.Fatal("Subscribe() returned nil subscription")
	}

	if sub.ID == 0 {
		t.Error("subscription ID should not be 0")
	}

	if sub.Cancel == nil {
		t.Error("subscription Cancel function should not be nil")
	}

	// Verify handler was registered
	bus.mu.RLock()
	handlers := bus.handlers[AsteroidDodged]
	bus.mu.RUnlock()

	if len(handlers) != 1 {
		t.Errorf("expected 1 handler, got %d", len(handlers))
	}
}

// TestBusSubscribe_MultipleHandlers tests multiple subscriptions
func TestBusSubscribe_MultipleHandlers_AllRegistered(t *testing.T) {
	bus := NewEventBus()
	var callCount int

	handler1 := func(e Event) { callCount++ }
	handler2 := func(e Event) { callCount++ }
	handler3 := func(e Event) { callCount++ }

	sub1 := bus.Subscribe(AsteroidDodged, handler1)
	sub2 := bus.Subscribe(AsteroidDodged, handler2)
	_ = bus.Subscribe(BossHit, handler3)

	// Check unique IDs
	if sub1.ID == sub2.ID {
		t.Error("subscriptions should have unique IDs")
	}

	// Check handlers count
	bus.mu.RLock()
	dodgeHandlers := bus.handlers[AsteroidDodged]
	bossHandlers := bus.handlers[BossHit]
	bus.mu.RUnlock()

	if len(dodgeHandlers) != 2 {
		t.Errorf("expected 2 handlers for AsteroidDodged, got %d", len(dodgeHandlers))
	}

	if len(bossHandlers) != 1 {
		t.Errorf("expected 1 handler for BossHit, got %d", len(bossHandlers))
	}
}

// TestBusPublish tests event publishing functionality
func TestBusPublish_WithSubscribers_CallsAllHandlers(t *testing.T) {
	bus := NewEventBus()
	var callCount int
	var receivedEvents []Event

	handler1 := func(e Event) {
		callCount++
		receivedEvents = append(receivedEvents, e)
	}

	handler2 := func(e Event) {
		callCount++
		receivedEvents = append(receivedEvents, e)
	}

	bus.Subscribe(AsteroidDodged, handler1)
	bus.Subscribe(AsteroidDodged, handler2)

	event := &BaseEvent{
		EventType: AsteroidDodged,
		Source:    "test",
	}

	bus.Publish(event)

	if callCount != 2 {
		t.Errorf("expected 2 handler calls, got %d", callCount)
	}

	if len(receivedEvents) != 2 {
		t.Errorf("expected 2 received events, got %d", len(receivedEvents))
	}

	for _, e := range receivedEvents {
		if e.GetType() != AsteroidDodged {
			t.Errorf("expected event type %v, got %v", AsteroidDodged, e.GetType())
		}
	}
}

// TestBusPublish_NoSubscribers tests publishing without subscribers
func TestBusPublish_NoSubscribers_NoError(t *testing.T) {
	bus := NewEventBus()

	event := &BaseEvent{
		EventType: AsteroidDodged,
		Source:    "test",
	}

	// Should not panic or error
	bus.Publish(event)
}

// TestBusPublish_WrongEventType tests publishing to non-subscribed event type
func TestBusPublish_WrongEventType_HandlersNotCalled(t *testing.T) {
	bus := NewEventBus()
	handlerCalled := false

	handler := func(e Event) {
		handlerCalled = true
	}

	bus.Subscribe(AsteroidDodged, handler)

	event := &BaseEvent{
		EventType: BossHit,
		Source:    "test",
	}

	bus.Publish(event)

	if handlerCalled {
		t.Error("handler should not have been called for different event type")
	}
}

// TestSubscriptionCancel tests canceling subscriptions
func TestSubscriptionCancel_ValidSubscription_RemovesHandler(t *testing.T) {
	bus := NewEventBus()
	handlerCalled := false

	handler := func(e Event) {
		handlerCalled = true
	}

	sub := bus.Subscribe(AsteroidDodged, handler)

	// Verify handler is registered
	bus.mu.RLock()
	handlersBefore := len(bus.handlers[AsteroidDodged])
	bus.mu.RUnlock()

	if handlersBefore != 1 {
		t.Errorf("expected 1 handler before cancel, got %d", handlersBefore)
	}

	// Cancel subscription
	sub.Cancel()

	// Verify handler is removed
	bus.mu.RLock()
	handlersAfter := len(bus.handlers[AsteroidDodged])
	bus.mu.RUnlock()

	if handlersAfter != 0 {
		t.Errorf("expected 0 handlers after cancel, got %d", handlersAfter)
	}

	// Verify handler is not called after cancellation
	event := &BaseEvent{
		EventType: AsteroidDodged,
		Source:    "test",
	}

	bus.Publish(event)

	if handlerCalled {
		t.Error("handler should not be called after cancellation")
	}
}

// TestConcurrentAccess tests thread safety
func TestBusSubscribe_ConcurrentAccess_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup
	handlerCount := 0
	var mu sync.Mutex

	handler := func(e Event) {
		mu.Lock()
		handlerCount++
		mu.Unlock()
	}

	// Start multiple goroutines to subscribe concurrently
	numGoroutines := 10
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			bus.Subscribe(AsteroidDodged, handler)
		}()
	}

	wg.Wait()

	// Verify all subscriptions were registered
	bus.mu.RLock()
	handlers := bus.handlers[AsteroidDodged]
	bus.mu.RUnlock()

	if len(handlers) != numGoroutines {
		t.Errorf("expected %d handlers, got %d", numGoroutines, len(handlers))
	}

	// Test concurrent publishing
	event := &BaseEvent{
		EventType: AsteroidDodged,
		Source:    "test",
	}

	// Publish concurrently
	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			bus.Publish(event)
		}()
	}

	wg.Wait()

	// Give handlers time to execute
	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	expectedCalls := numGoroutines * 3
	if handlerCount != expectedCalls {
		t.Errorf("expected %d handler calls, got %d", expectedCalls, handlerCount)
	}
	mu.Unlock()
}

// TestNewDifficultyEvent tests difficulty event creation
func TestNewDifficultyEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	event := NewDifficultyEvent("manager", 5, 0.75, 4.5, 8.5)

	if event.GetType() != DifficultyChanged {
		t.Errorf("GetType() = %v, want %v", event.GetType(), DifficultyChanged)
	}
	if event.GetSource() != "manager" {
		t.Errorf("GetSource() = %v, want manager", event.GetSource())
	}
	if event.Level != 5 || event.SpawnInterval != 0.75 {
		t.Errorf("expected level 5 interval 0.75, got %d %f", event.Level, event.SpawnInterval)
	}
	if event.MinSpeed != 4.5 || event.MaxSpeed != 8.5 {
		t.Errorf("expected speeds 4.5-8.5, got %f-%f", event.MinSpeed, event.MaxSpeed)
	}
}

// TestNewScoreEvent tests score events for each scoring type
func TestNewScoreEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		entityID  uint64
		points    int
	}{
		{"dodge", AsteroidDodged, 7, 10},
		{"shot", AsteroidDestroyed, 8, 20},
		{"boss hit", BossHit, 9, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewScoreEvent(tt.eventType, nil, tt.entityID, tt.points)

			if event.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", event.GetType(), tt.eventType)
			}
			if event.EntityID != tt.entityID {
				t.Errorf("EntityID = %d, want %d", event.EntityID, tt.entityID)
			}
			if event.Points != tt.points {
				t.Errorf("Points = %d, want %d", event.Points, tt.points)
			}
		})
	}
}

// TestNewShipHitEvent tests ship hit event creation
func TestNewShipHitEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	position := physics.V3(1, 0.5, -0.2)
	event := NewShipHitEvent("game", position, 2)

	if event.GetType() != ShipHit {
		t.Errorf("GetType() = %v, want %v", event.GetType(), ShipHit)
	}
	if event.Position != position {
		t.Errorf("Position = %v, want %v", event.Position, position)
	}
	if event.LivesRemaining != 2 {
		t.Errorf("LivesRemaining = %d, want 2", event.LivesRemaining)
	}
}

// TestNewBossEvent tests boss event creation
func TestNewBossEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	event := NewBossEvent(BossDefeated, nil, 10, 0, 500)

	if event.GetType() != BossDefeated {
		t.Errorf("GetType() = %v, want %v", event.GetType(), BossDefeated)
	}
	if event.Level != 10 || event.Health != 0 || event.Points != 500 {
		t.Errorf("unexpected boss event fields: %+v", event)
	}
}

// TestNewGameOverEvent tests game over event creation
func TestNewGameOverEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	event := NewGameOverEvent(nil, 1230, 4, 61.5)

	if event.GetType() != GameOver {
		t.Errorf("GetType() = %v, want %v", event.GetType(), GameOver)
	}
	if event.Score != 1230 || event.Level != 4 || event.Elapsed != 61.5 {
		t.Errorf("unexpected game over fields: %+v", event)
	}

	level := NewLevelEvent(AccelerationUnlocked, nil, 7)
	if level.GetType() != AccelerationUnlocked || level.Level != 7 {
		t.Errorf("unexpected level event: %+v", level)
	}

	wave := NewWaveEvent(nil, 3, 18)
	if wave.GetType() != WaveSpawned || wave.Count != 3 || wave.Z != 18 {
		t.Errorf("unexpected wave event: %+v", wave)
	}
}

// TestEventTypes tests that every event type is defined and unique
func TestEventTypes_Constants_AllDefined(t *testing.T) {
	seen := make(map[Type]bool)
	for _, eventType := range AllTypes {
		if string(eventType) == "" {
			t.Errorf("event type %v is empty", eventType)
		}
		if seen[eventType] {
			t.Errorf("event type %v listed twice", eventType)
		}
		seen[eventType] = true
	}

	if len(AllTypes) != 12 {
		t.Errorf("expected 12 event types, got %d", len(AllTypes))
	}
}

// TestDiscard tests that the discard publisher accepts events
func TestDiscard_Publish_NoPanic(t *testing.T) {
	var publisher Publisher = Discard
	publisher.Publish(&BaseEvent{EventType: GameOver})

	var _ Publisher = NewEventBus()
}

// TestCancelMultipleSubscriptions tests canceling multiple subscriptions
func TestCancelMultipleSubscriptions_DifferentTypes_OnlyTargetRemoved(t *testing.T) {
	bus := NewEventBus()

	handler1Called := false
	handler2Called := false
	handler3Called := false

	handler1 := func(e Event) { handler1Called = true }
	handler2 := func(e Event) { handler2Called = true }
	handler3 := func(e Event) { handler3Called = true }

	sub1 := bus.Subscribe(AsteroidDodged, handler1)
	_ = bus.Subscribe(AsteroidDodged, handler2)
	_ = bus.Subscribe(BossHit, handler3)

	// Cancel only the first subscription
	sub1.Cancel()

	// Publish AsteroidDodged event
	dodgeEvent := &BaseEvent{EventType: AsteroidDodged, Source: "test"}
	bus.Publish(dodgeEvent)

	// Publish BossHit event
	bossEvent := &BaseEvent{EventType: BossHit, Source: "test"}
	bus.Publish(bossEvent)

	if handler1Called {
		t.Error("handler1 should not be called after cancellation")
	}

	if !handler2Called {
		t.Error("handler2 should be called")
	}

	if !handler3Called {
		t.Error("handler3 should be called")
	}
}
