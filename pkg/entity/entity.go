// pkg/entity/entity.go
package entity

import (
	"github.com/EngoEngine/ecs"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// ID is a unique identifier for an entity
type ID uint64

// Entity is the common surface of every simulated object
type Entity interface {
	GetID() ID
	GetPosition() physics.Vec3
	GetCollider() physics.Sphere
	IsActive() bool
}

// BaseEntity contains common functionality for all entities. Identity comes
// from ecs.BasicEntity so renderers built on an ECS world can reuse it.
type BaseEntity struct {
	ecs.BasicEntity
	Position physics.Vec3
	Velocity physics.Vec3
	Radius   float64
	Active   bool
}

func newBaseEntity(position physics.Vec3, radius float64) BaseEntity {
	return BaseEntity{
		BasicEntity: ecs.NewBasic(),
		Position:    position,
		Radius:      radius,
		Active:      true,
	}
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return ID(e.BasicEntity.ID())
}

// GetPosition returns the entity's position
func (e *BaseEntity) GetPosition() physics.Vec3 {
	return e.Position
}

// GetCollider returns the entity's collision shape
func (e *BaseEntity) GetCollider() physics.Sphere {
	return physics.Sphere{
		Center: e.Position,
		Radius: e.Radius,
	}
}

// IsActive reports whether the entity still takes part in the simulation
func (e *BaseEntity) IsActive() bool {
	return e.Active
}

// Update updates the entity's position based on velocity
func (e *BaseEntity) Update(deltaTime float64) {
	e.Position = physics.Integrate(e.Position, e.Velocity, deltaTime)
}
