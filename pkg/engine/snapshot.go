// pkg/engine/snapshot.go
package engine

import (
	"github.com/opd-ai/go-asteroid-run/pkg/entity"
	"github.com/opd-ai/go-asteroid-run/pkg/input"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// Frame is a read-only copy of everything a renderer draws for one tick
type Frame struct {
	Tick        uint64            `json:"tick" msgpack:"tick"`
	Status      GameStatus        `json:"status" msgpack:"status"`
	Camera      input.CameraMode  `json:"camera" msgpack:"camera"`
	Ship        ShipState         `json:"ship" msgpack:"ship"`
	Asteroids   []AsteroidState   `json:"asteroids" msgpack:"asteroids"`
	Projectiles []ProjectileState `json:"projectiles" msgpack:"projectiles"`
	Boss        *BossState        `json:"boss,omitempty" msgpack:"boss,omitempty"`
	HUD         HUDState          `json:"hud" msgpack:"hud"`
}

// ShipState represents a snapshot of the ship
type ShipState struct {
	Position        physics.Vec3 `json:"position" msgpack:"position"`
	Radius          float64      `json:"radius" msgpack:"radius"`
	AccelMultiplier float64      `json:"accel" msgpack:"accel"`
	CanShoot        bool         `json:"canShoot" msgpack:"canShoot"`
}

// AsteroidState represents a snapshot of an asteroid
type AsteroidState struct {
	ID       entity.ID    `json:"id" msgpack:"id"`
	Position physics.Vec3 `json:"position" msgpack:"position"`
	Rotation physics.Vec3 `json:"rotation" msgpack:"rotation"`
	Scale    float64      `json:"scale" msgpack:"scale"`
}

// ProjectileState represents a snapshot of a projectile
type ProjectileState struct {
	ID       entity.ID    `json:"id" msgpack:"id"`
	Position physics.Vec3 `json:"position" msgpack:"position"`
	Radius   float64      `json:"radius" msgpack:"radius"`
}

// BossState represents a snapshot of a fighting boss
type BossState struct {
	Position  physics.Vec3 `json:"position" msgpack:"position"`
	Scale     float64      `json:"scale" msgpack:"scale"`
	Health    int          `json:"health" msgpack:"health"`
	MaxHealth int          `json:"maxHealth" msgpack:"maxHealth"`
	Flashing  bool         `json:"flashing" msgpack:"flashing"`
}

// HUDState carries the numbers shown around the play field
type HUDState struct {
	Score   int     `json:"score" msgpack:"score"`
	Lives   int     `json:"lives" msgpack:"lives"`
	Level   int     `json:"level" msgpack:"level"`
	Elapsed float64 `json:"elapsed" msgpack:"elapsed"`
}

// HealthFraction returns boss health as a fraction of max health, in [0, 1]
func (b *BossState) HealthFraction() float64 {
	if b.MaxHealth <= 0 {
		return 0
	}
	return float64(b.Health) / float64(b.MaxHealth)
}

// Frame builds a snapshot of the current state. The result shares no
// memory with the game.
func (g *Game) Frame() *Frame {
	frame := &Frame{
		Tick:   g.tick,
		Status: g.status,
		Camera: g.camera,
		Ship: ShipState{
			Position:        g.Ship.Position,
			Radius:          g.Ship.Radius,
			AccelMultiplier: g.Ship.AccelMultiplier(),
			CanShoot:        g.Ship.CanShoot(),
		},
		HUD: HUDState{
			Score:   g.hud.Score(),
			Lives:   g.hud.Lives(),
			Level:   g.level,
			Elapsed: g.elapsed,
		},
	}

	asteroids := g.Asteroids.Asteroids()
	frame.Asteroids = make([]AsteroidState, 0, len(asteroids))
	for _, a := range asteroids {
		if !a.Active {
			continue
		}
		frame.Asteroids = append(frame.Asteroids, AsteroidState{
			ID:       a.GetID(),
			Position: a.Position,
			Rotation: a.Rotation.Angles,
			Scale:    a.Scale,
		})
	}

	frame.Projectiles = make([]ProjectileState, 0, len(g.projectiles))
	for _, p := range g.projectiles {
		if !p.Active {
			continue
		}
		frame.Projectiles = append(frame.Projectiles, ProjectileState{
			ID:       p.GetID(),
			Position: p.Position,
			Radius:   p.Radius,
		})
	}

	if boss := g.Bosses.Boss(); boss.State == entity.BossActive {
		frame.Boss = &BossState{
			Position:  boss.Position,
			Scale:     boss.Scale(),
			Health:    boss.Health,
			MaxHealth: boss.MaxHealth(),
			Flashing:  boss.Flashing(),
		}
	}

	return frame
}
