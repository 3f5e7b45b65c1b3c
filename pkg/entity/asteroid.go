// pkg/entity/asteroid.go
package entity

import (
	"math"
	"math/rand/v2"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// Asteroid drifts toward the player along -Z while tumbling. Its collision
// radius equals its scale.
type Asteroid struct {
	BaseEntity
	Scale    float64
	Rotation physics.Rotation
	Scored   bool

	despawnZ float64
}

// NewAsteroid creates an asteroid moving along -Z at speed
func NewAsteroid(position physics.Vec3, speed, scale float64, rotation physics.Rotation, despawnZ float64) *Asteroid {
	a := &Asteroid{
		BaseEntity: newBaseEntity(position, scale),
		Scale:      scale,
		Rotation:   rotation,
		despawnZ:   despawnZ,
	}
	a.Velocity = physics.V3(0, 0, -speed)
	return a
}

// RandomAsteroid creates an asteroid at (x, z) with a random size and tumble
func RandomAsteroid(rng *rand.Rand, cfg config.AsteroidConfig, x, z, speed float64) *Asteroid {
	scale := cfg.MinScale + rng.Float64()*cfg.ScaleRange
	rotation := physics.Rotation{
		Angles: physics.V3(rng.Float64()*2*math.Pi, rng.Float64()*2*math.Pi, rng.Float64()*2*math.Pi),
		Spin:   physics.V3(signedUnit(rng)*cfg.MaxSpin, signedUnit(rng)*cfg.MaxSpin, signedUnit(rng)*cfg.MaxSpin),
	}
	return NewAsteroid(physics.V3(x, cfg.Height, z), speed, scale, rotation, cfg.DespawnZ)
}

// signedUnit returns a value in [-1, 1)
func signedUnit(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 2
}

// Speed returns the magnitude of the approach velocity
func (a *Asteroid) Speed() float64 {
	return -a.Velocity.Z()
}

// Update moves and spins the asteroid and deactivates it once it is behind
// the despawn plane.
func (a *Asteroid) Update(deltaTime float64) {
	if !a.Active {
		return
	}
	a.BaseEntity.Update(deltaTime)
	a.Rotation.Advance(deltaTime)
	if a.Position.Z() < a.despawnZ {
		a.Active = false
	}
}

// CollidesWith tests the asteroid against another sphere
func (a *Asteroid) CollidesWith(other physics.Sphere) bool {
	return a.Active && a.GetCollider().Collides(other)
}

// MarkPassed sets Scored the first time the asteroid is behind passZ and
// reports whether it did so on this call.
func (a *Asteroid) MarkPassed(passZ float64) bool {
	if a.Scored || !a.Active || a.Position.Z() >= passZ {
		return false
	}
	a.Scored = true
	return true
}
