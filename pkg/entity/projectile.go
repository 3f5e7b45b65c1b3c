// pkg/entity/projectile.go
package entity

import (
	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// Projectile is a shot fired straight ahead (+Z) from the ship
type Projectile struct {
	BaseEntity
	Range            float64
	DistanceTraveled float64
}

// NewProjectile creates a projectile at origin
func NewProjectile(origin physics.Vec3, cfg config.ProjectileConfig) *Projectile {
	p := &Projectile{
		BaseEntity: newBaseEntity(origin, cfg.Radius),
		Range:      cfg.MaxTravel,
	}
	p.Velocity = physics.V3(0, 0, cfg.Speed)
	return p
}

// Update moves the projectile and expires it after its range
func (p *Projectile) Update(deltaTime float64) {
	if !p.Active {
		return
	}

	p.BaseEntity.Update(deltaTime)
	p.DistanceTraveled += p.Velocity.Len() * deltaTime

	if p.DistanceTraveled >= p.Range {
		p.Active = false
	}
}

// Hits tests a live projectile against a target sphere
func (p *Projectile) Hits(target physics.Sphere) bool {
	return p.Active && p.GetCollider().Collides(target)
}

// HitsAsteroid tests the projectile against a live asteroid
func (p *Projectile) HitsAsteroid(a *Asteroid) bool {
	return a.Active && p.Hits(a.GetCollider())
}

// HitsBoss tests the projectile against the boss while it is fighting
func (p *Projectile) HitsBoss(b *Boss) bool {
	return b.State == BossActive && p.Hits(b.GetCollider())
}

// Spend deactivates the projectile after an impact
func (p *Projectile) Spend() {
	p.Active = false
}
