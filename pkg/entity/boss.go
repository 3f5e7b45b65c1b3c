// pkg/entity/boss.go
package entity

import (
	"math"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// BossState is the boss lifecycle state
type BossState int

const (
	BossDormant BossState = iota
	BossActive
	BossDestroyed
)

// String returns the state name
func (s BossState) String() string {
	switch s {
	case BossActive:
		return "active"
	case BossDestroyed:
		return "destroyed"
	default:
		return "dormant"
	}
}

// Boss hovers ahead of the ship and soaks projectile hits. Health only
// changes while Active; Destroyed lasts until the next Activate.
type Boss struct {
	BaseEntity
	State  BossState
	Health int

	cfg        config.BossConfig
	flashTimer float64
	elapsed    float64
}

// NewBoss creates a dormant boss
func NewBoss(cfg config.BossConfig) *Boss {
	b := &Boss{
		BaseEntity: newBaseEntity(physics.V3(0, cfg.Height, 0), cfg.Scale*cfg.RadiusFactor),
		cfg:        cfg,
	}
	b.Reset()
	return b
}

// Reset returns the boss to Dormant
func (b *Boss) Reset() {
	b.State = BossDormant
	b.Active = false
	b.Health = b.cfg.MaxHealth
	b.flashTimer = 0
	b.elapsed = 0
	b.Position = physics.V3(0, b.cfg.Height, 0)
}

// Activate starts a fight with full health, placed ahead of the ship
func (b *Boss) Activate(shipZ float64) {
	b.State = BossActive
	b.Active = true
	b.Health = b.cfg.MaxHealth
	b.flashTimer = 0
	b.elapsed = 0
	b.Position = physics.V3(0, b.cfg.Height, shipZ+b.cfg.ForwardOffset)
}

// TakeDamage applies damage and arms the hit flash. It returns true only on
// the hit that destroys the boss.
func (b *Boss) TakeDamage(amount int) bool {
	if b.State != BossActive {
		return false
	}

	b.Health -= amount
	b.flashTimer = b.cfg.FlashDuration

	if b.Health <= 0 {
		b.Health = 0
		b.State = BossDestroyed
		b.Active = false
		return true
	}
	return false
}

// Update tracks the ship while active and counts the flash down
func (b *Boss) Update(deltaTime float64, shipPos physics.Vec3) {
	if b.flashTimer > 0 {
		b.flashTimer = math.Max(0, b.flashTimer-deltaTime)
	}
	if b.State != BossActive {
		return
	}

	b.elapsed += deltaTime
	b.Position = physics.V3(
		shipPos.X(),
		physics.Oscillate(b.cfg.Height, b.elapsed*b.cfg.OscillationSpeed, b.cfg.OscillationAmount),
		shipPos.Z()+b.cfg.ForwardOffset,
	)
}

// Flashing reports the on phase of the hit flash blink
func (b *Boss) Flashing() bool {
	return b.flashTimer > 0 && int(math.Floor(b.flashTimer*20))%2 == 0
}

// HealthFraction returns health as a fraction of max health, in [0, 1]
func (b *Boss) HealthFraction() float64 {
	if b.cfg.MaxHealth <= 0 {
		return 0
	}
	return float64(b.Health) / float64(b.cfg.MaxHealth)
}

// MaxHealth returns the configured full health
func (b *Boss) MaxHealth() int {
	return b.cfg.MaxHealth
}

// Scale returns the render scale
func (b *Boss) Scale() float64 {
	return b.cfg.Scale
}
