// pkg/entity/ship.go
package entity

import (
	"math"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/input"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// Ship is the player ship. It moves on the grid plane at a fixed height and
// never leaves the square [-Bound, Bound] on X and Z.
type Ship struct {
	BaseEntity
	cfg config.ShipConfig

	levelMultiplier float64
	accelMultiplier float64
	accelUnlocked   bool
	cooldown        float64
	fireHeld        bool
}

// NewShip creates a ship at the grid origin
func NewShip(cfg config.ShipConfig) *Ship {
	s := &Ship{
		BaseEntity: newBaseEntity(physics.V3(0, cfg.Height, 0), cfg.Radius),
		cfg:        cfg,
	}
	s.Reset()
	return s
}

// Reset puts the ship back at the origin with level 0 multipliers
func (s *Ship) Reset() {
	s.Position = physics.V3(0, s.cfg.Height, 0)
	s.Velocity = physics.Vec3{}
	s.Active = true
	s.levelMultiplier = 1
	s.accelMultiplier = 1
	s.accelUnlocked = false
	s.cooldown = 0
	s.fireHeld = false
}

// Update applies one frame of held input
func (s *Ship) Update(deltaTime float64, in input.Snapshot) {
	s.fireHeld = in.Fire

	switch {
	case !s.accelUnlocked:
		s.accelMultiplier = 1
	case in.Moving():
		s.accelMultiplier = physics.Approach(s.accelMultiplier, s.cfg.MaxAccel, s.cfg.AccelRate*deltaTime)
	default:
		s.accelMultiplier = physics.Approach(s.accelMultiplier, 1, s.cfg.AccelDecayRate*deltaTime)
	}

	dx, dz := in.Direction()
	speed := s.cfg.BaseSpeed * s.levelMultiplier * s.accelMultiplier
	s.Velocity = physics.V3(dx*speed, 0, dz*speed)

	s.BaseEntity.Update(deltaTime)
	s.Position[0] = physics.ClampSymmetric(s.Position.X(), s.cfg.Bound)
	s.Position[1] = s.cfg.Height
	s.Position[2] = physics.ClampSymmetric(s.Position.Z(), s.cfg.Bound)

	if s.cooldown > 0 {
		s.cooldown = math.Max(0, s.cooldown-deltaTime)
	}
}

// UpdateLevel recomputes the level speed multiplier and latches the
// acceleration unlock once the unlock level is reached.
func (s *Ship) UpdateLevel(level int) {
	if level < 0 {
		level = 0
	}
	tiers := level / s.cfg.LevelsPerSpeedStep
	s.levelMultiplier = 1 + s.cfg.LevelSpeedStep*float64(tiers)
	if level >= s.cfg.AccelUnlockLevel {
		s.accelUnlocked = true
	}
}

// TryShoot reports whether a projectile may be spawned this frame and
// restarts the cooldown when it may.
func (s *Ship) TryShoot() bool {
	if !s.fireHeld || !s.CanShoot() {
		return false
	}
	s.cooldown = s.cfg.ShootCooldown
	return true
}

// CanShoot reports whether the cooldown has elapsed
func (s *Ship) CanShoot() bool {
	return s.cooldown <= 0
}

// LevelMultiplier returns the level speed factor
func (s *Ship) LevelMultiplier() float64 { return s.levelMultiplier }

// AccelMultiplier returns the held-input acceleration factor
func (s *Ship) AccelMultiplier() float64 { return s.accelMultiplier }

// AccelUnlocked reports whether acceleration has been unlocked
func (s *Ship) AccelUnlocked() bool { return s.accelUnlocked }
