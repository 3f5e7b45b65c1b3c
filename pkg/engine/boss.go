// pkg/engine/boss.go
package engine

import (
	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/entity"
	"github.com/opd-ai/go-asteroid-run/pkg/event"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// BossHit is the result of testing a projectile against the boss: one of
// BossMiss, BossDamaged or BossDefeat.
type BossHit interface {
	bossHit()
}

// BossMiss means the projectile did not touch a fighting boss
type BossMiss struct{}

// BossDamaged means the boss took a non-lethal hit
type BossDamaged struct {
	Score  int
	Health int
}

// BossDefeat means the hit destroyed the boss
type BossDefeat struct {
	Score     int
	ExtraLife bool
}

func (BossMiss) bossHit()    {}
func (BossDamaged) bossHit() {}
func (BossDefeat) bossHit()  {}

// BossManager activates the boss at level milestones and resolves hits.
// While a fight is active the asteroid spawn interval is throttled.
type BossManager struct {
	cfg       config.BossConfig
	scoring   config.ScoringConfig
	boss      *entity.Boss
	asteroids *AsteroidManager
	events    event.Publisher

	nextBossLevel int
	fightActive   bool
	level         int
}

// NewBossManager creates a manager whose first fight starts at
// cfg.Boss.FirstLevel.
func NewBossManager(cfg *config.GameConfig, asteroids *AsteroidManager, events event.Publisher) *BossManager {
	if events == nil {
		events = event.Discard
	}
	m := &BossManager{
		cfg:       cfg.Boss,
		scoring:   cfg.Scoring,
		boss:      entity.NewBoss(cfg.Boss),
		asteroids: asteroids,
		events:    events,
	}
	m.Reset()
	return m
}

// Reset makes the boss dormant and rewinds the milestone
func (m *BossManager) Reset() {
	m.boss.Reset()
	m.nextBossLevel = m.cfg.FirstLevel
	m.fightActive = false
	m.level = 0
}

// Update starts a fight when level reaches the next milestone and moves the boss
func (m *BossManager) Update(deltaTime float64, level int, shipPos physics.Vec3) {
	m.level = level
	if !m.fightActive && level >= m.nextBossLevel {
		m.activate(shipPos)
	}
	m.boss.Update(deltaTime, shipPos)
}

func (m *BossManager) activate(shipPos physics.Vec3) {
	m.fightActive = true
	m.boss.Activate(shipPos.Z())
	m.asteroids.Throttle(m.cfg.SpawnThrottle)
	m.events.Publish(event.NewBossEvent(event.BossActivated, m, m.level, m.boss.Health, 0))
}

// CheckProjectileHit applies a projectile hit to the fighting boss. The
// caller spends the projectile on any result other than BossMiss.
func (m *BossManager) CheckProjectileHit(p *entity.Projectile) BossHit {
	if !m.fightActive || !p.HitsBoss(m.boss) {
		return BossMiss{}
	}

	if m.boss.TakeDamage(m.cfg.ProjectileDamage) {
		return m.defeat()
	}

	m.events.Publish(event.NewBossEvent(event.BossHit, m, m.level, m.boss.Health, m.scoring.BossHit))
	return BossDamaged{Score: m.scoring.BossHit, Health: m.boss.Health}
}

func (m *BossManager) defeat() BossDefeat {
	m.fightActive = false
	m.nextBossLevel += m.cfg.LevelStep
	m.asteroids.Unthrottle()
	m.events.Publish(event.NewBossEvent(event.BossDefeated, m, m.level, 0, m.scoring.BossDefeated))
	return BossDefeat{Score: m.scoring.BossDefeated, ExtraLife: m.cfg.ExtraLifeOnDefeat}
}

// Boss returns the managed boss for read-only use
func (m *BossManager) Boss() *entity.Boss { return m.boss }

// FightActive reports whether a boss fight is in progress
func (m *BossManager) FightActive() bool { return m.fightActive }

// NextBossLevel returns the level that starts the next fight
func (m *BossManager) NextBossLevel() int { return m.nextBossLevel }
