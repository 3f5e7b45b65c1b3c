// pkg/engine/asteroids.go
package engine

import (
	"math"
	"math/rand/v2"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/entity"
	"github.com/opd-ai/go-asteroid-run/pkg/event"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// AsteroidOutcome is the result of one AsteroidManager update: either
// Clear or Impact.
type AsteroidOutcome interface {
	asteroidOutcome()
}

// Clear means no asteroid reached the ship this frame
type Clear struct {
	Score int
}

// Impact means an asteroid hit the ship. Score holds dodge rewards earned
// earlier in the same frame.
type Impact struct {
	Position physics.Vec3
	Score    int
}

func (Clear) asteroidOutcome()  {}
func (Impact) asteroidOutcome() {}

// AsteroidManager owns the live asteroids, spawns them on a timer and
// raises the difficulty over time.
type AsteroidManager struct {
	cfg         config.AsteroidConfig
	waves       config.WaveConfig
	dodgeReward int
	shipRadius  float64
	rng         *rand.Rand
	events      event.Publisher

	asteroids        []*entity.Asteroid
	elapsed          float64
	spawnTimer       float64
	waveTimer        float64
	difficulty       int
	nextDifficultyAt float64
	throttle         float64

	baseInterval  float64
	minSpeed      float64
	maxSpeed      float64
	spawnRangeX   float64
	spawnDistance float64
}

// NewAsteroidManager creates a manager at difficulty 0
func NewAsteroidManager(cfg *config.GameConfig, rng *rand.Rand, events event.Publisher) *AsteroidManager {
	if events == nil {
		events = event.Discard
	}
	m := &AsteroidManager{
		cfg:         cfg.Asteroids,
		waves:       cfg.Waves,
		dodgeReward: cfg.Scoring.AsteroidDodged,
		shipRadius:  cfg.Ship.Radius,
		rng:         rng,
		events:      events,
	}
	m.Reset()
	return m
}

// Reset clears all asteroids and restores every tunable to difficulty 0
func (m *AsteroidManager) Reset() {
	clear(m.asteroids)
	m.asteroids = m.asteroids[:0]
	m.elapsed = 0
	m.spawnTimer = 0
	m.waveTimer = 0
	m.difficulty = 0
	m.nextDifficultyAt = m.cfg.DifficultyInterval
	m.throttle = 1
	m.retune()
}

// SpawnIntervalFor returns the unthrottled spawn interval at a difficulty:
// max(floor, base - level*step).
func SpawnIntervalFor(cfg config.AsteroidConfig, level int) float64 {
	return math.Max(cfg.MinSpawnInterval, cfg.BaseSpawnInterval-float64(level)*cfg.SpawnIntervalStep)
}

// SpeedRangeFor returns the asteroid speed range at a difficulty
func SpeedRangeFor(cfg config.AsteroidConfig, level int) (minSpeed, maxSpeed float64) {
	minSpeed = math.Min(cfg.SpeedCap, cfg.BaseMinSpeed+float64(level)*cfg.MinSpeedStep)
	maxSpeed = math.Min(cfg.SpeedCap, cfg.BaseMaxSpeed+float64(level)*cfg.MaxSpeedStep)
	return minSpeed, maxSpeed
}

// SpawnRangeXFor returns the lateral spawn half-range at a difficulty
func SpawnRangeXFor(cfg config.AsteroidConfig, level int) float64 {
	return math.Min(cfg.MaxSpawnRangeX, cfg.BaseSpawnRangeX+float64(level)*cfg.SpawnRangeStep)
}

// SpawnDistanceFor returns the spawn depth at a difficulty
func SpawnDistanceFor(cfg config.AsteroidConfig, level int) float64 {
	return math.Min(cfg.MaxSpawnDistance, cfg.BaseSpawnDistance+float64(level)*cfg.SpawnDistanceStep)
}

func (m *AsteroidManager) retune() {
	m.baseInterval = SpawnIntervalFor(m.cfg, m.difficulty)
	m.minSpeed, m.maxSpeed = SpeedRangeFor(m.cfg, m.difficulty)
	m.spawnRangeX = SpawnRangeXFor(m.cfg, m.difficulty)
	m.spawnDistance = SpawnDistanceFor(m.cfg, m.difficulty)
}

// Throttle stretches the spawn interval by factor until Unthrottle.
// Difficulty bumps keep the throttle.
func (m *AsteroidManager) Throttle(factor float64) {
	m.throttle = math.Max(1, factor)
}

// Unthrottle restores the spawn interval derived from the difficulty
func (m *AsteroidManager) Unthrottle() {
	m.throttle = 1
}

// Update advances time, spawns, moves every asteroid and tests the ship.
// It stops at the first asteroid that hits the ship.
func (m *AsteroidManager) Update(deltaTime float64, shipPos physics.Vec3) AsteroidOutcome {
	m.elapsed += deltaTime
	if m.elapsed >= m.nextDifficultyAt && m.difficulty < m.cfg.MaxDifficulty {
		m.difficulty++
		m.nextDifficultyAt += m.cfg.DifficultyInterval
		m.retune()
		m.events.Publish(event.NewDifficultyEvent(m, m.difficulty, m.SpawnInterval(), m.minSpeed, m.maxSpeed))
	}

	if m.waves.Enabled && m.difficulty >= m.waves.MinLevel {
		m.waveTimer += deltaTime
		if m.waveTimer >= m.waves.Interval {
			m.waveTimer = 0
			m.spawnWave(shipPos)
		}
	}

	m.spawnTimer += deltaTime
	if m.spawnTimer >= m.SpawnInterval() {
		m.spawnTimer = 0
		m.spawnSingle(shipPos)
	}

	return m.advance(deltaTime, shipPos)
}

func (m *AsteroidManager) advance(deltaTime float64, shipPos physics.Vec3) AsteroidOutcome {
	ship := physics.Sphere{Center: shipPos, Radius: m.shipRadius}
	passZ := shipPos.Z() - m.cfg.PassMargin
	score := 0

	all := m.asteroids
	kept := all[:0]
	for i, a := range all {
		a.Update(deltaTime)
		if !a.Active {
			continue
		}

		if a.CollidesWith(ship) {
			kept = append(kept, all[i+1:]...)
			clear(all[len(kept):])
			m.asteroids = kept
			return Impact{Position: a.Position, Score: score}
		}

		if a.MarkPassed(passZ) {
			score += m.dodgeReward
			m.events.Publish(event.NewScoreEvent(event.AsteroidDodged, m, uint64(a.GetID()), m.dodgeReward))
		}
		kept = append(kept, a)
	}
	clear(all[len(kept):])
	m.asteroids = kept

	return Clear{Score: score}
}

func (m *AsteroidManager) randomSpeed() float64 {
	return m.minSpeed + m.rng.Float64()*(m.maxSpeed-m.minSpeed)
}

func (m *AsteroidManager) signed() float64 {
	return (m.rng.Float64() - 0.5) * 2
}

// spawnSingle places one asteroid spawnDistance ahead of the ship, usually
// in a narrow corridor around its x
func (m *AsteroidManager) spawnSingle(shipPos physics.Vec3) {
	halfWidth := m.spawnRangeX
	if m.rng.Float64() < m.cfg.CorridorChance {
		halfWidth = m.cfg.CorridorHalfWidth
	}
	x := shipPos.X() + m.signed()*halfWidth
	z := shipPos.Z() + m.spawnDistance
	m.asteroids = append(m.asteroids, entity.RandomAsteroid(m.rng, m.cfg, x, z, m.randomSpeed()))
}

// spawnWave places a horizontal line of asteroids sharing one speed,
// centered near the ship
func (m *AsteroidManager) spawnWave(shipPos physics.Vec3) {
	count := m.waves.MinCount
	if spread := m.waves.MaxCount - m.waves.MinCount; spread > 0 {
		count += m.rng.IntN(spread + 1)
	}

	width := float64(count-1) * m.waves.Spacing
	centerLimit := math.Max(0, m.spawnRangeX-width/2)
	center := shipPos.X() + m.signed()*centerLimit
	depth := shipPos.Z() + m.spawnDistance
	speed := m.randomSpeed()

	for i := 0; i < count; i++ {
		x := center - width/2 + float64(i)*m.waves.Spacing + m.signed()*m.waves.Jitter
		z := depth + m.signed()*m.waves.Jitter
		m.asteroids = append(m.asteroids, entity.RandomAsteroid(m.rng, m.cfg, x, z, speed))
	}
	m.events.Publish(event.NewWaveEvent(m, count, depth))
}

// Asteroids returns the live asteroids in spawn order. Callers must not
// keep the slice across updates.
func (m *AsteroidManager) Asteroids() []*entity.Asteroid {
	return m.asteroids
}

// Difficulty returns the integer difficulty level, starting at 0
func (m *AsteroidManager) Difficulty() int { return m.difficulty }

// Elapsed returns the seconds simulated since the last reset
func (m *AsteroidManager) Elapsed() float64 { return m.elapsed }

// SpawnInterval returns the current spawn interval including any throttle
func (m *AsteroidManager) SpawnInterval() float64 { return m.baseInterval * m.throttle }

// Throttled reports whether a boss fight is stretching the spawn interval
func (m *AsteroidManager) Throttled() bool { return m.throttle > 1 }

// SpeedRange returns the current asteroid speed range
func (m *AsteroidManager) SpeedRange() (minSpeed, maxSpeed float64) { return m.minSpeed, m.maxSpeed }

// SpawnRangeX returns the current lateral spawn half-range
func (m *AsteroidManager) SpawnRangeX() float64 { return m.spawnRangeX }

// SpawnDistance returns the current spawn depth
func (m *AsteroidManager) SpawnDistance() float64 { return m.spawnDistance }
