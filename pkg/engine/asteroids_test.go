// pkg/engine/asteroids_test.go
package engine

import (
	"math"
	"testing"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/event"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

func TestSpawnIntervalFor_NeverBelowFloor(t *testing.T) {
	cfg := config.DefaultConfig().Asteroids

	for level := 0; level <= 10000; level++ {
		if interval := SpawnIntervalFor(cfg, level); interval < cfg.MinSpawnInterval {
			t.Fatalf("SpawnIntervalFor(%d) = %f, below floor %f", level, interval, cfg.MinSpawnInterval)
		}
	}
}

func TestSpawnIntervalFor_Levels(t *testing.T) {
	cfg := config.DefaultConfig().Asteroids

	tests := []struct {
		level int
		want  float64
	}{
		{0, 1.5},
		{1, 1.35},
		{5, math.Max(0.3, 1.5-5*0.15)},
		{8, 0.3},
		{50, 0.3},
	}
	for _, tt := range tests {
		if got := SpawnIntervalFor(cfg, tt.level); math.Abs(got-tt.want) > epsilon {
			t.Errorf("SpawnIntervalFor(%d) = %f, want %f", tt.level, got, tt.want)
		}
	}
}

func TestDifficultyRanges_MonotonicAndCapped(t *testing.T) {
	cfg := config.DefaultConfig().Asteroids

	prevMin, prevMax := SpeedRangeFor(cfg, 0)
	prevRange := SpawnRangeXFor(cfg, 0)
	prevDistance := SpawnDistanceFor(cfg, 0)

	for level := 1; level <= 200; level++ {
		minSpeed, maxSpeed := SpeedRangeFor(cfg, level)
		rangeX := SpawnRangeXFor(cfg, level)
		distance := SpawnDistanceFor(cfg, level)

		if minSpeed < prevMin || maxSpeed < prevMax || rangeX < prevRange || distance < prevDistance {
			t.Fatalf("Level %d decreased a tunable", level)
		}
		if minSpeed > maxSpeed {
			t.Fatalf("Level %d: min speed %f above max %f", level, minSpeed, maxSpeed)
		}
		if maxSpeed > cfg.SpeedCap || rangeX > cfg.MaxSpawnRangeX || distance > cfg.MaxSpawnDistance {
			t.Fatalf("Level %d exceeded a cap", level)
		}
		prevMin, prevMax, prevRange, prevDistance = minSpeed, maxSpeed, rangeX, distance
	}
}

func TestAsteroidManager_DifficultyBump(t *testing.T) {
	rec := &recorder{}
	m := NewAsteroidManager(quietConfig(), testRand(), rec)
	far := physics.V3(0, 0.3, -10)

	for i := 0; i < 29; i++ {
		m.Update(0.5, far)
	}
	if m.Difficulty() != 0 {
		t.Fatalf("Expected difficulty 0 before 15s, got %d", m.Difficulty())
	}

	m.Update(0.5, far)
	if m.Difficulty() != 1 {
		t.Fatalf("Expected difficulty 1 at 15s, got %d", m.Difficulty())
	}
	if rec.count(event.DifficultyChanged) != 1 {
		t.Errorf("Expected 1 difficulty event, got %d", rec.count(event.DifficultyChanged))
	}

	minSpeed, maxSpeed := m.SpeedRange()
	if math.Abs(minSpeed-3.3) > epsilon || math.Abs(maxSpeed-6.5) > epsilon {
		t.Errorf("Expected speed range 3.3-6.5, got %f-%f", minSpeed, maxSpeed)
	}
	if m.SpawnRangeX() != 8.5 || m.SpawnDistance() != 16 {
		t.Errorf("Expected range 8.5 distance 16, got %f %f", m.SpawnRangeX(), m.SpawnDistance())
	}
}

func TestAsteroidManager_DifficultyStopsAtMax(t *testing.T) {
	cfg := quietConfig()
	cfg.Asteroids.DifficultyInterval = 1
	cfg.Asteroids.MaxDifficulty = 3
	m := NewAsteroidManager(cfg, testRand(), nil)

	for i := 0; i < 10; i++ {
		m.Update(1, physics.V3(0, 0.3, -10))
	}
	if m.Difficulty() != 3 {
		t.Errorf("Expected difficulty capped at 3, got %d", m.Difficulty())
	}
}

type managerState struct {
	count                                          int
	elapsed, spawnTimer, waveTimer, next           float64
	difficulty                                     int
	interval, minSpeed, maxSpeed, rangeX, distance float64
	throttled                                      bool
}

func snapshotManager(m *AsteroidManager) managerState {
	minSpeed, maxSpeed := m.SpeedRange()
	return managerState{
		count:      len(m.Asteroids()),
		elapsed:    m.elapsed,
		spawnTimer: m.spawnTimer,
		waveTimer:  m.waveTimer,
		next:       m.nextDifficultyAt,
		difficulty: m.Difficulty(),
		interval:   m.SpawnInterval(),
		minSpeed:   minSpeed,
		maxSpeed:   maxSpeed,
		rangeX:     m.SpawnRangeX(),
		distance:   m.SpawnDistance(),
		throttled:  m.Throttled(),
	}
}

func TestAsteroidManager_ResetIdempotent(t *testing.T) {
	cfg := config.DefaultConfig()
	m := NewAsteroidManager(cfg, testRand(), nil)
	fresh := snapshotManager(m)

	m.Throttle(1.5)
	for i := 0; i < 100; i++ {
		m.Update(0.5, physics.V3(0, 0.3, -10))
	}
	if len(m.Asteroids()) == 0 || m.Difficulty() == 0 {
		t.Fatal("Expected the manager to have spawned and ramped before reset")
	}

	m.Reset()
	once := snapshotManager(m)
	m.Reset()
	twice := snapshotManager(m)

	if once != twice {
		t.Errorf("Reset twice = %+v, reset once = %+v", twice, once)
	}
	if once != fresh {
		t.Errorf("Reset = %+v, want fresh state %+v", once, fresh)
	}
}

func TestAsteroidManager_ShipCollision(t *testing.T) {
	m := NewAsteroidManager(quietConfig(), testRand(), nil)
	ahead := place(m, 0, 10, 3)
	hit := place(m, 0, 0, 3)
	later := place(m, 0, 12, 3)

	outcome := m.Update(0.01, origin)

	impact, ok := outcome.(Impact)
	if !ok {
		t.Fatalf("Expected Impact, got %T", outcome)
	}
	if math.Abs(impact.Position.Z()-hit.Position.Z()) > epsilon {
		t.Errorf("Expected impact at the colliding asteroid, got %v", impact.Position)
	}

	remaining := m.Asteroids()
	if len(remaining) != 2 || remaining[0] != ahead || remaining[1] != later {
		t.Errorf("Expected the other two asteroids kept in order, got %d", len(remaining))
	}
}

func TestAsteroidManager_FirstCollisionWins(t *testing.T) {
	m := NewAsteroidManager(quietConfig(), testRand(), nil)
	first := place(m, 0.1, 0, 1)
	second := place(m, -0.1, 0, 1)

	if _, ok := m.Update(0.01, origin).(Impact); !ok {
		t.Fatal("Expected first update to report an impact")
	}
	if len(m.Asteroids()) != 1 || m.Asteroids()[0] != second {
		t.Fatal("Expected only the first colliding asteroid removed")
	}
	if first.Position.Z() == 0 {
		t.Error("Expected the first asteroid to have advanced before colliding")
	}

	if _, ok := m.Update(0.01, origin).(Impact); !ok {
		t.Fatal("Expected the second asteroid to collide on the next update")
	}
	if len(m.Asteroids()) != 0 {
		t.Errorf("Expected no asteroids left, got %d", len(m.Asteroids()))
	}
}

func TestAsteroidManager_DodgeScoring(t *testing.T) {
	rec := &recorder{}
	m := NewAsteroidManager(quietConfig(), testRand(), rec)
	place(m, 3, -1.9, 1)

	outcome := m.Update(0.2, origin)
	clearOutcome, ok := outcome.(Clear)
	if !ok || clearOutcome.Score != 10 {
		t.Fatalf("Expected Clear{10}, got %#v", outcome)
	}

	outcome = m.Update(0.2, origin)
	if clearOutcome, ok = outcome.(Clear); !ok || clearOutcome.Score != 0 {
		t.Errorf("Expected Clear{0} on the next frame, got %#v", outcome)
	}
	if rec.count(event.AsteroidDodged) != 1 {
		t.Errorf("Expected 1 dodge event, got %d", rec.count(event.AsteroidDodged))
	}
}

func TestAsteroidManager_DodgeKeptOnImpact(t *testing.T) {
	m := NewAsteroidManager(quietConfig(), testRand(), nil)
	place(m, 3, -1.9, 1)
	place(m, 0, 0, 1)

	outcome := m.Update(0.2, origin)
	impact, ok := outcome.(Impact)
	if !ok {
		t.Fatalf("Expected Impact, got %T", outcome)
	}
	if impact.Score != 10 {
		t.Errorf("Expected dodge reward 10 kept in the impact, got %d", impact.Score)
	}
}

func TestAsteroidManager_ReapBeforeScore(t *testing.T) {
	m := NewAsteroidManager(quietConfig(), testRand(), nil)
	place(m, 3, -14.9, 1)

	outcome := m.Update(0.2, origin)
	if c, ok := outcome.(Clear); !ok || c.Score != 0 {
		t.Errorf("Expected Clear{0} for a reaped asteroid, got %#v", outcome)
	}
	if len(m.Asteroids()) != 0 {
		t.Errorf("Expected asteroid past the despawn plane removed, got %d", len(m.Asteroids()))
	}
}

func TestAsteroidManager_DestroyedAsteroidReaped(t *testing.T) {
	m := NewAsteroidManager(quietConfig(), testRand(), nil)
	a := place(m, 5, 5, 1)
	a.Active = false

	m.Update(0.1, origin)
	if len(m.Asteroids()) != 0 {
		t.Errorf("Expected deactivated asteroid reaped, got %d", len(m.Asteroids()))
	}
}

func TestAsteroidManager_Throttle(t *testing.T) {
	m := NewAsteroidManager(config.DefaultConfig(), testRand(), nil)

	m.Throttle(1.5)
	if math.Abs(m.SpawnInterval()-2.25) > epsilon || !m.Throttled() {
		t.Fatalf("Expected throttled interval 2.25, got %f", m.SpawnInterval())
	}

	m.Throttle(1.5)
	if math.Abs(m.SpawnInterval()-2.25) > epsilon {
		t.Errorf("Expected repeated throttle not to compound, got %f", m.SpawnInterval())
	}

	m.Unthrottle()
	if m.SpawnInterval() != 1.5 || m.Throttled() {
		t.Errorf("Expected interval 1.5 after unthrottle, got %f", m.SpawnInterval())
	}
}

func TestAsteroidManager_SingleSpawn(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Waves.Enabled = false
	m := NewAsteroidManager(cfg, testRand(), nil)
	far := physics.V3(0, 0.3, -10)

	m.Update(0.5, far)
	m.Update(0.5, far)
	if len(m.Asteroids()) != 0 {
		t.Fatalf("Expected no spawn before 1.5s, got %d", len(m.Asteroids()))
	}

	m.Update(0.5, far)
	if len(m.Asteroids()) != 1 {
		t.Fatalf("Expected one spawn at 1.5s, got %d", len(m.Asteroids()))
	}

	a := m.Asteroids()[0]
	if a.Position.Y() != 0.5 {
		t.Errorf("Expected spawn height 0.5, got %f", a.Position.Y())
	}
	if math.Abs(a.Position.X()) > 8 {
		t.Errorf("Expected lateral offset within 8, got %f", a.Position.X())
	}
	if a.Speed() < 3 || a.Speed() > 6 {
		t.Errorf("Expected speed in [3, 6], got %f", a.Speed())
	}
}

func TestAsteroidManager_SpawnRelativeToShip(t *testing.T) {
	tests := []struct {
		name string
		ship physics.Vec3
	}{
		{"origin", physics.V3(0, 0.3, 0)},
		{"forward wall", physics.V3(0, 0.3, 10)},
		{"back wall", physics.V3(0, 0.3, -10)},
		{"right side", physics.V3(-6, 0.3, 4)},
		{"left side", physics.V3(7, 0.3, -3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Waves.Enabled = false
			cfg.Asteroids.CorridorChance = 0
			m := NewAsteroidManager(cfg, testRand(), nil)

			for i := 0; i < 3; i++ {
				m.Update(0.5, tt.ship)
			}
			if len(m.Asteroids()) != 1 {
				t.Fatalf("Expected one spawn at 1.5s, got %d", len(m.Asteroids()))
			}

			a := m.Asteroids()[0]
			spawnZ := a.Position.Z() + a.Speed()*0.5
			if ahead := spawnZ - tt.ship.Z(); math.Abs(ahead-m.SpawnDistance()) > 1e-6 {
				t.Errorf("Expected spawn %.1f ahead of ship, got %.2f", m.SpawnDistance(), ahead)
			}
			if offset := math.Abs(a.Position.X() - tt.ship.X()); offset > m.SpawnRangeX() {
				t.Errorf("Expected lateral offset from ship within %.1f, got %.2f", m.SpawnRangeX(), offset)
			}
		})
	}
}

func TestAsteroidManager_WaveAheadOfShip(t *testing.T) {
	cfg := quietConfig()
	cfg.Waves = config.WaveConfig{Enabled: true, Interval: 1, MinLevel: 0, MinCount: 3, MaxCount: 3, Spacing: 1.5, Jitter: 0.3}
	rec := &recorder{}
	m := NewAsteroidManager(cfg, testRand(), rec)
	ship := physics.V3(5, 0.3, 8)

	m.Update(1, ship)

	for _, e := range rec.events {
		if wave, ok := e.(*event.WaveEvent); ok && math.Abs(wave.Z-(ship.Z()+m.SpawnDistance())) > epsilon {
			t.Errorf("Expected wave depth %.1f, got %.2f", ship.Z()+m.SpawnDistance(), wave.Z)
		}
	}
	width := 2 * 1.5
	for _, a := range m.Asteroids() {
		spawnZ := a.Position.Z() + a.Speed()
		if math.Abs(spawnZ-(ship.Z()+m.SpawnDistance())) > 0.3+epsilon {
			t.Errorf("Expected wave member near depth %.1f, got %.2f", ship.Z()+m.SpawnDistance(), spawnZ)
		}
		if math.Abs(a.Position.X()-ship.X()) > m.SpawnRangeX()+width/2+0.3 {
			t.Errorf("Expected wave member near ship x=%.1f, got %.2f", ship.X(), a.Position.X())
		}
	}
}

func TestAsteroidManager_CorridorBias(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Waves.Enabled = false
	cfg.Asteroids.CorridorChance = 1
	m := NewAsteroidManager(cfg, testRand(), nil)
	ship := physics.V3(4, 0.3, -10)

	for i := 0; i < 40; i++ {
		m.Update(1.5, ship)
	}
	if len(m.Asteroids()) == 0 {
		t.Fatal("Expected spawned asteroids")
	}
	for _, a := range m.Asteroids() {
		if math.Abs(a.Position.X()-4) > cfg.Asteroids.CorridorHalfWidth {
			t.Errorf("Expected corridor spawn near x=4, got %f", a.Position.X())
		}
	}
}

func TestAsteroidManager_Wave(t *testing.T) {
	cfg := quietConfig()
	cfg.Waves = config.WaveConfig{Enabled: true, Interval: 1, MinLevel: 0, MinCount: 3, MaxCount: 3, Spacing: 1.5, Jitter: 0.3}
	rec := &recorder{}
	m := NewAsteroidManager(cfg, testRand(), rec)

	m.Update(1, physics.V3(0, 0.3, -10))

	asteroids := m.Asteroids()
	if len(asteroids) != 3 {
		t.Fatalf("Expected a wave of 3, got %d", len(asteroids))
	}
	for i := 1; i < len(asteroids); i++ {
		gap := asteroids[i].Position.X() - asteroids[i-1].Position.X()
		if gap < 1.5-0.6-epsilon || gap > 1.5+0.6+epsilon {
			t.Errorf("Expected spacing near 1.5, got %f", gap)
		}
		if asteroids[i].Speed() != asteroids[0].Speed() {
			t.Error("Expected all wave members to share a speed")
		}
	}
	if rec.count(event.WaveSpawned) != 1 {
		t.Errorf("Expected 1 wave event, got %d", rec.count(event.WaveSpawned))
	}
}

func TestAsteroidManager_WaveCountRange(t *testing.T) {
	cfg := quietConfig()
	cfg.Waves.Enabled = true
	cfg.Waves.MinLevel = 0
	cfg.Waves.Interval = 1
	rec := &recorder{}
	m := NewAsteroidManager(cfg, testRand(), rec)

	for i := 0; i < 50; i++ {
		m.Update(1, physics.V3(0, 0.3, -10))
	}
	for _, e := range rec.events {
		if wave, ok := e.(*event.WaveEvent); ok && (wave.Count < 2 || wave.Count > 4) {
			t.Errorf("Wave count %d outside [2, 4]", wave.Count)
		}
	}
}
