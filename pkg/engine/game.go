// pkg/engine/game.go
package engine

import (
	"math/rand/v2"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/entity"
	"github.com/opd-ai/go-asteroid-run/pkg/event"
	"github.com/opd-ai/go-asteroid-run/pkg/input"
)

// GameStatus is the run state of a game
type GameStatus int

const (
	GameStatusPlaying GameStatus = iota
	GameStatusOver
)

// String returns the status name
func (s GameStatus) String() string {
	if s == GameStatusOver {
		return "over"
	}
	return "playing"
}

// Option configures a Game
type Option func(*Game)

// WithRand sets the random source used for spawning
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithSeed seeds a PCG random source for reproducible runs
func WithSeed(seed uint64) Option {
	return func(g *Game) { g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithPublisher sets where game events are published
func WithPublisher(p event.Publisher) Option {
	return func(g *Game) { g.events = p }
}

// WithHUD replaces the default Scoreboard
func WithHUD(h HUD) Option {
	return func(g *Game) { g.hud = h }
}

// WithGameOverReporter sets the collaborator told about the final result
func WithGameOverReporter(r GameOverReporter) Option {
	return func(g *Game) { g.gameOver = r }
}

// Game is one run of the simulation. It is not safe for concurrent use;
// hosts confine it to a single goroutine.
type Game struct {
	Config    *config.GameConfig
	Ship      *entity.Ship
	Asteroids *AsteroidManager
	Bosses    *BossManager

	rng      *rand.Rand
	events   event.Publisher
	hud      HUD
	gameOver GameOverReporter

	projectiles []*entity.Projectile
	status      GameStatus
	camera      input.CameraMode
	level       int
	tick        uint64
	elapsed     float64
}

// NewGame creates a game ready to play. A nil config uses DefaultConfig.
func NewGame(cfg *config.GameConfig, opts ...Option) *Game {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	g := &Game{
		Config: cfg,
		events: event.Discard,
		camera: input.CameraChase,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.events == nil {
		g.events = event.Discard
	}
	if g.hud == nil {
		g.hud = NewScoreboard(cfg.Scoring.InitialLives)
	}

	g.Ship = entity.NewShip(cfg.Ship)
	g.Asteroids = NewAsteroidManager(cfg, g.rng, g.events)
	g.Bosses = NewBossManager(cfg, g.Asteroids, g.events)
	g.level = 1
	g.Ship.UpdateLevel(g.level)

	return g
}

// Reset starts a new run with the same configuration. Calling it twice in
// a row is the same as calling it once.
func (g *Game) Reset() {
	g.Ship.Reset()
	g.Asteroids.Reset()
	g.Bosses.Reset()
	g.hud.Reset()
	clear(g.projectiles)
	g.projectiles = g.projectiles[:0]
	g.status = GameStatusPlaying
	g.level = 1
	g.tick = 0
	g.elapsed = 0
	g.Ship.UpdateLevel(g.level)
}

// Update advances the game by one frame of deltaTime seconds. Order within
// a frame: ship, projectiles, asteroids, level, boss.
func (g *Game) Update(deltaTime float64, in input.Snapshot) {
	if in.CameraSwitch != input.CameraKeep {
		g.camera = in.CameraSwitch
	}

	if g.status == GameStatusOver {
		if in.Restart {
			g.Reset()
			g.events.Publish(&event.BaseEvent{EventType: event.GameRestarted, Source: g})
		}
		return
	}

	g.tick++
	g.elapsed += deltaTime

	g.Ship.Update(deltaTime, in)
	if g.Ship.TryShoot() {
		g.projectiles = append(g.projectiles, entity.NewProjectile(g.Ship.Position, g.Config.Projectile))
	}
	g.updateProjectiles(deltaTime)

	switch outcome := g.Asteroids.Update(deltaTime, g.Ship.Position).(type) {
	case Clear:
		g.hud.AddScore(outcome.Score)
	case Impact:
		g.hud.AddScore(outcome.Score)
		g.hud.LoseLife()
		g.events.Publish(event.NewShipHitEvent(g, outcome.Position, g.hud.Lives()))
		if g.hud.IsGameOver() {
			g.endGame()
			return
		}
	}

	g.syncLevel()
	g.Bosses.Update(deltaTime, g.level, g.Ship.Position)
}

// updateProjectiles moves projectiles and resolves their first hit
func (g *Game) updateProjectiles(deltaTime float64) {
	kept := g.projectiles[:0]
	for _, p := range g.projectiles {
		p.Update(deltaTime)
		if p.Active {
			g.resolveProjectileHit(p)
		}
		if p.Active {
			kept = append(kept, p)
		}
	}
	clear(g.projectiles[len(kept):])
	g.projectiles = kept
}

func (g *Game) resolveProjectileHit(p *entity.Projectile) {
	for _, a := range g.Asteroids.Asteroids() {
		if p.HitsAsteroid(a) {
			a.Active = false
			p.Spend()
			g.hud.AddScore(g.Config.Scoring.AsteroidShot)
			g.events.Publish(event.NewScoreEvent(event.AsteroidDestroyed, g, uint64(a.GetID()), g.Config.Scoring.AsteroidShot))
			return
		}
	}

	switch hit := g.Bosses.CheckProjectileHit(p).(type) {
	case BossDamaged:
		p.Spend()
		g.hud.AddScore(hit.Score)
	case BossDefeat:
		p.Spend()
		g.hud.AddScore(hit.Score)
		if hit.ExtraLife {
			g.hud.GainLife()
		}
	}
}

// syncLevel derives the level from the asteroid difficulty and pushes it
// to the ship.
func (g *Game) syncLevel() {
	level := g.Asteroids.Difficulty() + 1
	if level == g.level {
		return
	}

	wasUnlocked := g.Ship.AccelUnlocked()
	g.level = level
	g.Ship.UpdateLevel(level)
	g.events.Publish(event.NewLevelEvent(event.LevelChanged, g, level))
	if !wasUnlocked && g.Ship.AccelUnlocked() {
		g.events.Publish(event.NewLevelEvent(event.AccelerationUnlocked, g, level))
	}
}

func (g *Game) endGame() {
	g.status = GameStatusOver
	result := g.Result()
	g.events.Publish(event.NewGameOverEvent(g, result.Score, result.Level, result.Elapsed))
	if g.gameOver != nil {
		g.gameOver.ShowGameOver(result)
	}
}

// Result summarizes the run so far
func (g *Game) Result() Result {
	return Result{
		Score:   g.hud.Score(),
		Level:   g.level,
		Elapsed: g.elapsed,
	}
}

// Status returns whether the run is still being played
func (g *Game) Status() GameStatus { return g.status }

// Level returns the current level, starting at 1
func (g *Game) Level() int { return g.level }

// Tick returns the number of simulated frames in this run
func (g *Game) Tick() uint64 { return g.tick }

// Elapsed returns the simulated seconds in this run
func (g *Game) Elapsed() float64 { return g.elapsed }

// Camera returns the selected camera preset
func (g *Game) Camera() input.CameraMode { return g.camera }

// HUD returns the score and lives tracker
func (g *Game) HUD() HUD { return g.hud }

// Projectiles returns the live projectiles. Callers must not keep the
// slice across updates.
func (g *Game) Projectiles() []*entity.Projectile { return g.projectiles }
