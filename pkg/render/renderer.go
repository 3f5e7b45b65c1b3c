// Package render draws engine frames. Renderers only read frames; the game
// itself lives behind a FrameSource (a local engine.Runner or a remote
// network.GameClient).
package render

import (
	"context"

	"github.com/opd-ai/go-asteroid-run/pkg/engine"
	"github.com/opd-ai/go-asteroid-run/pkg/input"
	"github.com/opd-ai/go-asteroid-run/pkg/logging"
)

// Visible slice of the world in world units, measured from the ship
const (
	ViewHalfWidth = 18.0
	ViewAhead     = 36.0
	ViewBehind    = 4.0
	// ChaseDepth is the distance at which the chase camera halves sizes
	ChaseDepth = 12.0
)

// Renderer draws the parts of one frame. Draw calls the methods in a fixed
// order between Clear and Present.
type Renderer interface {
	Clear()
	RenderAsteroid(a engine.AsteroidState)
	RenderProjectile(p engine.ProjectileState)
	RenderBoss(b engine.BossState)
	RenderShip(s engine.ShipState)
	RenderHUD(hud engine.HUDState, status engine.GameStatus, camera input.CameraMode)
	Present()
}

// FrameSource is where a renderer host gets frames and sends input
type FrameSource interface {
	Frames() <-chan *engine.Frame
	SendInput(in input.Snapshot) error
}

// Draw renders frame with r. The ship is drawn last so it stays visible
// over anything it overlaps.
func Draw(r Renderer, frame *engine.Frame) {
	r.Clear()
	for _, a := range frame.Asteroids {
		r.RenderAsteroid(a)
	}
	for _, p := range frame.Projectiles {
		r.RenderProjectile(p)
	}
	if frame.Boss != nil {
		r.RenderBoss(*frame.Boss)
	}
	r.RenderShip(frame.Ship)
	r.RenderHUD(frame.HUD, frame.Status, frame.Camera)
	r.Present()
}

// NullRenderer draws nothing. It logs each call at debug level and counts
// presented frames, which makes it useful for headless runs.
type NullRenderer struct {
	logger   *logging.Logger
	frames   int
	entities int
}

// NewNullRenderer creates a NullRenderer. A nil logger discards output.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &NullRenderer{logger: logger.WithComponent("null-renderer")}
}

func (d *NullRenderer) Clear() {
	d.entities = 0
}

func (d *NullRenderer) RenderAsteroid(a engine.AsteroidState) {
	d.entities++
}

func (d *NullRenderer) RenderProjectile(p engine.ProjectileState) {
	d.entities++
}

func (d *NullRenderer) RenderBoss(b engine.BossState) {
	d.entities++
	d.logger.Debug(context.Background(), "boss drawn",
		"health", b.Health,
		"max_health", b.MaxHealth,
		"flashing", b.Flashing,
	)
}

func (d *NullRenderer) RenderShip(s engine.ShipState) {
	d.entities++
}

func (d *NullRenderer) RenderHUD(hud engine.HUDState, status engine.GameStatus, camera input.CameraMode) {
	d.logger.Debug(context.Background(), "hud drawn",
		"score", hud.Score,
		"lives", hud.Lives,
		"level", hud.Level,
		"status", status.String(),
		"camera", camera.String(),
	)
}

func (d *NullRenderer) Present() {
	d.frames++
}

// Frames returns how many frames have been presented
func (d *NullRenderer) Frames() int { return d.frames }

// Entities returns how many entities the last frame contained, ship included
func (d *NullRenderer) Entities() int { return d.entities }
