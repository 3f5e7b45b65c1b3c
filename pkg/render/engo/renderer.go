// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-asteroid-run/pkg/engine"
	"github.com/opd-ai/go-asteroid-run/pkg/entity"
	"github.com/opd-ai/go-asteroid-run/pkg/input"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// spriteSink is the part of common.RenderSystem the renderer uses
type spriteSink interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

var (
	colorBackground = color.RGBA{8, 8, 20, 255}
	colorShip       = color.RGBA{80, 220, 120, 255}
	colorAsteroid   = color.RGBA{170, 160, 150, 255}
	colorProjectile = color.RGBA{255, 230, 60, 255}
	colorBoss       = color.RGBA{220, 60, 200, 255}
	colorFlash      = color.RGBA{255, 255, 255, 255}
)

type spriteKey struct {
	kind SpriteKind
	id   entity.ID
}

type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent

	seen bool
}

// EngoRenderer keeps one engo entity per game entity. Entities missing from
// a frame are removed from the render system when the frame is presented.
type EngoRenderer struct {
	sink   spriteSink
	assets *AssetManager
	camera *Camera
	hud    *HUD

	sprites map[spriteKey]*sprite

	// Buffered frame, placed on Present once the ship position is known
	asteroids   []engine.AsteroidState
	projectiles []engine.ProjectileState
	boss        *engine.BossState
	ship        engine.ShipState
}

// NewEngoRenderer creates a renderer drawing into sink. hud may be nil.
func NewEngoRenderer(sink spriteSink, assets *AssetManager, camera *Camera, hud *HUD) *EngoRenderer {
	return &EngoRenderer{
		sink:    sink,
		assets:  assets,
		camera:  camera,
		hud:     hud,
		sprites: make(map[spriteKey]*sprite),
	}
}

func (r *EngoRenderer) Clear() {
	r.asteroids = r.asteroids[:0]
	r.projectiles = r.projectiles[:0]
	r.boss = nil
}

func (r *EngoRenderer) RenderAsteroid(a engine.AsteroidState) {
	r.asteroids = append(r.asteroids, a)
}

func (r *EngoRenderer) RenderProjectile(p engine.ProjectileState) {
	r.projectiles = append(r.projectiles, p)
}

func (r *EngoRenderer) RenderBoss(b engine.BossState) {
	r.boss = &b
}

func (r *EngoRenderer) RenderShip(s engine.ShipState) {
	r.ship = s
}

func (r *EngoRenderer) RenderHUD(hud engine.HUDState, status engine.GameStatus, camera input.CameraMode) {
	r.camera.SetMode(camera)
	if r.hud != nil {
		r.hud.Update(hud, status, r.camera.Mode(), r.boss)
	}
}

// Present places every buffered entity and removes the ones that are gone
func (r *EngoRenderer) Present() {
	for _, a := range r.asteroids {
		s := r.place(spriteKey{SpriteAsteroid, a.ID}, a.Position, a.Scale*2, colorAsteroid)
		s.Rotation = float32(a.Rotation.Y() * 180 / math.Pi)
	}
	for _, p := range r.projectiles {
		r.place(spriteKey{SpriteProjectile, p.ID}, p.Position, p.Radius*2, colorProjectile)
	}
	if r.boss != nil {
		c := colorBoss
		if r.boss.Flashing {
			c = colorFlash
		}
		r.place(spriteKey{SpriteBoss, 0}, r.boss.Position, r.boss.Scale, c)
	}
	r.place(spriteKey{SpriteShip, 0}, r.ship.Position, 1, colorShip)

	for key, s := range r.sprites {
		if !s.seen {
			r.sink.Remove(s.BasicEntity)
			delete(r.sprites, key)
			continue
		}
		s.seen = false
	}
}

// place positions the sprite for key, creating it on first use. size is in
// world units.
func (r *EngoRenderer) place(key spriteKey, pos physics.Vec3, size float64, c color.Color) *sprite {
	s, ok := r.sprites[key]
	if !ok {
		s = &sprite{BasicEntity: ecs.NewBasic()}
		s.RenderComponent = common.RenderComponent{
			Drawable: r.assets.Sprite(key.kind),
			Scale:    engo.Point{X: 1, Y: 1},
		}
		r.sprites[key] = s
		r.sink.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
	s.seen = true

	point, unit, visible := r.camera.Project(pos)
	pixels := float32(size) * unit
	s.Hidden = !visible || pixels < 1
	s.Color = c
	s.Width = pixels
	s.Height = pixels
	s.Position = engo.Point{X: point.X - pixels/2, Y: point.Y - pixels/2}
	if s.Drawable != nil && s.Drawable.Width() > 0 {
		scale := pixels / s.Drawable.Width()
		s.Scale = engo.Point{X: scale, Y: scale}
	}
	return s
}

// Count returns how many sprites are live
func (r *EngoRenderer) Count() int {
	return len(r.sprites)
}
