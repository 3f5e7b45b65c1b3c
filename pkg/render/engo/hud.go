// pkg/render/engo/hud.go
package engo

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/opd-ai/go-asteroid-run/pkg/engine"
	"github.com/opd-ai/go-asteroid-run/pkg/input"
)

const hudFontURL = "hud/goregular.ttf"

// Boss bar size in pixels
const (
	bossBarWidth  = 200
	bossBarHeight = 12
)

var (
	colorHUD      = color.RGBA{255, 255, 255, 255}
	colorGameOver = color.RGBA{255, 70, 70, 255}
	colorBossBar  = color.RGBA{220, 60, 200, 255}
)

// LoadHUDFont registers the embedded Go font with engo and prepares it for
// text rendering. It needs an OpenGL context.
func LoadHUDFont(size float64) (*common.Font, error) {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(goregular.TTF)); err != nil {
		return nil, fmt.Errorf("load hud font: %w", err)
	}
	font := &common.Font{URL: hudFontURL, FG: colorHUD, Size: size}
	if err := font.CreatePreloaded(); err != nil {
		return nil, fmt.Errorf("prepare hud font: %w", err)
	}
	return font, nil
}

type hudElement struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// HUD shows the score line and the boss health bar in screen space
type HUD struct {
	font *common.Font
	text string

	label   *hudElement
	bossBar *hudElement
}

// NewHUD adds the HUD elements to sink. With a nil font the text is tracked
// but never drawn.
func NewHUD(sink spriteSink, font *common.Font) *HUD {
	h := &HUD{
		font:    font,
		label:   &hudElement{BasicEntity: ecs.NewBasic()},
		bossBar: &hudElement{BasicEntity: ecs.NewBasic()},
	}

	h.label.Drawable = common.Text{Font: font}
	h.label.Color = colorHUD
	h.label.Scale = engo.Point{X: 1, Y: 1}
	h.label.Hidden = font == nil
	h.label.Position = engo.Point{X: 10, Y: 10}

	h.bossBar.Drawable = common.Rectangle{}
	h.bossBar.Color = colorBossBar
	h.bossBar.Scale = engo.Point{X: 1, Y: 1}
	h.bossBar.Hidden = true
	h.bossBar.Position = engo.Point{X: 10, Y: 40}
	h.bossBar.Height = bossBarHeight

	sink.Add(&h.label.BasicEntity, &h.label.RenderComponent, &h.label.SpaceComponent)
	sink.Add(&h.bossBar.BasicEntity, &h.bossBar.RenderComponent, &h.bossBar.SpaceComponent)
	return h
}

// Update refreshes the text and the boss bar. boss is nil outside fights.
func (h *HUD) Update(hud engine.HUDState, status engine.GameStatus, camera input.CameraMode, boss *engine.BossState) {
	h.text = hudText(hud, status, camera)
	if h.font != nil {
		h.label.Drawable = common.Text{Font: h.font, Text: h.text}
	}
	h.label.Color = colorHUD
	if status == engine.GameStatusOver {
		h.label.Color = colorGameOver
	}

	if boss == nil {
		h.bossBar.Hidden = true
		return
	}
	h.bossBar.Hidden = false
	h.bossBar.Width = float32(boss.HealthFraction()) * bossBarWidth
}

// Text returns the last HUD line
func (h *HUD) Text() string {
	return h.text
}

// BossBarWidth returns the boss bar width in pixels, 0 when hidden
func (h *HUD) BossBarWidth() float32 {
	if h.bossBar.Hidden {
		return 0
	}
	return h.bossBar.Width
}

func hudText(hud engine.HUDState, status engine.GameStatus, camera input.CameraMode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SCORE %d   LIVES %d   LEVEL %d   TIME %.1fs   CAM %s",
		hud.Score, hud.Lives, hud.Level, hud.Elapsed, camera)
	if status == engine.GameStatusOver {
		b.WriteString("   GAME OVER - press R to restart")
	}
	return b.String()
}
