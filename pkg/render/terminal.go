package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-asteroid-run/pkg/engine"
	"github.com/opd-ai/go-asteroid-run/pkg/input"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

// ErrSourceClosed is returned by Play when the frame source stops
var ErrSourceClosed = errors.New("frame source closed")

// sideHeight is the world height spanned by the play field in side view
const sideHeight = 6.0

const helpLine = "WASD/arrows move  SPACE fire  1-3 camera  R restart  Q quit"

var (
	styleShip       = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleAsteroid   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleProjectile = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBoss       = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	styleHUD        = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleGameOver   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// TerminalRenderer draws frames as characters on a tcell screen. Row 0 is
// the HUD and the last row is the key help; the play field is in between.
type TerminalRenderer struct {
	screen tcell.Screen

	asteroids   []engine.AsteroidState
	projectiles []engine.ProjectileState
	boss        *engine.BossState
	ship        engine.ShipState
	hud         engine.HUDState
	status      engine.GameStatus
	camera      input.CameraMode
}

// NewTerminalRenderer draws on screen. The caller owns the screen and must
// have called Init on it.
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	return &TerminalRenderer{screen: screen, camera: input.CameraChase}
}

func (r *TerminalRenderer) Clear() {
	r.asteroids = r.asteroids[:0]
	r.projectiles = r.projectiles[:0]
	r.boss = nil
}

func (r *TerminalRenderer) RenderAsteroid(a engine.AsteroidState) {
	r.asteroids = append(r.asteroids, a)
}

func (r *TerminalRenderer) RenderProjectile(p engine.ProjectileState) {
	r.projectiles = append(r.projectiles, p)
}

func (r *TerminalRenderer) RenderBoss(b engine.BossState) {
	r.boss = &b
}

func (r *TerminalRenderer) RenderShip(s engine.ShipState) {
	r.ship = s
}

func (r *TerminalRenderer) RenderHUD(hud engine.HUDState, status engine.GameStatus, camera input.CameraMode) {
	r.hud = hud
	r.status = status
	if camera != input.CameraKeep {
		r.camera = camera
	}
}

// Present paints the buffered frame and shows it
func (r *TerminalRenderer) Present() {
	r.screen.Clear()
	width, height := r.screen.Size()

	for _, a := range r.asteroids {
		glyph := 'o'
		if a.Scale >= 1 {
			glyph = 'O'
		}
		r.plot(a.Position, glyph, styleAsteroid, width, height)
	}
	for _, p := range r.projectiles {
		r.plot(p.Position, '|', styleProjectile, width, height)
	}
	if r.boss != nil {
		style := styleBoss
		if r.boss.Flashing {
			style = style.Reverse(true)
		}
		if col, row, ok := r.project(r.boss.Position, width, height); ok {
			r.text(col-1, row, "<W>", style)
		}
	}
	r.plot(r.ship.Position, '^', styleShip, width, height)

	r.text(0, 0, r.hudLine(), styleHUD)
	r.text(0, height-1, helpLine, styleHelp)
	if r.status == engine.GameStatusOver {
		msg := fmt.Sprintf(" GAME OVER  score %d  level %d  press R to restart ", r.hud.Score, r.hud.Level)
		r.text((width-len(msg))/2, height/2, msg, styleGameOver)
	}

	r.screen.Show()
}

// hudLine formats the status row
func (r *TerminalRenderer) hudLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SCORE %d  LIVES %d  LEVEL %d  TIME %.1fs  CAM %s",
		r.hud.Score, r.hud.Lives, r.hud.Level, r.hud.Elapsed, r.camera)
	if r.ship.AccelMultiplier > 1 {
		fmt.Fprintf(&b, "  BOOST x%.2f", r.ship.AccelMultiplier)
	}
	if r.boss != nil {
		b.WriteString("  BOSS ")
		b.WriteString(healthBar(r.boss.HealthFraction(), 10))
	}
	return b.String()
}

// healthBar renders fraction as a bar of width cells
func healthBar(fraction float64, width int) string {
	filled := int(math.Round(physics.Clamp(fraction, 0, 1) * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func (r *TerminalRenderer) plot(pos physics.Vec3, glyph rune, style tcell.Style, width, height int) {
	if col, row, ok := r.project(pos, width, height); ok {
		r.screen.SetContent(col, row, glyph, nil, style)
	}
}

func (r *TerminalRenderer) text(col, row int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(col, row, ch, nil, style)
		col++
	}
}

// project maps a world position to a play field cell for the current camera
func (r *TerminalRenderer) project(pos physics.Vec3, width, height int) (col, row int, ok bool) {
	top, bottom := 1, height-2
	rows := float64(bottom - top)
	if rows <= 0 || width <= 0 {
		return 0, 0, false
	}
	depth := pos.Z() - r.ship.Position.Z()
	depthFraction := (depth + ViewBehind) / (ViewAhead + ViewBehind)
	colsPerUnit := float64(width) / 2 / ViewHalfWidth

	switch r.camera {
	case input.CameraSide:
		col = int(math.Round(depthFraction * float64(width-1)))
		row = bottom - int(math.Round(pos.Y()/sideHeight*rows))
	case input.CameraTop:
		col = width/2 - int(math.Round(pos.X()*colsPerUnit))
		row = bottom - int(math.Round(depthFraction*rows))
	default:
		perspective := 1 / (1 + math.Max(depth, 0)/ChaseDepth)
		col = width/2 - int(math.Round((pos.X()-r.ship.Position.X())*perspective*colsPerUnit))
		row = bottom - int(math.Round(depthFraction*rows))
	}

	ok = col >= 0 && col < width && row >= top && row <= bottom
	return col, row, ok
}

// HandleKey applies a key event to tracker. It reports whether the player
// asked to quit.
func HandleKey(ev *tcell.EventKey, tracker *input.KeyTracker, now time.Time) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		tracker.Press(input.KeyForward, now)
	case tcell.KeyDown:
		tracker.Press(input.KeyBackward, now)
	case tcell.KeyLeft:
		tracker.Press(input.KeyLeft, now)
	case tcell.KeyRight:
		tracker.Press(input.KeyRight, now)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'w', 'W':
			tracker.Press(input.KeyForward, now)
		case 's', 'S':
			tracker.Press(input.KeyBackward, now)
		case 'a', 'A':
			tracker.Press(input.KeyLeft, now)
		case 'd', 'D':
			tracker.Press(input.KeyRight, now)
		case ' ':
			tracker.Press(input.KeyFire, now)
		case '1':
			tracker.SwitchCamera(input.CameraChase)
		case '2':
			tracker.SwitchCamera(input.CameraTop)
		case '3':
			tracker.SwitchCamera(input.CameraSide)
		case 'r', 'R':
			tracker.RequestRestart()
		}
	}
	return false
}

// Play runs the terminal host: keyboard events become input snapshots sent
// to source at 60Hz and every frame from source is drawn. It returns nil
// when the player quits, ErrSourceClosed when the frames stop, or ctx.Err().
func (r *TerminalRenderer) Play(ctx context.Context, source FrameSource) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)

	// PollEvent returns nil once the screen is finalized
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	tracker := input.NewKeyTracker(0)
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	var last input.Snapshot
	frames := source.Frames()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if HandleKey(ev, tracker, time.Now()) {
					return nil
				}
			case *tcell.EventResize:
				r.screen.Sync()
			}

		case now := <-ticker.C:
			snap := tracker.Snapshot(now)
			if snap == last {
				continue
			}
			if err := source.SendInput(snap); err != nil {
				return fmt.Errorf("send input: %w", err)
			}
			last = snap

		case frame, ok := <-frames:
			if !ok {
				return ErrSourceClosed
			}
			Draw(r, frame)
		}
	}
}
