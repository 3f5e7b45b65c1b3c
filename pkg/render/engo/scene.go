// pkg/render/engo/scene.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-asteroid-run/pkg/engine"
	"github.com/opd-ai/go-asteroid-run/pkg/logging"
	"github.com/opd-ai/go-asteroid-run/pkg/render"
)

// Options configures the window
type Options struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	SpriteSize int
	FontSize   float64
}

// DefaultOptions returns a 1024x768 window
func DefaultOptions() Options {
	return Options{
		Title:      "Asteroid Run",
		Width:      1024,
		Height:     768,
		SpriteSize: 64,
		FontSize:   20,
	}
}

// GameScene shows frames from a FrameSource in an engo window and feeds
// keyboard input back to it
type GameScene struct {
	source  render.FrameSource
	options Options
	logger  *logging.Logger

	camera *Camera
	input  *InputSystem
	frames *frameSystem
}

// NewGameScene creates a scene for source
func NewGameScene(source render.FrameSource, options Options, logger *logging.Logger) *GameScene {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GameScene{
		source:  source,
		options: options,
		logger:  logger.WithComponent("engo-scene"),
		camera:  NewCamera(float32(options.Width), float32(options.Height)),
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "AsteroidRun"
}

// Preload is called before the scene starts (required by Engo). Sprites are
// generated and the font is embedded, so there are no files to load.
func (scene *GameScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	ctx := context.Background()

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)
	common.SetBackground(colorBackground)

	assets := NewAssetManager(scene.options.SpriteSize)
	assets.Load()

	font, err := LoadHUDFont(scene.options.FontSize)
	if err != nil {
		scene.logger.Error(ctx, "HUD text disabled", err)
	}

	scene.camera.Resize(engo.GameWidth(), engo.GameHeight())
	renderer := NewEngoRenderer(renderSystem, assets, scene.camera, NewHUD(renderSystem, font))

	SetupInputBindings()
	scene.input = NewInputSystem(scene.source.SendInput, scene.logger)
	world.AddSystem(scene.input)

	scene.frames = newFrameSystem(scene.source, renderer, scene.camera, scene.input, engo.Exit)
	world.AddSystem(scene.frames)

	scene.logger.Info(ctx, "scene ready",
		"width", engo.GameWidth(),
		"height", engo.GameHeight(),
		"hud_font", font != nil,
	)
}

// Exit is called when the window closes (required by Engo)
func (scene *GameScene) Exit() {
	scene.logger.Info(context.Background(), "scene closed")
}

// SourceClosed reports whether the scene stopped because the frames ended
func (scene *GameScene) SourceClosed() bool {
	return scene.frames != nil && scene.frames.closed
}

// Run opens the window and blocks until it closes. It returns
// render.ErrSourceClosed when the window closed because source stopped.
func Run(source render.FrameSource, options Options, logger *logging.Logger) error {
	scene := NewGameScene(source, options, logger)
	engo.Run(engo.RunOptions{
		Title:      options.Title,
		Width:      options.Width,
		Height:     options.Height,
		Fullscreen: options.Fullscreen,
		FPSLimit:   60,
	}, scene)
	if scene.SourceClosed() {
		return render.ErrSourceClosed
	}
	return nil
}

// frameSystem draws the newest frame on every engine tick
type frameSystem struct {
	frames   <-chan *engine.Frame
	renderer render.Renderer
	camera   *Camera
	input    *InputSystem
	exit     func()

	done   bool
	closed bool
	drawn  int
}

func newFrameSystem(source render.FrameSource, renderer render.Renderer, camera *Camera, in *InputSystem, exit func()) *frameSystem {
	return &frameSystem{
		frames:   source.Frames(),
		renderer: renderer,
		camera:   camera,
		input:    in,
		exit:     exit,
	}
}

// Remove satisfies ecs.System
func (fs *frameSystem) Remove(ecs.BasicEntity) {}

func (fs *frameSystem) Update(dt float32) {
	if fs.done {
		return
	}
	if fs.input != nil && fs.input.Quit() {
		fs.stop()
		return
	}

	frame, open := fs.latest()
	if frame != nil {
		fs.camera.Follow(frame.Ship.Position, float64(dt))
		render.Draw(fs.renderer, frame)
		fs.drawn++
	}
	if !open {
		fs.closed = true
		fs.stop()
	}
}

func (fs *frameSystem) stop() {
	fs.done = true
	fs.exit()
}

// latest drains the queue and returns the newest frame, or nil when no frame
// is waiting. open is false once the channel is closed.
func (fs *frameSystem) latest() (frame *engine.Frame, open bool) {
	for {
		select {
		case f, ok := <-fs.frames:
			if !ok {
				return frame, false
			}
			frame = f
		default:
			return frame, true
		}
	}
}
