// pkg/render/engo/input.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-asteroid-run/pkg/input"
	"github.com/opd-ai/go-asteroid-run/pkg/logging"
)

// Button names registered with engo
const (
	buttonForward  = "forward"
	buttonBackward = "backward"
	buttonLeft     = "left"
	buttonRight    = "right"
	buttonFire     = "fire"
	buttonChase    = "cameraChase"
	buttonTop      = "cameraTop"
	buttonSide     = "cameraSide"
	buttonRestart  = "restart"
	buttonQuit     = "quit"
)

// SetupInputBindings registers the game's keys with engo
func SetupInputBindings() {
	engo.Input.RegisterButton(buttonForward, engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton(buttonBackward, engo.KeyS, engo.KeyArrowDown)
	engo.Input.RegisterButton(buttonLeft, engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton(buttonRight, engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton(buttonFire, engo.KeySpace)
	engo.Input.RegisterButton(buttonChase, engo.KeyOne)
	engo.Input.RegisterButton(buttonTop, engo.KeyTwo)
	engo.Input.RegisterButton(buttonSide, engo.KeyThree)
	engo.Input.RegisterButton(buttonRestart, engo.KeyR)
	engo.Input.RegisterButton(buttonQuit, engo.KeyEscape, engo.KeyQ)
}

// buttons reports the state of named buttons
type buttons interface {
	Down(name string) bool
	JustPressed(name string) bool
}

type engoButtons struct{}

func (engoButtons) Down(name string) bool        { return engo.Input.Button(name).Down() }
func (engoButtons) JustPressed(name string) bool { return engo.Input.Button(name).JustPressed() }

// InputSystem turns key state into input snapshots and sends them to the
// game whenever they change
type InputSystem struct {
	buttons buttons
	send    func(input.Snapshot) error
	logger  *logging.Logger

	last input.Snapshot
	quit bool
}

// NewInputSystem sends snapshots through send
func NewInputSystem(send func(input.Snapshot) error, logger *logging.Logger) *InputSystem {
	return newInputSystem(engoButtons{}, send, logger)
}

func newInputSystem(b buttons, send func(input.Snapshot) error, logger *logging.Logger) *InputSystem {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &InputSystem{
		buttons: b,
		send:    send,
		logger:  logger.WithComponent("engo-input"),
	}
}

// Remove satisfies ecs.System
func (is *InputSystem) Remove(ecs.BasicEntity) {}

// Update samples the buttons once per engine tick
func (is *InputSystem) Update(dt float32) {
	if is.buttons.JustPressed(buttonQuit) {
		is.quit = true
		return
	}

	snap := is.sample()
	if snap == is.last {
		return
	}
	if err := is.send(snap); err != nil {
		is.logger.Warn(context.Background(), "input not delivered", "error", err)
		return
	}
	is.last = snap
}

func (is *InputSystem) sample() input.Snapshot {
	snap := input.Snapshot{
		Forward:  is.buttons.Down(buttonForward),
		Backward: is.buttons.Down(buttonBackward),
		Left:     is.buttons.Down(buttonLeft),
		Right:    is.buttons.Down(buttonRight),
		Fire:     is.buttons.Down(buttonFire),
		Restart:  is.buttons.JustPressed(buttonRestart),
	}
	switch {
	case is.buttons.JustPressed(buttonChase):
		snap.CameraSwitch = input.CameraChase
	case is.buttons.JustPressed(buttonTop):
		snap.CameraSwitch = input.CameraTop
	case is.buttons.JustPressed(buttonSide):
		snap.CameraSwitch = input.CameraSide
	}
	return snap
}

// Quit reports whether the player pressed a quit key
func (is *InputSystem) Quit() bool {
	return is.quit
}
