// pkg/engine/runner.go
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-asteroid-run/pkg/input"
)

// ErrRunnerStopped is returned by SendInput after Run has returned
var ErrRunnerStopped = errors.New("runner stopped")

// Runner drives a Game at a fixed tick rate on its own goroutine. Input
// arrives from any goroutine through SendInput; frames leave through a
// bounded channel that drops the oldest frame when the reader falls behind.
type Runner struct {
	game      *Game
	tickRate  int
	frames    chan *Frame
	lastTick  atomic.Int64
	stopped   atomic.Bool
	mu        sync.Mutex
	pending   input.Snapshot
	onTick    func(*Frame)
	dropCount atomic.Uint64
}

// NewRunner creates a runner for game. frameBuffer below 1 is treated as 1.
func NewRunner(game *Game, tickRate, frameBuffer int) *Runner {
	if tickRate < 1 {
		tickRate = 60
	}
	if frameBuffer < 1 {
		frameBuffer = 1
	}
	return &Runner{
		game:     game,
		tickRate: tickRate,
		frames:   make(chan *Frame, frameBuffer),
	}
}

// OnTick registers a callback invoked on the runner goroutine with every
// frame, before it is queued. Must be called before Run.
func (r *Runner) OnTick(fn func(*Frame)) {
	r.onTick = fn
}

// SendInput records the latest held keys. Discrete events (camera switch,
// restart) are kept until the next tick consumes them.
func (r *Runner) SendInput(in input.Snapshot) error {
	if r.stopped.Load() {
		return ErrRunnerStopped
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	camera := in.CameraSwitch
	if camera == input.CameraKeep {
		camera = r.pending.CameraSwitch
	}
	restart := in.Restart || r.pending.Restart

	r.pending = in
	r.pending.CameraSwitch = camera
	r.pending.Restart = restart
	return nil
}

// takeInput returns the input for this tick and clears discrete events
func (r *Runner) takeInput() input.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	in := r.pending
	r.pending.CameraSwitch = input.CameraKeep
	r.pending.Restart = false
	return in
}

// Frames returns the frame stream. It is closed when Run returns.
func (r *Runner) Frames() <-chan *Frame {
	return r.frames
}

// LastTick returns the wall time of the most recent tick, or the zero time
// before the first one.
func (r *Runner) LastTick() time.Time {
	nanos := r.lastTick.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

// Dropped returns how many frames were discarded for a slow reader
func (r *Runner) Dropped() uint64 {
	return r.dropCount.Load()
}

// Run ticks the game until ctx is done and returns ctx.Err()
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.frames)
	defer r.stopped.Store(true)

	deltaTime := 1.0 / float64(r.tickRate)
	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			r.step(deltaTime, now)
		}
	}
}

func (r *Runner) step(deltaTime float64, now time.Time) {
	r.game.Update(deltaTime, r.takeInput())
	r.lastTick.Store(now.UnixNano())

	frame := r.game.Frame()
	if r.onTick != nil {
		r.onTick(frame)
	}
	r.publish(frame)
}

// publish queues frame, discarding the oldest queued frame when full
func (r *Runner) publish(frame *Frame) {
	select {
	case r.frames <- frame:
		return
	default:
	}

	select {
	case <-r.frames:
		r.dropCount.Add(1)
	default:
	}

	select {
	case r.frames <- frame:
	default:
		r.dropCount.Add(1)
	}
}
