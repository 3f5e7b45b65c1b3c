package input

import "time"

// DefaultHoldDuration is how long a key counts as held after its last press
// event on hosts that never report key releases (terminals).
const DefaultHoldDuration = 120 * time.Millisecond

// Key identifies a logical game key.
type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyFire
	keyCount
)

// KeyTracker turns a stream of press events into per-frame Snapshots.
// It is not safe for concurrent use; the host's frame goroutine owns it.
type KeyTracker struct {
	hold    time.Duration
	pressed [keyCount]time.Time
	camera  CameraMode
	restart bool
}

// NewKeyTracker creates a tracker. A non-positive hold uses DefaultHoldDuration.
func NewKeyTracker(hold time.Duration) *KeyTracker {
	if hold <= 0 {
		hold = DefaultHoldDuration
	}
	return &KeyTracker{hold: hold}
}

// Press records a key press at the given time
func (t *KeyTracker) Press(key Key, now time.Time) {
	if key < 0 || key >= keyCount {
		return
	}
	t.pressed[key] = now
}

// SwitchCamera queues a camera switch for the next snapshot
func (t *KeyTracker) SwitchCamera(mode CameraMode) {
	t.camera = mode
}

// RequestRestart queues a restart for the next snapshot
func (t *KeyTracker) RequestRestart() {
	t.restart = true
}

// Snapshot builds the input for the frame at now and consumes pending discrete events.
func (t *KeyTracker) Snapshot(now time.Time) Snapshot {
	held := func(k Key) bool {
		last := t.pressed[k]
		return !last.IsZero() && now.Sub(last) < t.hold
	}

	snap := Snapshot{
		Forward:      held(KeyForward),
		Backward:     held(KeyBackward),
		Left:         held(KeyLeft),
		Right:        held(KeyRight),
		Fire:         held(KeyFire),
		CameraSwitch: t.camera,
		Restart:      t.restart,
	}
	t.camera = CameraKeep
	t.restart = false
	return snap
}
