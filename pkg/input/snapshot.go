// Package input defines the per-frame input value consumed by the simulation.
// Hosts (terminal, engo window, network session) build one Snapshot per frame
// from whatever event source they have; the simulation never reads devices.
package input

// CameraMode selects one of the renderer camera presets.
// The zero value means "no switch requested this frame".
type CameraMode int

const (
	CameraKeep CameraMode = iota
	CameraChase
	CameraTop
	CameraSide
)

// String returns the camera mode name
func (m CameraMode) String() string {
	switch m {
	case CameraChase:
		return "chase"
	case CameraTop:
		return "top"
	case CameraSide:
		return "side"
	default:
		return "keep"
	}
}

// Snapshot is the immutable input state for a single frame.
type Snapshot struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Fire     bool

	// Discrete events, true/set only on the frame they happened.
	CameraSwitch CameraMode
	Restart      bool
}

// Moving reports whether any movement key is held
func (s Snapshot) Moving() bool {
	return s.Forward || s.Backward || s.Left || s.Right
}

// Direction returns the unnormalized movement direction on the grid.
// Forward is +Z. Left is +X because the default camera looks down +Z from behind the ship.
func (s Snapshot) Direction() (x, z float64) {
	if s.Forward {
		z++
	}
	if s.Backward {
		z--
	}
	if s.Left {
		x++
	}
	if s.Right {
		x--
	}
	return x, z
}
