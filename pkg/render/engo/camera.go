// pkg/render/engo/camera.go
package engo

import (
	"math"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-asteroid-run/pkg/input"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
	"github.com/opd-ai/go-asteroid-run/pkg/render"
)

// Camera projects world positions onto the window for one of the camera
// presets. It follows the ship with optional smoothing.
type Camera struct {
	mode   input.CameraMode
	width  float32
	height float32

	// Smooth following
	followSpeed float64
	smoothing   bool
	focus       physics.Vec3
	focusSet    bool
}

// NewCamera creates a chase camera for a window of the given size
func NewCamera(width, height float32) *Camera {
	return &Camera{
		mode:        input.CameraChase,
		width:       width,
		height:      height,
		followSpeed: 8.0,
		smoothing:   true,
	}
}

// SetMode switches preset. CameraKeep leaves the current preset.
func (c *Camera) SetMode(mode input.CameraMode) {
	if mode != input.CameraKeep {
		c.mode = mode
	}
}

// Mode returns the current preset
func (c *Camera) Mode() input.CameraMode {
	return c.mode
}

// Resize updates the window size used for projection
func (c *Camera) Resize(width, height float32) {
	c.width = width
	c.height = height
}

// EnableSmoothing enables or disables smoothed following
func (c *Camera) EnableSmoothing(enabled bool) {
	c.smoothing = enabled
}

// Follow moves the focus toward target. The first call, and every call with
// smoothing disabled, snaps to target.
func (c *Camera) Follow(target physics.Vec3, deltaTime float64) {
	if !c.smoothing || !c.focusSet {
		c.focus = target
		c.focusSet = true
		return
	}
	step := math.Min(c.followSpeed*deltaTime, 1)
	c.focus = c.focus.Add(target.Sub(c.focus).Mul(step))
}

// Focus returns the point the camera is centered on
func (c *Camera) Focus() physics.Vec3 {
	return c.focus
}

// Project maps pos to window coordinates. unit is the size in pixels of one
// world unit at that position; visible is false outside the view.
func (c *Camera) Project(pos physics.Vec3) (point engo.Point, unit float32, visible bool) {
	depth := pos.Z() - c.focus.Z()
	if depth < -render.ViewBehind || depth > render.ViewAhead {
		return engo.Point{}, 0, false
	}
	w, h := float64(c.width), float64(c.height)
	depthFraction := (depth + render.ViewBehind) / (render.ViewAhead + render.ViewBehind)

	var x, y, u float64
	switch c.mode {
	case input.CameraTop:
		u = w / 2 / render.ViewHalfWidth
		x = w/2 - pos.X()*u
		y = h - depthFraction*h
	case input.CameraSide:
		u = w / (render.ViewAhead + render.ViewBehind)
		x = depthFraction * w
		y = h*0.75 - pos.Y()*u
	default:
		perspective := render.ChaseDepth / (render.ChaseDepth + depth)
		u = w / 2 / render.ViewHalfWidth * 1.5 * perspective
		horizon, ground := h*0.3, h*0.9
		x = w/2 - (pos.X()-c.focus.X())*u
		y = horizon + (ground-horizon)*perspective - pos.Y()*u
	}

	visible = x >= 0 && x <= w && y >= 0 && y <= h
	return engo.Point{X: float32(x), Y: float32(y)}, float32(u), visible
}
