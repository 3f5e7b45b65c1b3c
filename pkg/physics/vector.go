// pkg/physics/vector.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is the position and velocity type for every simulated entity.
// X is lateral, Y is height above the grid and Z points toward the horizon.
type Vec3 = mgl64.Vec3

// V3 builds a vector from its components
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// DistanceSquared returns the squared distance (optimization for comparisons)
func DistanceSquared(a, b Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// Clamp limits v to the closed range [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return mgl64.Clamp(v, lo, hi)
}

// ClampSymmetric limits v to [-bound, bound]
func ClampSymmetric(v, bound float64) float64 {
	return mgl64.Clamp(v, -bound, bound)
}

// Approach moves current toward target by at most step and never overshoots.
func Approach(current, target, step float64) float64 {
	if step <= 0 {
		return current
	}
	if current < target {
		return math.Min(current+step, target)
	}
	return math.Max(current-step, target)
}

// Oscillate returns base + sin(phase) * amplitude
func Oscillate(base, phase, amplitude float64) float64 {
	return base + math.Sin(phase)*amplitude
}
