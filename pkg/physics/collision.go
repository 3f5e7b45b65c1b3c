// pkg/physics/collision.go
package physics

// Sphere represents a spherical collision shape
type Sphere struct {
	Center Vec3
	Radius float64
}

// Collides checks if two spheres overlap. Touching spheres do not collide.
func (s Sphere) Collides(other Sphere) bool {
	limit := s.Radius + other.Radius
	return DistanceSquared(s.Center, other.Center) < limit*limit
}
