package physics

// Integrate advances a position by velocity over deltaTime seconds.
func Integrate(position, velocity Vec3, deltaTime float64) Vec3 {
	return position.Add(velocity.Mul(deltaTime))
}

// Rotation holds three Euler angles (radians) and their angular velocities.
type Rotation struct {
	Angles Vec3
	Spin   Vec3
}

// Advance spins the angles by their angular velocity over deltaTime seconds.
func (r *Rotation) Advance(deltaTime float64) {
	r.Angles = r.Angles.Add(r.Spin.Mul(deltaTime))
}
