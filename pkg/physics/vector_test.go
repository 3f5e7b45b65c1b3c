// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"same point", V3(1, 2, 3), V3(1, 2, 3), 0},
		{"unit x", V3(0, 0, 0), V3(1, 0, 0), 1},
		{"3-4-5 triangle", V3(0, 0, 0), V3(3, 0, 4), 5},
		{"negative coords", V3(-1, -2, -2), V3(0, 0, 0), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
			if got := DistanceSquared(tt.a, tt.b); math.Abs(got-tt.want*tt.want) > epsilon {
				t.Errorf("DistanceSquared() = %f, want %f", got, tt.want*tt.want)
			}
		})
	}
}

func TestClampSymmetric(t *testing.T) {
	tests := []struct {
		value, bound, want float64
	}{
		{0, 10, 0},
		{9.99, 10, 9.99},
		{10.5, 10, 10},
		{-42, 10, -10},
	}

	for _, tt := range tests {
		if got := ClampSymmetric(tt.value, tt.bound); got != tt.want {
			t.Errorf("ClampSymmetric(%f, %f) = %f, want %f", tt.value, tt.bound, got, tt.want)
		}
	}
}

func TestApproach(t *testing.T) {
	tests := []struct {
		name                  string
		current, target, step float64
		want                  float64
	}{
		{"step up", 1.0, 1.4, 0.1, 1.1},
		{"no overshoot up", 1.35, 1.4, 0.1, 1.4},
		{"step down", 1.4, 1.0, 0.2, 1.2},
		{"no overshoot down", 1.05, 1.0, 0.2, 1.0},
		{"zero step", 1.2, 1.0, 0, 1.2},
		{"negative step ignored", 1.2, 1.0, -1, 1.2},
		{"already there", 1.0, 1.0, 0.5, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Approach(tt.current, tt.target, tt.step); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Approach() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestOscillate(t *testing.T) {
	if got := Oscillate(1.5, 0, 0.3); got != 1.5 {
		t.Errorf("Expected base value at phase 0, got %f", got)
	}
	if got := Oscillate(1.5, math.Pi/2, 0.3); math.Abs(got-1.8) > epsilon {
		t.Errorf("Expected peak 1.8, got %f", got)
	}
	for phase := 0.0; phase < 10; phase += 0.37 {
		got := Oscillate(1.5, phase, 0.3)
		if got < 1.2-epsilon || got > 1.8+epsilon {
			t.Fatalf("Oscillate out of range at phase %f: %f", phase, got)
		}
	}
}
