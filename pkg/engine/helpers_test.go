// pkg/engine/helpers_test.go
package engine

import (
	"math/rand/v2"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/entity"
	"github.com/opd-ai/go-asteroid-run/pkg/event"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

const epsilon = 1e-9

// recorder collects published events in order
type recorder struct {
	events []event.Event
}

func (r *recorder) Publish(e event.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) count(eventType event.Type) int {
	n := 0
	for _, e := range r.events {
		if e.GetType() == eventType {
			n++
		}
	}
	return n
}

// quietConfig disables timed spawning so tests control every asteroid
func quietConfig() *config.GameConfig {
	cfg := config.DefaultConfig()
	cfg.Asteroids.BaseSpawnInterval = 1000
	cfg.Asteroids.MinSpawnInterval = 1000
	cfg.Waves.Enabled = false
	return cfg
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1024))
}

// place adds an asteroid at (x, 0.5, z) moving at speed
func place(m *AsteroidManager, x, z, speed float64) *entity.Asteroid {
	a := entity.NewAsteroid(physics.V3(x, 0.5, z), speed, 0.3, physics.Rotation{}, m.cfg.DespawnZ)
	m.asteroids = append(m.asteroids, a)
	return a
}

var origin = physics.V3(0, 0.3, 0)
