// pkg/entity/boss_test.go
package entity

import (
	"math"
	"testing"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/physics"
)

func newTestBoss() *Boss {
	return NewBoss(config.DefaultConfig().Boss)
}

func TestNewBoss(t *testing.T) {
	boss := newTestBoss()

	if boss.State != BossDormant {
		t.Errorf("Expected state dormant, got %v", boss.State)
	}
	if boss.Health != 10 {
		t.Errorf("Expected health 10, got %d", boss.Health)
	}
	if boss.Radius != 3.75 {
		t.Errorf("Expected radius 3.75, got %f", boss.Radius)
	}
	if boss.IsActive() {
		t.Error("Expected dormant boss to be inactive")
	}
}

func TestBoss_DormantIgnoresDamage(t *testing.T) {
	boss := newTestBoss()

	if boss.TakeDamage(5) {
		t.Error("Expected TakeDamage on dormant boss to return false")
	}
	if boss.Health != 10 {
		t.Errorf("Expected health unchanged at 10, got %d", boss.Health)
	}
	if boss.Flashing() {
		t.Error("Expected no hit flash on dormant boss")
	}
}

func TestBoss_Activate(t *testing.T) {
	boss := newTestBoss()
	boss.Activate(5)

	if boss.State != BossActive {
		t.Errorf("Expected state active, got %v", boss.State)
	}
	if boss.Position != physics.V3(0, 1.5, 30) {
		t.Errorf("Expected position (0, 1.5, 30), got %v", boss.Position)
	}
	if boss.HealthFraction() != 1 {
		t.Errorf("Expected full health, got %f", boss.HealthFraction())
	}
}

func TestBoss_ExactlyOneDestroyingHit(t *testing.T) {
	boss := newTestBoss()
	boss.Activate(0)

	for i := 1; i <= 9; i++ {
		if boss.TakeDamage(1) {
			t.Fatalf("Hit %d should not destroy the boss", i)
		}
	}
	if boss.Health != 1 {
		t.Errorf("Expected health 1 after nine hits, got %d", boss.Health)
	}

	if !boss.TakeDamage(1) {
		t.Fatal("Expected tenth hit to destroy the boss")
	}
	if boss.State != BossDestroyed || boss.Health != 0 {
		t.Errorf("Expected destroyed with 0 health, got %v with %d", boss.State, boss.Health)
	}

	if boss.TakeDamage(1) {
		t.Error("Expected hit on destroyed boss to return false")
	}
	if boss.Health != 0 {
		t.Errorf("Expected health to stay 0, got %d", boss.Health)
	}
}

func TestBoss_OverkillClampsHealth(t *testing.T) {
	boss := newTestBoss()
	boss.Activate(0)

	if !boss.TakeDamage(25) {
		t.Fatal("Expected overkill to destroy the boss")
	}
	if boss.Health != 0 {
		t.Errorf("Expected health clamped to 0, got %d", boss.Health)
	}
	if boss.HealthFraction() != 0 {
		t.Errorf("Expected health fraction 0, got %f", boss.HealthFraction())
	}
}

func TestBoss_ReactivateAfterDestroyed(t *testing.T) {
	boss := newTestBoss()
	boss.Activate(0)
	boss.TakeDamage(10)

	boss.Activate(4)

	if boss.State != BossActive || boss.Health != 10 {
		t.Errorf("Expected fresh fight, got %v with %d", boss.State, boss.Health)
	}
	if boss.TakeDamage(3) {
		t.Error("Expected partial hit not to destroy")
	}
	if math.Abs(boss.HealthFraction()-0.7) > epsilon {
		t.Errorf("Expected health fraction 0.7, got %f", boss.HealthFraction())
	}
}

func TestBoss_UpdateTracksShip(t *testing.T) {
	boss := newTestBoss()
	boss.Activate(0)

	boss.Update(0.5, physics.V3(3, 0.3, 2))

	wantY := 1.5 + math.Sin(0.75)*0.3
	want := physics.V3(3, wantY, 27)
	if !boss.Position.ApproxEqualThreshold(want, epsilon) {
		t.Errorf("Expected position %v, got %v", want, boss.Position)
	}

	dormant := newTestBoss()
	dormant.Update(0.5, physics.V3(3, 0.3, 2))
	if dormant.Position != physics.V3(0, 1.5, 0) {
		t.Errorf("Expected dormant boss not to move, got %v", dormant.Position)
	}
}

func TestBoss_HitFlash(t *testing.T) {
	boss := newTestBoss()
	boss.Activate(0)
	ship := physics.V3(0, 0.3, 0)

	boss.TakeDamage(1)

	steps := []struct {
		deltaTime float64
		flashing  bool
	}{
		{0.02, false}, // 0.28 -> 5
		{0.05, true},  // 0.23 -> 4
		{0.05, false}, // 0.18 -> 3
		{1, false},    // expired
	}
	for i, step := range steps {
		boss.Update(step.deltaTime, ship)
		if boss.Flashing() != step.flashing {
			t.Errorf("Step %d: Flashing() = %v, want %v", i, boss.Flashing(), step.flashing)
		}
	}
}

func TestBoss_FlashContinuesAfterDestroyed(t *testing.T) {
	boss := newTestBoss()
	boss.Activate(0)
	boss.TakeDamage(10)

	boss.Update(0.07, physics.V3(0, 0.3, 0))
	if !boss.Flashing() {
		t.Error("Expected hit flash to keep counting down after the destroying hit")
	}
}

func TestBossState_String(t *testing.T) {
	tests := []struct {
		state BossState
		want  string
	}{
		{BossDormant, "dormant"},
		{BossActive, "active"},
		{BossDestroyed, "destroyed"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
