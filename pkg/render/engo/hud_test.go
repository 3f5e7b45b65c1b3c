package engo

import (
	"strings"
	"testing"

	"github.com/opd-ai/go-asteroid-run/pkg/engine"
	"github.com/opd-ai/go-asteroid-run/pkg/input"
)

func TestHUDText(t *testing.T) {
	tests := []struct {
		name   string
		hud    engine.HUDState
		status engine.GameStatus
		camera input.CameraMode
		want   string
	}{
		{
			name:   "playing",
			hud:    engine.HUDState{Score: 250, Lives: 2, Level: 4, Elapsed: 61.3},
			status: engine.GameStatusPlaying,
			camera: input.CameraChase,
			want:   "SCORE 250   LIVES 2   LEVEL 4   TIME 61.3s   CAM chase",
		},
		{
			name:   "game over",
			hud:    engine.HUDState{Score: 10, Lives: 0, Level: 1, Elapsed: 3},
			status: engine.GameStatusOver,
			camera: input.CameraSide,
			want:   "SCORE 10   LIVES 0   LEVEL 1   TIME 3.0s   CAM side   GAME OVER - press R to restart",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hudText(tt.hud, tt.status, tt.camera); got != tt.want {
				t.Errorf("hudText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewHUD(t *testing.T) {
	sink := newFakeSink()
	hud := NewHUD(sink, nil)

	if len(sink.added) != 2 {
		t.Errorf("Expected the label and boss bar to be added, got %d entities", len(sink.added))
	}
	if !hud.label.Hidden {
		t.Error("Expected the label to stay hidden without a font")
	}
	if hud.BossBarWidth() != 0 {
		t.Errorf("Expected no boss bar before a fight, got %v", hud.BossBarWidth())
	}
}

func TestHUD_Update(t *testing.T) {
	hud := NewHUD(newFakeSink(), nil)

	hud.Update(engine.HUDState{Score: 5}, engine.GameStatusPlaying, input.CameraTop,
		&engine.BossState{Health: 5, MaxHealth: 10})
	if got := hud.BossBarWidth(); got != bossBarWidth/2 {
		t.Errorf("Expected a half boss bar (%v), got %v", bossBarWidth/2, got)
	}
	if !strings.Contains(hud.Text(), "CAM top") {
		t.Errorf("Expected the camera in the HUD text, got %q", hud.Text())
	}
	if hud.label.Color != colorHUD {
		t.Errorf("Expected HUD color %v, got %v", colorHUD, hud.label.Color)
	}

	hud.Update(engine.HUDState{Score: 5}, engine.GameStatusOver, input.CameraTop, nil)
	if hud.BossBarWidth() != 0 {
		t.Errorf("Expected the boss bar hidden after the fight, got %v", hud.BossBarWidth())
	}
	if hud.label.Color != colorGameOver {
		t.Errorf("Expected game over color %v, got %v", colorGameOver, hud.label.Color)
	}
}
