// pkg/resource/health.go
package resource

import (
	"context"
	"fmt"
)

// HealthCheck reports memory and goroutine pressure to the health endpoint
type HealthCheck struct {
	manager *Manager
}

// NewHealthCheck creates a health check backed by manager
func NewHealthCheck(manager *Manager) *HealthCheck {
	return &HealthCheck{manager: manager}
}

// Name returns the name of this health check.
func (h *HealthCheck) Name() string {
	return "resources"
}

// Check fails above the memory limit or at 80% of the goroutine budget
func (h *HealthCheck) Check(ctx context.Context) error {
	if err := h.manager.CheckMemory(); err != nil {
		return err
	}

	stats := h.manager.Stats()
	threshold := stats.MaxGoroutines * 8 / 10
	if stats.Goroutines > threshold {
		return fmt.Errorf("goroutine count %d exceeds 80%% of limit %d", stats.Goroutines, stats.MaxGoroutines)
	}
	return nil
}
