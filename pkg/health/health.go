// Package health serves liveness and readiness probes for the game server.
// Readiness aggregates named checks; the server registers one for its
// listener, one for stalled game loops and one for process resources.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/opd-ai/go-asteroid-run/pkg/logging"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthCheck is one component's probe
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthStatus is the aggregated result of every registered check
type HealthStatus struct {
	Status    string                     `json:"status"`
	Checks    map[string]ComponentHealth `json:"checks"`
	CheckedAt time.Time                  `json:"checkedAt"`
}

// ComponentHealth is the result of a single check
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker runs the registered checks for the readiness probe
type HealthChecker struct {
	checks  map[string]HealthCheck
	mu      sync.RWMutex
	timeout time.Duration
	logger  *logging.Logger
	started time.Time
}

// NewHealthChecker creates a checker whose readiness probe gives all checks
// timeout to finish.
func NewHealthChecker(timeout time.Duration, logger *logging.Logger) *HealthChecker {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthChecker{
		checks:  make(map[string]HealthCheck),
		timeout: timeout,
		logger:  logger.WithComponent("health"),
		started: time.Now(),
	}
}

// AddCheck registers check, replacing any check with the same name
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a check by name
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// Names returns the registered check names in sorted order
func (hc *HealthChecker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckHealth runs every check. The result is healthy only if all pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status:    StatusHealthy,
		Checks:    make(map[string]ComponentHealth, len(hc.checks)),
		CheckedAt: time.Now(),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: StatusHealthy}
	}

	return status
}

// Handler serves /health (liveness) and /ready (readiness)
func (hc *HealthChecker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.LivenessHandler)
	mux.HandleFunc("/ready", hc.ReadinessHandler)
	return mux
}

// LivenessHandler answers 200 while the process can serve requests
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
		"uptime": time.Since(hc.started).Round(time.Second).String(),
	})
}

// ReadinessHandler answers 200 when every check passes and 503 otherwise
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), hc.timeout)
	defer cancel()

	health := hc.CheckHealth(ctx)
	code := http.StatusOK
	if health.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
		for name, check := range health.Checks {
			if check.Status != StatusHealthy {
				hc.logger.Warn(ctx, "readiness check failed", "check", name, "message", check.Message)
			}
		}
	}
	writeJSON(w, code, health)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// GameLoopHealthCheck fails while any session's game loop has not ticked
// within maxAge.
type GameLoopHealthCheck struct {
	stalled func(maxAge time.Duration) int
	maxAge  time.Duration
}

// NewGameLoopHealthCheck creates the check from a stalled-session counter
// such as GameServer.StalledSessions.
func NewGameLoopHealthCheck(stalled func(maxAge time.Duration) int, maxAge time.Duration) *GameLoopHealthCheck {
	return &GameLoopHealthCheck{stalled: stalled, maxAge: maxAge}
}

func (g *GameLoopHealthCheck) Name() string {
	return "game_loop"
}

func (g *GameLoopHealthCheck) Check(ctx context.Context) error {
	if n := g.stalled(g.maxAge); n > 0 {
		return fmt.Errorf("%d game loops have not ticked in %v", n, g.maxAge)
	}
	return nil
}

// NetworkHealthCheck fails while the game server is not listening
type NetworkHealthCheck struct {
	listenerAddr func() string
}

// NewNetworkHealthCheck creates the check from a listener address getter
func NewNetworkHealthCheck(listenerAddr func() string) *NetworkHealthCheck {
	return &NetworkHealthCheck{listenerAddr: listenerAddr}
}

func (n *NetworkHealthCheck) Name() string {
	return "network"
}

func (n *NetworkHealthCheck) Check(ctx context.Context) error {
	if n.listenerAddr() == "" {
		return fmt.Errorf("network listener is not active")
	}
	return nil
}
