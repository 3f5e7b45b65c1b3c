package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/logging"
)

// NetworkService runs network operations through a circuit breaker. The
// server keeps one per session around frame writes so a stalled client
// stops costing write timeouts; the client uses one for dialing.
type NetworkService struct {
	breaker    *gobreaker.CircuitBreaker
	logger     *logging.Logger
	maxRetries int
	retryDelay time.Duration
}

// NetworkOperation represents a function that performs a network operation.
// It should return an error if the operation fails.
type NetworkOperation func() error

// permanentError marks a failure that retrying cannot fix
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so ExecuteWithRetry gives up immediately
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// NewNetworkService creates a breaker named name with limits from the
// environment config.
func NewNetworkService(name string, envConfig *config.EnvironmentConfig, logger *logging.Logger) *NetworkService {
	if logger == nil {
		logger = logging.NewLogger()
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: envConfig.CircuitBreakerMaxRequests,
		Interval:    envConfig.CircuitBreakerInterval,
		Timeout:     envConfig.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= envConfig.CircuitBreakerMaxConsecutiveFails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			var permanent *permanentError
			return err == nil || errors.As(err, &permanent)
		},
	}

	return &NetworkService{
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
		maxRetries: 3,
		retryDelay: time.Second,
	}
}

// Execute runs a network operation through the circuit breaker.
// If the circuit is open (too many failures), it will return an error immediately.
func (ns *NetworkService) Execute(ctx context.Context, operation NetworkOperation) error {
	_, err := ns.breaker.Execute(func() (interface{}, error) {
		return nil, operation()
	})
	if err != nil {
		ns.logger.Log(ctx, slog.LevelDebug, "circuit breaker execution failed",
			"error", err.Error(),
			"state", ns.breaker.State().String(),
		)
		return fmt.Errorf("circuit breaker: %w", err)
	}
	return nil
}

// ExecuteWithRetry runs a network operation with linear backoff between
// attempts. Permanent errors and an open circuit end the retries early.
func (ns *NetworkService) ExecuteWithRetry(ctx context.Context, operation NetworkOperation) error {
	for attempt := 0; attempt < ns.maxRetries; attempt++ {
		err := ns.Execute(ctx, operation)
		if err == nil {
			return nil
		}

		var permanent *permanentError
		if errors.As(err, &permanent) {
			return err
		}

		if ns.breaker.State() == gobreaker.StateOpen {
			ns.logger.Log(ctx, slog.LevelWarn, "circuit breaker is open, skipping retries",
				"attempt", attempt+1,
				"max_retries", ns.maxRetries,
			)
			return err
		}

		if attempt == ns.maxRetries-1 {
			ns.logger.Log(ctx, slog.LevelError, "all retry attempts failed",
				"attempts", ns.maxRetries,
				"final_error", err.Error(),
			)
			return fmt.Errorf("max retries (%d) exceeded: %w", ns.maxRetries, err)
		}

		delay := time.Duration(attempt+1) * ns.retryDelay
		ns.logger.Log(ctx, slog.LevelWarn, "operation failed, retrying",
			"attempt", attempt+1,
			"delay", delay,
			"error", err.Error(),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("unexpected exit from retry loop")
}

// GetState returns the current state of the circuit breaker.
func (ns *NetworkService) GetState() gobreaker.State {
	return ns.breaker.State()
}

// GetCounts returns the current failure/success counts of the circuit breaker.
func (ns *NetworkService) GetCounts() gobreaker.Counts {
	return ns.breaker.Counts()
}
