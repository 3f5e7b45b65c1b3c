// pkg/config/env.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvironmentConfig holds process-level settings for the server binaries,
// read from ASTEROIDS_* variables.
type EnvironmentConfig struct {
	ServerAddr   string
	ServerPort   int
	HealthPort   int
	MaxSessions  int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TickRate     int
	InputRate    int
	Seed         uint64

	// Circuit breaker around frame writes
	CircuitBreakerMaxRequests         uint32
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails uint32

	// Resource limits
	MaxMemoryMB           int
	MaxGoroutines         int
	ResourceCheckInterval time.Duration
	ShutdownTimeout       time.Duration
}

// ValidationError names the environment setting that failed validation.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// LoadDotEnv loads variables from the given files (".env" when none are
// given) without overriding variables that are already set. Missing files
// are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// LoadConfigFromEnv reads the environment (after an optional .env file) and
// validates the result.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	config := &EnvironmentConfig{
		ServerAddr:   getEnvOrDefault("ASTEROIDS_SERVER_ADDR", "localhost"),
		ServerPort:   getEnvAsIntOrDefault("ASTEROIDS_SERVER_PORT", 4566),
		HealthPort:   getEnvAsIntOrDefault("ASTEROIDS_HEALTH_PORT", 8080),
		MaxSessions:  getEnvAsIntOrDefault("ASTEROIDS_MAX_SESSIONS", 16),
		ReadTimeout:  getEnvAsDurationOrDefault("ASTEROIDS_READ_TIMEOUT", 60*time.Second),
		WriteTimeout: getEnvAsDurationOrDefault("ASTEROIDS_WRITE_TIMEOUT", 10*time.Second),
		TickRate:     getEnvAsIntOrDefault("ASTEROIDS_TICK_RATE", 60),
		InputRate:    getEnvAsIntOrDefault("ASTEROIDS_INPUT_RATE", 120),
		Seed:         uint64(getEnvAsIntOrDefault("ASTEROIDS_SEED", 0)),

		CircuitBreakerMaxRequests:         uint32(getEnvAsIntOrDefault("ASTEROIDS_CB_MAX_REQUESTS", 3)),
		CircuitBreakerInterval:            getEnvAsDurationOrDefault("ASTEROIDS_CB_INTERVAL", 60*time.Second),
		CircuitBreakerTimeout:             getEnvAsDurationOrDefault("ASTEROIDS_CB_TIMEOUT", 30*time.Second),
		CircuitBreakerMaxConsecutiveFails: uint32(getEnvAsIntOrDefault("ASTEROIDS_CB_MAX_FAILS", 5)),

		MaxMemoryMB:           getEnvAsIntOrDefault("ASTEROIDS_MAX_MEMORY_MB", 512),
		MaxGoroutines:         getEnvAsIntOrDefault("ASTEROIDS_MAX_GOROUTINES", 1000),
		ResourceCheckInterval: getEnvAsDurationOrDefault("ASTEROIDS_RESOURCE_CHECK_INTERVAL", 30*time.Second),
		ShutdownTimeout:       getEnvAsDurationOrDefault("ASTEROIDS_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks ranges of the environment settings
func (c *EnvironmentConfig) Validate() error {
	if c.ServerAddr == "" {
		return &ValidationError{Field: "ServerAddr", Value: c.ServerAddr, Message: "must not be empty"}
	}
	if c.ServerPort < 1024 || c.ServerPort > 65535 {
		return &ValidationError{Field: "ServerPort", Value: c.ServerPort, Message: "must be between 1024 and 65535"}
	}
	if c.HealthPort < 1024 || c.HealthPort > 65535 {
		return &ValidationError{Field: "HealthPort", Value: c.HealthPort, Message: "must be between 1024 and 65535"}
	}
	if c.MaxSessions < 1 || c.MaxSessions > 1000 {
		return &ValidationError{Field: "MaxSessions", Value: c.MaxSessions, Message: "must be between 1 and 1000"}
	}
	if c.ReadTimeout < time.Second {
		return &ValidationError{Field: "ReadTimeout", Value: c.ReadTimeout, Message: "must be at least 1s"}
	}
	if c.WriteTimeout < 100*time.Millisecond {
		return &ValidationError{Field: "WriteTimeout", Value: c.WriteTimeout, Message: "must be at least 100ms"}
	}
	if c.TickRate < 1 || c.TickRate > 240 {
		return &ValidationError{Field: "TickRate", Value: c.TickRate, Message: "must be between 1 and 240"}
	}
	if c.InputRate < 1 {
		return &ValidationError{Field: "InputRate", Value: c.InputRate, Message: "must be positive"}
	}
	if c.CircuitBreakerMaxConsecutiveFails == 0 {
		return &ValidationError{Field: "CircuitBreakerMaxConsecutiveFails", Value: c.CircuitBreakerMaxConsecutiveFails, Message: "must be positive"}
	}
	if c.MaxMemoryMB < 16 {
		return &ValidationError{Field: "MaxMemoryMB", Value: c.MaxMemoryMB, Message: "must be at least 16"}
	}
	if c.MaxGoroutines < 3*c.MaxSessions {
		return &ValidationError{Field: "MaxGoroutines", Value: c.MaxGoroutines, Message: "must allow three goroutines per session"}
	}
	if c.ResourceCheckInterval <= 0 {
		return &ValidationError{Field: "ResourceCheckInterval", Value: c.ResourceCheckInterval, Message: "must be positive"}
	}
	if c.ShutdownTimeout <= 0 {
		return &ValidationError{Field: "ShutdownTimeout", Value: c.ShutdownTimeout, Message: "must be positive"}
	}
	return nil
}

// ListenAddr returns host:port for the game server
func (c *EnvironmentConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerAddr, c.ServerPort)
}

// ApplyEnvironmentOverrides loads the environment and copies the network
// settings onto a game config. ASTEROIDS_WAVES and ASTEROIDS_SHIP_SPEED
// override the matching gameplay tunables.
func ApplyEnvironmentOverrides(config *GameConfig) error {
	envConfig, err := LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}

	config.Network.ServerAddress = envConfig.ListenAddr()
	config.Network.ServerPort = envConfig.ServerPort
	config.Network.MaxSessions = envConfig.MaxSessions
	config.Network.TickRate = envConfig.TickRate
	config.Network.InputRate = envConfig.InputRate
	config.Waves.Enabled = getEnvAsBoolOrDefault("ASTEROIDS_WAVES", config.Waves.Enabled)
	config.Ship.BaseSpeed = getEnvAsFloatOrDefault("ASTEROIDS_SHIP_SPEED", config.Ship.BaseSpeed)

	return config.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
