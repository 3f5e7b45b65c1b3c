// Package validation checks input messages arriving from remote players
// before they reach a game session.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Message limits
const (
	MaxMessageSize   = 4 * 1024
	MaxPlayerNameLen = 32
	MaxCameraMode    = 3
)

// Sentinel errors, wrapped with detail by the validators
var (
	ErrMessageTooLarge = errors.New("message too large")
	ErrInvalidMessage  = errors.New("invalid message")
	ErrRateLimited     = errors.New("rate limit exceeded")
)

// Allow alphanumeric, spaces, hyphens, underscores and basic punctuation
var validPlayerNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.<>()]+$`)

// MessageValidator checks raw messages for size, format and rate
type MessageValidator struct {
	rateLimiter *RateLimiter
	perSecond   int
}

// NewMessageValidator allows each client perSecond messages per second
func NewMessageValidator(perSecond int) *MessageValidator {
	if perSecond < 1 {
		perSecond = 1
	}
	return &MessageValidator{
		rateLimiter: NewRateLimiter(perSecond, time.Second),
		perSecond:   perSecond,
	}
}

// Close releases resources used by the message validator
func (v *MessageValidator) Close() {
	if v.rateLimiter != nil {
		v.rateLimiter.Close()
	}
}

// Forget drops the rate limit state of a disconnected client
func (v *MessageValidator) Forget(clientID string) {
	v.rateLimiter.Remove(clientID)
}

// ValidateMessage validates a raw message against size, format and rate
func (v *MessageValidator) ValidateMessage(data []byte, clientID string) error {
	if len(data) > MaxMessageSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrMessageTooLarge, len(data), MaxMessageSize)
	}

	if !json.Valid(data) {
		return fmt.Errorf("%w: invalid JSON format", ErrInvalidMessage)
	}

	if !v.rateLimiter.Allow(clientID) {
		return fmt.Errorf("%w: max %d messages per second", ErrRateLimited, v.perSecond)
	}

	return nil
}

// ValidateCameraMode accepts 0 (keep) through MaxCameraMode
func ValidateCameraMode(mode int) error {
	if mode < 0 || mode > MaxCameraMode {
		return fmt.Errorf("%w: camera mode %d (must be 0-%d)", ErrInvalidMessage, mode, MaxCameraMode)
	}
	return nil
}

// ValidatePlayerName validates and sanitizes a player name. An empty name
// is replaced by "pilot".
func ValidatePlayerName(name string) (string, error) {
	if name == "" {
		return "pilot", nil
	}

	if len(name) > MaxPlayerNameLen {
		return "", fmt.Errorf("%w: player name too long: %d characters (max %d)", ErrInvalidMessage, len(name), MaxPlayerNameLen)
	}

	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: player name contains invalid UTF-8 characters", ErrInvalidMessage)
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: player name cannot be only whitespace", ErrInvalidMessage)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: player name contains control characters", ErrInvalidMessage)
		}
	}

	if !validPlayerNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("%w: player name contains invalid characters", ErrInvalidMessage)
	}

	return html.EscapeString(trimmed), nil
}
