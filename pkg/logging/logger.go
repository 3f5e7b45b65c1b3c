// Package logging provides structured JSON logging for the game binaries.
// Records are tagged with the component that wrote them, the player they
// concern and the run (local game, server process or network session) they
// belong to.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelEnvVar names the environment variable holding the log level
const LevelEnvVar = "ASTEROIDS_LOG_LEVEL"

// Attribute keys shared by every package that logs
const (
	KeyComponent   = "component"
	KeyPlayer      = "player"
	KeyClient      = "client"
	KeyCorrelation = "correlation_id"
)

// Logger is a slog.Logger with context-first level methods. Every record
// written with a context from NewRun carries that run's correlation ID.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger writing JSON to stdout at the level named by
// ASTEROIDS_LOG_LEVEL.
func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout, LevelFromEnv())
}

// NewLoggerWithWriter creates a JSON Logger on w. The terminal client uses
// it to keep log records off the screen it draws on.
func NewLoggerWithWriter(w io.Writer, level slog.Leveler) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	})
	return &Logger{slog.New(runHandler{handler})}
}

// NewNopLogger returns a Logger that discards everything
func NewNopLogger() *Logger {
	return &Logger{slog.New(slog.DiscardHandler)}
}

// LevelFromEnv parses ASTEROIDS_LOG_LEVEL (DEBUG, INFO, WARN or ERROR, any
// case). Unset or unknown values mean INFO.
func LevelFromEnv() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv(LevelEnvVar))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// WithComponent returns a child logger tagging every record with component
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{l.Logger.With(KeyComponent, component)}
}

// WithPlayer returns a child logger for one connected player
func (l *Logger) WithPlayer(name, clientID string) *Logger {
	return &Logger{l.Logger.With(KeyPlayer, name, KeyClient, clientID)}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.Log(ctx, slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.Log(ctx, slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.Log(ctx, slog.LevelWarn, msg, args...)
}

// Error logs msg at ERROR with err under the "error" key
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.Log(ctx, slog.LevelError, msg, args...)
}

type correlationKey struct{}

// NewRun returns ctx carrying a fresh correlation ID
func NewRun(ctx context.Context) context.Context {
	var b [8]byte
	rand.Read(b[:])
	return WithCorrelationID(ctx, hex.EncodeToString(b[:]))
}

// WithCorrelationID returns ctx carrying id
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the ID carried by ctx, or "" outside a run
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// runHandler stamps records with the correlation ID of their context
type runHandler struct {
	slog.Handler
}

func (h runHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := CorrelationID(ctx); id != "" {
		r = r.Clone()
		r.AddAttrs(slog.String(KeyCorrelation, id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return runHandler{h.Handler.WithAttrs(attrs)}
}

func (h runHandler) WithGroup(name string) slog.Handler {
	return runHandler{h.Handler.WithGroup(name)}
}

// redactedKeys mark attributes that never reach the log. Matching is by
// substring, so "session" must not appear here.
var redactedKeys = []string{"password", "secret", "token", "authorization", "cookie"}

func redact(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, k := range redactedKeys {
		if strings.Contains(key, k) {
			return slog.String(a.Key, "[REDACTED]")
		}
	}
	return a
}
