// pkg/network/server.go
package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/logging"
	"github.com/opd-ai/go-asteroid-run/pkg/resource"
	"github.com/opd-ai/go-asteroid-run/pkg/validation"
)

// ErrServerFull is reported to players when every session slot is taken
var ErrServerFull = errors.New("server full")

// GameServer accepts websocket connections and runs one game per connection
type GameServer struct {
	cfg       *config.GameConfig
	env       *config.EnvironmentConfig
	logger    *logging.Logger
	resources *resource.Manager
	validator *validation.MessageValidator
	upgrader  websocket.Upgrader

	sessions   map[uint64]*session
	sessionsMu sync.RWMutex
	nextID     atomic.Uint64

	httpServer *http.Server
	listener   net.Listener
	listenMu   sync.RWMutex
}

// NewGameServer creates a server. Session goroutines are started through
// resources so their number stays bounded.
func NewGameServer(cfg *config.GameConfig, env *config.EnvironmentConfig, resources *resource.Manager, logger *logging.Logger) *GameServer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &GameServer{
		cfg:       cfg,
		env:       env,
		logger:    logger.WithComponent("network"),
		resources: resources,
		validator: validation.NewMessageValidator(cfg.Network.InputRate),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessions: make(map[uint64]*session),
	}
}

// Handler returns the HTTP handler serving the websocket path
func (s *GameServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Network.Path, s.HandleWS)
	return mux
}

// Start listens on address and serves in the background
func (s *GameServer) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.listenMu.Lock()
	s.listener = listener
	s.httpServer = server
	s.listenMu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(context.Background(), "game server stopped serving", err)
		}
	}()

	s.logger.Info(context.Background(), "game server started",
		"address", listener.Addr().String(),
		"path", s.cfg.Network.Path,
		"max_sessions", s.cfg.Network.MaxSessions,
	)
	return nil
}

// ListenerAddress returns the bound address, or "" when not listening
func (s *GameServer) ListenerAddress() string {
	s.listenMu.RLock()
	defer s.listenMu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// SessionCount returns the number of connected players
func (s *GameServer) SessionCount() int {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	return len(s.sessions)
}

// StalledSessions counts sessions whose game loop has not ticked within
// maxAge. Sessions that have not ticked yet are not counted.
func (s *GameServer) StalledSessions(maxAge time.Duration) int {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()

	stalled := 0
	now := time.Now()
	for _, sess := range s.sessions {
		last := sess.runner.LastTick()
		if !last.IsZero() && now.Sub(last) > maxAge {
			stalled++
		}
	}
	return stalled
}

// Stop closes the listener and every session
func (s *GameServer) Stop(ctx context.Context) error {
	s.listenMu.Lock()
	server := s.httpServer
	s.httpServer = nil
	s.listener = nil
	s.listenMu.Unlock()

	var err error
	if server != nil {
		err = server.Shutdown(ctx)
	}

	s.sessionsMu.RLock()
	open := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.sessionsMu.RUnlock()

	for _, sess := range open {
		sess.close()
	}
	s.validator.Close()

	s.logger.Info(ctx, "game server stopped", "closed_sessions", len(open))
	return err
}

// HandleWS upgrades a player connection and runs its session until the
// connection drops.
func (s *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	if s.SessionCount() >= s.cfg.Network.MaxSessions {
		http.Error(w, ErrServerFull.Error(), http.StatusServiceUnavailable)
		return
	}

	name, err := validation.ValidatePlayerName(r.URL.Query().Get("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "websocket upgrade failed", "error", err.Error())
		return
	}

	sess := newSession(s, s.nextID.Add(1), name, conn)
	if err := s.register(sess); err != nil {
		s.logger.Warn(sess.ctx, "rejecting player", "error", err.Error())
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(time.Second))
		sess.cancel()
		conn.Close()
		return
	}
	defer sess.close()

	if err := sess.start(); err != nil {
		s.logger.Error(sess.ctx, "failed to start session", err)
		return
	}
	sess.readLoop()
}

func (s *GameServer) register(sess *session) error {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	if len(s.sessions) >= s.cfg.Network.MaxSessions {
		return ErrServerFull
	}
	s.sessions[sess.id] = sess
	return nil
}

func (s *GameServer) unregister(id uint64) {
	s.sessionsMu.Lock()
	delete(s.sessions, id)
	s.sessionsMu.Unlock()
}
