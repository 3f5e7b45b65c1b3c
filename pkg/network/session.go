// pkg/network/session.go
package network

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-asteroid-run/pkg/engine"
	"github.com/opd-ai/go-asteroid-run/pkg/event"
	"github.com/opd-ai/go-asteroid-run/pkg/logging"
	"github.com/opd-ai/go-asteroid-run/pkg/validation"
)

// session is one player's game. The runner goroutine owns the Game; the
// writer goroutine owns all writes to conn; the HTTP handler goroutine
// reads.
type session struct {
	id       uint64
	clientID string
	conn     *websocket.Conn
	server   *GameServer
	logger   *logging.Logger

	game    *engine.Game
	runner  *engine.Runner
	bus     *event.Bus
	events  *logging.EventLogger
	breaker *NetworkService

	ctx       context.Context
	cancel    context.CancelFunc
	writerEnd chan struct{}
	started   atomic.Bool
	closeOnce sync.Once
	dropped   atomic.Uint64
}

func newSession(server *GameServer, id uint64, name string, conn *websocket.Conn) *session {
	clientID := "player-" + strconv.FormatUint(id, 10)
	ctx, cancel := context.WithCancel(context.Background())
	ctx = logging.NewRun(ctx)
	logger := server.logger.WithPlayer(name, clientID)

	bus := event.NewEventBus()
	opts := []engine.Option{engine.WithPublisher(bus)}
	if seed := server.env.Seed; seed != 0 {
		opts = append(opts, engine.WithSeed(seed+id))
	}
	game := engine.NewGame(server.cfg, opts...)

	return &session{
		id:        id,
		clientID:  clientID,
		conn:      conn,
		server:    server,
		logger:    logger,
		game:      game,
		runner:    engine.NewRunner(game, server.cfg.Network.TickRate, server.cfg.Network.FrameBuffer),
		bus:       bus,
		events:    logging.NewEventLogger(ctx, logger, bus),
		breaker:   NewNetworkService("frames-"+clientID, server.env, logger),
		ctx:       ctx,
		cancel:    cancel,
		writerEnd: make(chan struct{}),
	}
}

// start launches the game loop and the frame writer
func (s *session) start() error {
	resources := s.server.resources

	if err := resources.Go(s.ctx, "game-loop", func(ctx context.Context) {
		s.runner.Run(ctx)
	}); err != nil {
		return err
	}

	if err := resources.Go(s.ctx, "frame-writer", func(ctx context.Context) {
		defer close(s.writerEnd)
		s.writeLoop(ctx)
	}); err != nil {
		s.cancel()
		return err
	}
	s.started.Store(true)

	s.logger.Info(s.ctx, "player connected",
		"remote", s.conn.RemoteAddr().String(),
	)
	return nil
}

// readLoop feeds validated input messages to the runner until the
// connection fails.
func (s *session) readLoop() {
	readTimeout := s.server.env.ReadTimeout
	s.conn.SetReadLimit(validation.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn(s.ctx, "connection lost", "error", err.Error())
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(readTimeout))

		if err := s.server.validator.ValidateMessage(data, s.clientID); err != nil {
			if errors.Is(err, validation.ErrRateLimited) {
				s.logger.Warn(s.ctx, "dropping input", "error", err.Error())
			} else {
				s.logger.Debug(s.ctx, "invalid input", "error", err.Error())
			}
			continue
		}

		var msg InputMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug(s.ctx, "invalid input", "error", err.Error())
			continue
		}
		if err := msg.Validate(); err != nil {
			s.logger.Debug(s.ctx, "invalid input", "error", err.Error())
			continue
		}

		if err := s.runner.SendInput(msg.Snapshot()); err != nil {
			return
		}
	}
}

// writeLoop sends every frame and keeps the connection alive with pings
func (s *session) writeLoop(ctx context.Context) {
	pings := time.NewTicker(s.server.env.ReadTimeout / 2)
	defer pings.Stop()

	frames := s.runner.Frames()
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				return
			}
			s.writeFrame(ctx, frame)
		case <-pings.C:
			deadline := time.Now().Add(s.server.env.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Debug(ctx, "ping failed", "error", err.Error())
			}
		}
	}
}

func (s *session) writeFrame(ctx context.Context, frame *engine.Frame) {
	data, err := EncodeFrame(frame)
	if err != nil {
		s.logger.Error(ctx, "failed to encode frame", err, "tick", frame.Tick)
		return
	}

	err = s.breaker.Execute(ctx, func() error {
		s.conn.SetWriteDeadline(time.Now().Add(s.server.env.WriteTimeout))
		return s.conn.WriteMessage(websocket.BinaryMessage, data)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			s.dropped.Add(1)
		}
	}
}

// close stops the game, waits for the writer and releases the connection
func (s *session) close() {
	s.closeOnce.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.writerEnd
		}
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.conn.Close()
		s.events.Close()
		s.server.validator.Forget(s.clientID)
		s.server.unregister(s.id)

		result := s.game.Result()
		s.logger.Info(s.ctx, "player disconnected",
			"score", result.Score,
			"level", result.Level,
			"dropped_frames", s.dropped.Load()+s.runner.Dropped(),
		)
	})
}
