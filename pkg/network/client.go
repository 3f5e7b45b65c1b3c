// pkg/network/client.go
package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/engine"
	"github.com/opd-ai/go-asteroid-run/pkg/input"
	"github.com/opd-ai/go-asteroid-run/pkg/logging"
)

// ErrClosed is returned when using a client after its connection ended
var ErrClosed = errors.New("connection closed")

// GameClient plays a remote game: it sends input messages and receives frames
type GameClient struct {
	conn         *websocket.Conn
	service      *NetworkService
	logger       *logging.Logger
	writeTimeout time.Duration

	frames    chan *engine.Frame
	done      chan struct{}
	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	dropped   atomic.Uint64

	errMu sync.Mutex
	err   error
}

// Dial connects to a game server URL such as ws://localhost:4566/ws?name=ace.
// Connection failures are retried through a circuit breaker; a refused
// handshake (server full, bad name) is not.
func Dial(ctx context.Context, url string, env *config.EnvironmentConfig, logger *logging.Logger) (*GameClient, error) {
	if logger == nil {
		logger = logging.NewLogger()
	}
	service := NewNetworkService("asteroids-client", env, logger)
	return dial(ctx, url, env, service, logger)
}

func dial(ctx context.Context, url string, env *config.EnvironmentConfig, service *NetworkService, logger *logging.Logger) (*GameClient, error) {
	var conn *websocket.Conn
	err := service.ExecuteWithRetry(ctx, func() error {
		c, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
				return Permanent(fmt.Errorf("handshake refused with status %d: %w", resp.StatusCode, err))
			}
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	c := &GameClient{
		conn:         conn,
		service:      service,
		logger:       logger.WithComponent("client"),
		writeTimeout: env.WriteTimeout,
		frames:       make(chan *engine.Frame, 8),
		done:         make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Frames delivers decoded frames. It is closed when the connection ends;
// the oldest frame is dropped when the reader falls behind.
func (c *GameClient) Frames() <-chan *engine.Frame {
	return c.frames
}

// Done is closed when the connection has ended
func (c *GameClient) Done() <-chan struct{} {
	return c.done
}

// Err returns why the connection ended, or nil while it is open
func (c *GameClient) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Dropped returns how many frames were discarded for a slow reader
func (c *GameClient) Dropped() uint64 {
	return c.dropped.Load()
}

// SendInput sends the current input state to the server
func (c *GameClient) SendInput(in input.Snapshot) error {
	if c.closed.Load() {
		return ErrClosed
	}

	return c.service.Execute(context.Background(), func() error {
		c.writeMu.Lock()
		defer c.writeMu.Unlock()
		c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
		return c.conn.WriteJSON(NewInputMessage(in))
	})
}

// Close ends the connection and waits for the reader to stop
func (c *GameClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()

		err = c.conn.Close()
		<-c.done
	})
	return err
}

func (c *GameClient) readLoop() {
	defer close(c.done)
	defer close(c.frames)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.errMu.Lock()
			c.err = fmt.Errorf("%w: %w", ErrClosed, err)
			c.errMu.Unlock()
			c.closed.Store(true)
			return
		}

		frame, err := DecodeFrame(data)
		if err != nil {
			c.logger.Warn(context.Background(), "skipping undecodable frame", "error", err.Error())
			continue
		}
		c.push(frame)
	}
}

// push queues frame, discarding the oldest queued frame when full
func (c *GameClient) push(frame *engine.Frame) {
	for {
		select {
		case c.frames <- frame:
			return
		default:
		}
		select {
		case <-c.frames:
			c.dropped.Add(1)
		default:
		}
	}
}
