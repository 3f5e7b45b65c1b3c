// cmd/client/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-asteroid-run/pkg/config"
	"github.com/opd-ai/go-asteroid-run/pkg/engine"
	"github.com/opd-ai/go-asteroid-run/pkg/event"
	"github.com/opd-ai/go-asteroid-run/pkg/logging"
	"github.com/opd-ai/go-asteroid-run/pkg/network"
	"github.com/opd-ai/go-asteroid-run/pkg/render"
	engorender "github.com/opd-ai/go-asteroid-run/pkg/render/engo"
)

type options struct {
	configPath string
	server     string
	name       string
	renderer   string
	logPath    string
	seed       uint64
	width      int
	height     int
	fullscreen bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.json", "Path to configuration file")
	flag.StringVar(&opts.server, "server", "", "Game server host:port or ws:// URL; empty plays locally")
	flag.StringVar(&opts.name, "name", "pilot", "Player name sent to the server")
	flag.StringVar(&opts.renderer, "renderer", "terminal", "Renderer type: 'terminal' or 'engo'")
	flag.StringVar(&opts.logPath, "log", "", "Log file (terminal renderer logs nowhere by default)")
	flag.Uint64Var(&opts.seed, "seed", 0, "Random seed for local games; 0 picks one")
	flag.IntVar(&opts.width, "width", 1024, "Window width (Engo only)")
	flag.IntVar(&opts.height, "height", 768, "Window height (Engo only)")
	flag.BoolVar(&opts.fullscreen, "fullscreen", false, "Run in fullscreen mode (Engo only)")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "asteroid-run:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	logger, closeLog, err := newLogger(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.NewRun(ctx)

	gameConfig, err := loadGameConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	var source render.FrameSource
	if opts.server == "" {
		source = startLocal(ctx, gameConfig, opts.seed, logger)
	} else {
		client, err := connect(ctx, gameConfig, opts, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		source = client
	}

	switch opts.renderer {
	case "engo":
		err = engorender.Run(source, engorender.Options{
			Title:      "Asteroid Run",
			Width:      opts.width,
			Height:     opts.height,
			Fullscreen: opts.fullscreen,
			SpriteSize: 64,
			FontSize:   20,
		}, logger)
	case "terminal":
		err = runTerminal(ctx, source)
	default:
		return fmt.Errorf("unknown renderer %q", opts.renderer)
	}

	switch {
	case errors.Is(err, render.ErrSourceClosed):
		if client, ok := source.(*network.GameClient); ok && client.Err() != nil {
			return fmt.Errorf("connection lost: %w", client.Err())
		}
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	default:
		return err
	}
}

// newLogger logs to stderr, except for the terminal renderer which owns the
// screen and logs to -log or nowhere
func newLogger(opts options) (*logging.Logger, func(), error) {
	if opts.renderer != "terminal" {
		return logging.NewLogger(), func() {}, nil
	}
	if opts.logPath == "" {
		return logging.NewLoggerWithWriter(io.Discard, slog.LevelInfo), func() {}, nil
	}
	f, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.NewLoggerWithWriter(f, slog.LevelDebug), func() { f.Close() }, nil
}

func loadGameConfig(path string) (*config.GameConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

// startLocal runs a game in this process. Game events go to the log.
func startLocal(ctx context.Context, cfg *config.GameConfig, seed uint64, logger *logging.Logger) *engine.Runner {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	bus := event.NewEventBus()
	events := logging.NewEventLogger(ctx, logger, bus)

	game := engine.NewGame(cfg, engine.WithSeed(seed), engine.WithPublisher(bus))
	runner := engine.NewRunner(game, cfg.Network.TickRate, cfg.Network.FrameBuffer)
	go func() {
		defer events.Close()
		runner.Run(ctx)
	}()

	logger.Info(ctx, "local game started",
		"seed", seed,
		"tick_rate", cfg.Network.TickRate,
	)
	return runner
}

// connect dials the game server named by -server
func connect(ctx context.Context, cfg *config.GameConfig, opts options, logger *logging.Logger) (*network.GameClient, error) {
	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load environment configuration: %w", err)
	}

	target := serverURL(opts.server, cfg.Network.Path, opts.name)
	logger.Info(ctx, "connecting", "url", target)

	client, err := network.Dial(ctx, target, envConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", opts.server, err)
	}
	logger.Info(ctx, "connected", "url", target)
	return client, nil
}

// serverURL turns host:port into a websocket URL. Full ws:// or wss:// URLs
// are used as given.
func serverURL(server, path, name string) string {
	if strings.HasPrefix(server, "ws://") || strings.HasPrefix(server, "wss://") {
		return server
	}
	u := url.URL{
		Scheme:   "ws",
		Host:     server,
		Path:     path,
		RawQuery: url.Values{"name": {name}}.Encode(),
	}
	return u.String()
}

func runTerminal(ctx context.Context, source render.FrameSource) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	return render.NewTerminalRenderer(screen).Play(ctx, source)
}
