// Command graphracers runs the Graph Racers server and its tools.
//
// Commands:
//  1. "serve" – runs the HTTP server exposing the REST API, WebSocket stream and an /mcp endpoint
//  2. "mcp" – runs an MCP stdio server, backed by an external API or an internal one
//  3. "tracks" – prints the track catalog
//  4. "play" – hot-seat match in the terminal
//
// Settings come from graphracers.json, .env and GRAPHRACERS_* variables, and
// flags override them. ngrok tunneling is available for easy external access
// during development.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/graphracers/api"
	"github.com/wricardo/mcp-training/graphracers/game/config"
	"github.com/wricardo/mcp-training/graphracers/game/service"
	"github.com/wricardo/mcp-training/graphracers/game/session"
	"github.com/wricardo/mcp-training/graphracers/logging"
	"github.com/wricardo/mcp-training/graphracers/settings"
	"github.com/wricardo/mcp-training/graphracers/telemetry"
	"github.com/wricardo/mcp-training/graphracers/transport/mcp"
	"github.com/wricardo/mcp-training/graphracers/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Graph Racers Server"
)

const defaultAPIURL = "http://localhost:8080"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "graphracers",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "settings file (default: graphracers.json if present)"},
			&cli.StringFlag{Name: "configs-dir", Usage: "directory containing track definitions"},
			&cli.StringFlag{Name: "default-track", Usage: "track used when none is requested"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn, error or off"},
			&cli.StringFlag{Name: "log-format", Usage: "console, json or auto"},
			&cli.BoolFlag{Name: "metrics", Usage: "export OpenTelemetry metrics to stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP server with API, WebSocket and MCP endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Usage: "HTTP server host"},
					&cli.IntFlag{Name: "port", Usage: "HTTP server port"},
					&cli.DurationFlag{Name: "session-ttl", Usage: "drop sessions idle for longer than this (0 keeps them)"},
					&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel (token from NGROK_AUTHTOKEN)"},
					&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain"},
				},
				Action: serveAction,
			},
			{
				Name:  "mcp",
				Usage: "Run an MCP stdio server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "api-url", Usage: "use this API instead of probing " + defaultAPIURL + " or starting one"},
				},
				Action: mcpAction,
			},
			{
				Name:   "tracks",
				Usage:  "List available tracks",
				Action: tracksAction,
			},
			{
				Name:  "play",
				Usage: "Play a hot-seat match in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "track", Usage: "track ID (default track if empty)"},
					&cli.IntFlag{Name: "players", Usage: "number of cars (1-4)"},
					&cli.IntFlag{Name: "damage-max", Usage: "damage that eliminates a car"},
					&cli.IntFlag{Name: "laps", Usage: "laps to win"},
				},
				Action: playAction,
			},
		},
	}
}

// loadSettings reads settings and applies any flags the user set
func loadSettings(cmd *cli.Command) (*settings.Settings, error) {
	s, err := settings.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("configs-dir") {
		s.ConfigsDir = cmd.String("configs-dir")
	}
	if cmd.IsSet("default-track") {
		s.DefaultTrack = cmd.String("default-track")
	}
	if cmd.IsSet("log-level") {
		s.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		s.LogFormat = cmd.String("log-format")
	}
	if cmd.IsSet("metrics") {
		s.Metrics.Enabled = cmd.Bool("metrics")
	}
	if cmd.IsSet("host") {
		s.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		s.Port = cmd.Int("port")
	}
	if cmd.IsSet("session-ttl") {
		s.SessionTTL = cmd.Duration("session-ttl")
	}
	if cmd.IsSet("ngrok") {
		s.Ngrok.Enabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-domain") {
		s.Ngrok.Domain = cmd.String("ngrok-domain")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// setup loads settings and builds the logger. Logs always go to stderr so
// stdout stays free for the MCP protocol and the terminal game.
func setup(cmd *cli.Command) (*settings.Settings, zerolog.Logger, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger, err := logging.New(s.LogLevel, s.LogFormat, os.Stderr)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return s, logger, nil
}

// startMetrics installs the global meter provider when metrics are enabled.
// The returned func flushes and stops it.
func startMetrics(s *settings.Settings, logger zerolog.Logger) (func(), error) {
	provider, err := telemetry.New(telemetry.Config{
		Enabled:        s.Metrics.Enabled,
		ServiceName:    "graphracers",
		ServiceVersion: Version,
		Interval:       s.Metrics.Interval,
		Writer:         os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	provider.Install()
	if s.Metrics.Enabled {
		logger.Info().Dur("interval", s.Metrics.Interval).Msg("metrics export enabled")
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("metrics shutdown error")
		}
	}, nil
}

// initializeServices wires the track catalog, the session manager and the
// game service
func initializeServices(s *settings.Settings, logger zerolog.Logger) (service.GameService, *session.Manager, error) {
	tracks, err := config.NewManager(s.ConfigsDir, s.DefaultTrack)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create track catalog: %w", err)
	}

	sessions := session.NewManager()
	gameService, err := service.NewGameService(sessions, tracks, service.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create game service: %w", err)
	}
	return gameService, sessions, nil
}

// newHandler builds the API server with the /mcp endpoint mounted. The MCP
// client calls back into the API at baseURL.
func newHandler(gameService service.GameService, hub *websocket.Hub, baseURL string, logger zerolog.Logger) *api.Server {
	apiServer := api.NewServer(gameService, hub, logger)
	apiServer.Handle("/mcp", mcp.NewClient(baseURL), http.MethodPost)
	return apiServer
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	s, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	stopMetrics, err := startMetrics(s, logger)
	if err != nil {
		return err
	}
	defer stopMetrics()
	gameService, sessions, err := initializeServices(s, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("version", Version).Str("configs", s.ConfigsDir).Msg("starting " + AppName)
	return runHTTPServer(ctx, s, gameService, sessions, logger)
}

// runHTTPServer serves the API, WebSocket hub and /mcp endpoint until ctx is
// cancelled. If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, s *settings.Settings, gameService service.GameService, sessions *session.Manager, logger zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	handler := newHandler(gameService, hub, s.BaseURL(), logger)

	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	addr := listener.Addr().String()

	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errc := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info().
			Str("addr", addr).
			Str("api", "http://"+addr+"/api").
			Str("ws", "ws://"+addr+"/ws?session=<session_id>").
			Str("mcp", "http://"+addr+"/mcp").
			Msg("HTTP server listening")

		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("HTTP server failed: %w", err)
			cancel()
		}
	}()

	if s.SessionTTL > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sessionCleanupRoutine(ctx, sessions, s.SessionTTL, logger)
		}()
	}

	if s.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, s.Ngrok, handler, logger)
		}()
	}

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	logger.Info().Msg("server stopped")

	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled
func runNgrok(ctx context.Context, opts settings.NgrokSettings, handler http.Handler, logger zerolog.Logger) {
	log := logger.With().Str("component", "ngrok").Logger()
	log.Info().Msg("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if opts.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.Domain))
		log.Info().Str("domain", opts.Domain).Msg("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.AuthToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	url := tun.URL()
	log.Info().
		Str("url", url).
		Str("api", url+"/api").
		Str("ws", url+"/ws?session=<session_id>").
		Str("mcp", url+"/mcp").
		Msg("🚀 ngrok tunnel established")

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, ttl time.Duration, logger zerolog.Logger) {
	interval := ttl / 4
	if interval > time.Hour {
		interval = time.Hour
	}
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				logger.Info().Int("removed", removed).Int("remaining", manager.Count()).Msg("cleaned up expired sessions")
			}
		}
	}
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	s, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	stopMetrics, err := startMetrics(s, logger)
	if err != nil {
		return err
	}
	defer stopMetrics()

	baseURL, shutdown, err := resolveAPI(ctx, cmd.String("api-url"), s, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	logger.Info().Str("api", baseURL).Msg("MCP stdio server ready")
	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// resolveAPI picks the API the MCP client talks to: apiURL if given, else an
// API already answering on localhost:8080, else an internal server on a
// random loopback port. The returned func stops the internal server.
func resolveAPI(ctx context.Context, apiURL string, s *settings.Settings, logger zerolog.Logger) (string, func(), error) {
	noop := func() {}
	if apiURL != "" {
		return apiURL, noop, nil
	}

	if apiAvailable(ctx, defaultAPIURL) {
		logger.Info().Str("api", defaultAPIURL).Msg("external API server found, using it for MCP")
		return defaultAPIURL, noop, nil
	}

	logger.Info().Msg("no external API server found, starting internal HTTP server")
	gameService, _, err := initializeServices(s, logger)
	if err != nil {
		return "", noop, err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", noop, fmt.Errorf("failed to get available port: %w", err)
	}
	baseURL := "http://" + listener.Addr().String()

	hubCtx, cancel := context.WithCancel(ctx)
	hub := websocket.NewHub(logger)
	go hub.Run(hubCtx)

	httpServer := &http.Server{Handler: api.NewServer(gameService, hub, logger)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("internal HTTP server error")
		}
	}()

	logger.Info().Str("api", baseURL).Msg("internal HTTP server started")
	return baseURL, func() {
		cancel()
		httpServer.Close()
	}, nil
}

func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func tracksAction(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	tracks, err := config.NewManager(s.ConfigsDir, s.DefaultTrack)
	if err != nil {
		return err
	}
	return printTracks(cmd.Root().Writer, tracks)
}

func printTracks(w io.Writer, catalog service.TrackCatalog) error {
	tracks, err := catalog.ListTracks()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCHECKPOINTS\tDESCRIPTION")
	for _, t := range tracks {
		id := t.TrackID
		if t.Default {
			id += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", id, t.Name, t.Checkpoints, t.Description)
	}
	return tw.Flush()
}

func playAction(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	// the board owns the terminal, so only errors are logged
	logger, err := logging.New("error", s.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	gameService, _, err := initializeServices(s, logger)
	if err != nil {
		return err
	}

	opts := service.MatchOptions{
		Track:     cmd.String("track"),
		Players:   cmd.Int("players"),
		DamageMax: cmd.Int("damage-max"),
		Laps:      cmd.Int("laps"),
	}
	return runPlay(ctx, gameService, opts, os.Stdin, cmd.Root().Writer)
}
