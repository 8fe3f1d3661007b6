package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/treenav-dev/treenav/internal/config"
	"github.com/treenav-dev/treenav/internal/docs"
	"github.com/treenav-dev/treenav/internal/highlight"
	"github.com/treenav-dev/treenav/internal/protocol"
	"github.com/treenav-dev/treenav/internal/rpc"
	"github.com/treenav-dev/treenav/internal/status"
)

const shutdownTimeout = 5 * time.Second

// session is everything one command needs to talk to the analysis server:
// loaded config, a spawned and initialized server, the document store and
// the notification sinks.
type session struct {
	Config  config.Config
	Log     *slog.Logger
	Docs    *docs.Store
	Server  *rpc.Server
	Status  *status.Tracker
	Painter *highlight.Painter
}

// loadConfig resolves the --config and --server flags into a Config.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to read --config flag: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if override, err := cmd.Flags().GetString("server"); err == nil && override != "" {
		cfg.Server.Command = override
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openSession spawns the configured analysis server, runs the initialize
// handshake rooted at the working directory, and wires server notifications
// into the status tracker and highlight painter.
func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := newLogger(cmd)

	store, err := docs.NewStore(cfg.Docs.CacheSize, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}

	tracker := &status.Tracker{}
	painter := highlight.NewPainter()
	notify := func(method string, params json.RawMessage) {
		switch method {
		case protocol.MethodProgress:
			var progress protocol.ProgressParams
			if err := json.Unmarshal(params, &progress); err != nil {
				log.Warn("malformed progress notification", "error", err)
				return
			}
			tracker.SetJobs(progress.Jobs)
		case protocol.MethodPublishHighlight:
			var publish protocol.PublishHighlightParams
			if err := json.Unmarshal(params, &publish); err != nil {
				log.Warn("malformed highlight notification", "error", err)
				return
			}
			painter.Apply(publish)
		default:
			log.Debug("ignoring notification", "method", method)
		}
	}

	server, err := rpc.SpawnServer(ctx, cfg.Server.Command, cfg.Server.Args, log, notify)
	if err != nil {
		store.Close()
		return nil, err
	}

	workdir, err := os.Getwd()
	if err != nil {
		workdir = "."
	}
	if _, err := server.Initialize(ctx, docs.PathToURI(workdir), config.FlattenInit(cfg.Init)); err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		server.Shutdown(shutdownCtx)
		store.Close()
		return nil, fmt.Errorf("initialize handshake failed: %w", err)
	}

	return &session{
		Config:  cfg,
		Log:     log,
		Docs:    store,
		Server:  server,
		Status:  tracker,
		Painter: painter,
	}, nil
}

// Close shuts the server down politely and releases the document watcher.
func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Server.Shutdown(ctx); err != nil {
		s.Log.Warn("server shutdown failed", "error", err)
	}
	if err := s.Docs.Close(); err != nil {
		s.Log.Warn("document store close failed", "error", err)
	}
}
