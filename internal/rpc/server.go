package rpc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/treenav-dev/treenav/internal/protocol"
)

// Server manages one spawned analysis-server process and the RPC connection
// over its stdio pipes. Its stderr is drained into the log so server-side
// diagnostics end up in the same output channel as ours.
type Server struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	client *Client
	log    *slog.Logger
}

// SpawnServer starts the analysis server and begins dispatching its messages.
func SpawnServer(ctx context.Context, command string, args []string, log *slog.Logger, notify NotificationHandler) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	cmd := exec.CommandContext(ctx, command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open server stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open server stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open server stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start analysis server %q: %w", command, err)
	}

	client := NewClient(stdout, stdin, log, notify)
	server := &Server{cmd: cmd, stdin: stdin, client: client, log: log.With("component", "server")}

	go server.drainStderr(stderr)
	client.Start()

	server.log.Info("analysis server started", "command", command, "pid", cmd.Process.Pid, "session", client.Session())
	return server, nil
}

// Client is the RPC connection to the spawned process.
func (s *Server) Client() *Client { return s.client }

// Initialize performs the handshake, passing the flattened configuration as
// initialization options.
func (s *Server) Initialize(ctx context.Context, rootURI string, options map[string]any) (*protocol.InitializeResult, error) {
	params := protocol.InitializeParams{
		ProcessID:             os.Getpid(),
		RootURI:               rootURI,
		InitializationOptions: options,
	}
	var result protocol.InitializeResult
	if err := s.client.Call(ctx, protocol.MethodInitialize, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Shutdown asks the server to exit and waits briefly before killing it.
func (s *Server) Shutdown(ctx context.Context) error {
	callErr := s.client.Call(ctx, protocol.MethodShutdown, nil, nil)
	if err := s.client.Notify(protocol.MethodExit, nil); err != nil && callErr == nil {
		callErr = err
	}
	_ = s.stdin.Close()

	waited := make(chan error, 1)
	go func() { waited <- s.cmd.Wait() }()

	select {
	case err := <-waited:
		if err != nil && callErr == nil {
			callErr = fmt.Errorf("analysis server exited abnormally: %w", err)
		}
	case <-time.After(3 * time.Second):
		s.log.Warn("analysis server did not exit, killing", "pid", s.cmd.Process.Pid)
		_ = s.cmd.Process.Kill()
		<-waited
	}
	return callErr
}

func (s *Server) drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.log.Debug("server stderr", "line", scanner.Text())
	}
}
