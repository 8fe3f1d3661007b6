package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrClosed is returned by Call once the connection has shut down.
var ErrClosed = errors.New("rpc: connection closed")

// NotificationHandler receives server-initiated notifications. Handlers run
// on the read loop goroutine and must not block.
type NotificationHandler func(method string, params json.RawMessage)

// Client is a request/response JSON-RPC client over a framed byte stream.
// Responses are correlated to requests by id; the channel itself does not
// guarantee response ordering across independently issued calls.
type Client struct {
	writeMu sync.Mutex
	w       io.Writer

	mu      sync.Mutex
	seq     int
	pending map[int]chan *message
	closed  bool

	r       *bufio.Reader
	notify  NotificationHandler
	log     *slog.Logger
	session string
	done    chan struct{}
}

// NewClient wraps a read/write pair. Call Start to begin dispatching.
func NewClient(r io.Reader, w io.Writer, log *slog.Logger, notify NotificationHandler) *Client {
	if log == nil {
		log = slog.Default()
	}
	session := uuid.NewString()
	return &Client{
		w:       w,
		r:       bufio.NewReader(r),
		pending: make(map[int]chan *message),
		notify:  notify,
		log:     log.With("component", "rpc", "session", session),
		session: session,
		done:    make(chan struct{}),
	}
}

// Session is the correlation id used in this connection's log records.
func (c *Client) Session() string { return c.session }

// Start launches the read loop. It returns immediately.
func (c *Client) Start() {
	go c.readLoop()
}

// Done is closed when the read loop exits.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		body, err := ReadFrame(c.r)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.log.Warn("read loop terminated", "error", err)
			}
			c.failPending()
			return
		}

		var msg message
		if err := json.Unmarshal(body, &msg); err != nil {
			c.log.Warn("discarding unparseable frame", "error", err)
			continue
		}

		switch {
		case msg.ID != nil:
			c.deliver(&msg)
		case msg.Method != "":
			if c.notify != nil {
				c.notify(msg.Method, msg.Params)
			}
		default:
			c.log.Warn("discarding frame with neither id nor method")
		}
	}
}

func (c *Client) deliver(msg *message) {
	c.mu.Lock()
	ch, ok := c.pending[*msg.ID]
	if ok {
		delete(c.pending, *msg.ID)
	}
	c.mu.Unlock()
	if !ok {
		c.log.Debug("dropping response for unknown request id", "id", *msg.ID)
		return
	}
	ch <- msg
}

func (c *Client) failPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, ch := range c.pending {
		delete(c.pending, id)
		close(ch)
	}
}

// Call issues one request and decodes the response result into result, which
// may be nil when the caller does not need the payload.
func (c *Client) Call(ctx context.Context, method string, params any, result any) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.seq++
	id := c.seq
	ch := make(chan *message, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.write(request{JSONRPC: "2.0", ID: &id, Method: method, Params: params}); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return fmt.Errorf("%s request failed: %w", method, err)
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return ctx.Err()
	case msg, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		if msg.Error != nil {
			return fmt.Errorf("%s failed: %w", method, msg.Error)
		}
		if result == nil || len(msg.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(msg.Result, result); err != nil {
			return fmt.Errorf("%s returned unparseable result: %w", method, err)
		}
		return nil
	}
}

// Notify sends a fire-and-forget notification.
func (c *Client) Notify(method string, params any) error {
	return c.write(request{JSONRPC: "2.0", Method: method, Params: params})
}

func (c *Client) write(msg any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteFrame(c.w, msg)
}
