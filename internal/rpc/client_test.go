package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeServer answers requests read from its end of the pipe.
type fakeServer struct {
	t      *testing.T
	in     *bufio.Reader
	out    io.Writer
	answer func(method string, id int, params json.RawMessage) any
}

func (f *fakeServer) run() {
	for {
		body, err := ReadFrame(f.in)
		if err != nil {
			return
		}
		var msg message
		if err := json.Unmarshal(body, &msg); err != nil {
			f.t.Errorf("fake server got unparseable frame: %v", err)
			return
		}
		if msg.ID == nil {
			continue
		}
		reply := f.answer(msg.Method, *msg.ID, msg.Params)
		if reply == nil {
			continue
		}
		if err := WriteFrame(f.out, reply); err != nil {
			return
		}
	}
}

func newPair(t *testing.T, answer func(method string, id int, params json.RawMessage) any, notify NotificationHandler) (*Client, io.Writer, func()) {
	t.Helper()
	clientReader, serverWriter := io.Pipe()
	serverReader, clientWriter := io.Pipe()

	server := &fakeServer{t: t, in: bufio.NewReader(serverReader), out: serverWriter, answer: answer}
	go server.run()

	client := NewClient(clientReader, clientWriter, nil, notify)
	client.Start()

	cleanup := func() {
		_ = clientWriter.Close()
		_ = serverWriter.Close()
	}
	return client, serverWriter, cleanup
}

type resultPayload struct {
	ID      *int   `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result"`
}

func TestCallRoundTrip(t *testing.T) {
	client, _, cleanup := newPair(t, func(method string, id int, params json.RawMessage) any {
		require.Equal(t, "hierarchy/member", method)
		return resultPayload{ID: &id, JSONRPC: "2.0", Result: map[string]any{"name": "width"}}
	}, nil)
	defer cleanup()

	var out struct {
		Name string `json:"name"`
	}
	err := client.Call(context.Background(), "hierarchy/member", map[string]int{"levels": 1}, &out)
	require.NoError(t, err)
	require.Equal(t, "width", out.Name)
}

func TestCallServerError(t *testing.T) {
	client, _, cleanup := newPair(t, func(method string, id int, params json.RawMessage) any {
		return map[string]any{
			"jsonrpc": "2.0",
			"id":      id,
			"error":   map[string]any{"code": -32601, "message": "method not found"},
		}
	}, nil)
	defer cleanup()

	err := client.Call(context.Background(), "hierarchy/dataFlow", nil, nil)
	require.Error(t, err)
	var rpcErr *Error
	require.ErrorAs(t, err, &rpcErr)
	require.Equal(t, -32601, rpcErr.Code)
}

func TestCallContextCancel(t *testing.T) {
	client, _, cleanup := newPair(t, func(method string, id int, params json.RawMessage) any {
		return nil // never answer
	}, nil)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := client.Call(ctx, "hierarchy/inheritance", nil, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNotificationDispatch(t *testing.T) {
	var mu sync.Mutex
	var got []string
	client, serverOut, cleanup := newPair(t, func(method string, id int, params json.RawMessage) any {
		return resultPayload{ID: &id, JSONRPC: "2.0", Result: nil}
	}, func(method string, params json.RawMessage) {
		mu.Lock()
		got = append(got, method)
		mu.Unlock()
	})
	defer cleanup()

	err := WriteFrame(serverOut, map[string]any{
		"jsonrpc": "2.0",
		"method":  "status/progress",
		"params":  map[string]int{"jobs": 3},
	})
	require.NoError(t, err)

	// A round trip after the notification guarantees the read loop saw it.
	require.NoError(t, client.Call(context.Background(), "ping", nil, nil))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"status/progress"}, got)
}

func TestCallAfterClose(t *testing.T) {
	client, _, cleanup := newPair(t, func(method string, id int, params json.RawMessage) any {
		return nil
	}, nil)
	cleanup()
	<-client.Done()

	err := client.Call(context.Background(), "hierarchy/call", nil, nil)
	require.ErrorIs(t, err, ErrClosed)
}
