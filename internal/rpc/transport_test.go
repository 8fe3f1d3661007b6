package rpc

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteThenReadFrame(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFrame(&buf, map[string]string{"method": "hierarchy/call"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(buf.String(), "Content-Length: "))

	body, err := ReadFrame(bufio.NewReader(&buf))
	require.NoError(t, err)
	require.JSONEq(t, `{"method":"hierarchy/call"}`, string(body))
}

func TestReadFrameIgnoresUnknownHeaders(t *testing.T) {
	raw := "X-Custom: yes\r\nContent-Length: 2\r\n\r\n{}"
	body, err := ReadFrame(bufio.NewReader(strings.NewReader(raw)))
	require.NoError(t, err)
	require.Equal(t, "{}", string(body))
}

func TestReadFrameMissingLength(t *testing.T) {
	raw := "X-Custom: yes\r\n\r\n{}"
	_, err := ReadFrame(bufio.NewReader(strings.NewReader(raw)))
	require.ErrorContains(t, err, "Content-Length")
}

func TestReadFrameInvalidLength(t *testing.T) {
	raw := "Content-Length: nope\r\n\r\n{}"
	_, err := ReadFrame(bufio.NewReader(strings.NewReader(raw)))
	require.ErrorContains(t, err, "invalid Content-Length")
}

func TestReadFrameTruncatedBody(t *testing.T) {
	raw := "Content-Length: 10\r\n\r\n{}"
	_, err := ReadFrame(bufio.NewReader(strings.NewReader(raw)))
	require.Error(t, err)
}
