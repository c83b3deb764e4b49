package base

import (
	"bytes"
	"encoding/binary"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/ValentinKolb/dList/rpc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net"
	"sync"
	"testing"
	"time"
)

// testConnector is a plain TCP connector for both sides of the transport
type testConnector struct{}

func (testConnector) GetName() string { return "test" }

func (testConnector) Listen(config common.ServerConfig) (net.Listener, error) {
	return net.Listen("tcp", config.Endpoint)
}

func (testConnector) Connect(endpoint string, deadline time.Time) (net.Conn, error) {
	dialer := net.Dialer{Deadline: deadline}
	return dialer.Dial("tcp", endpoint)
}

// startServer starts a server transport with the given handler on a random port
func startServer(t *testing.T, timeoutSecond int64, handler transport.ServerHandleFunc) transport.IRPCServerTransport {
	t.Helper()

	srv := NewBaseServerTransport(testConnector{})
	srv.RegisterHandler(handler)

	done := make(chan error, 1)
	go func() {
		done <- srv.Listen(common.ServerConfig{Endpoint: "127.0.0.1:0", TimeoutSecond: timeoutSecond})
	}()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, 2*time.Second, 5*time.Millisecond)

	t.Cleanup(func() {
		require.NoError(t, srv.Close())
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return srv
}

// newClient creates a connected client transport
func newClient(t *testing.T, endpoint string, retries, timeoutSecond int) transport.IRPCClientTransport {
	t.Helper()
	c := NewBaseClientTransport(testConnector{})
	require.NoError(t, c.Connect(common.ClientConfig{
		Endpoint:       endpoint,
		TimeoutSecond:  timeoutSecond,
		RetryCount:     retries,
		RetryBackoffMs: 10,
	}))
	return c
}

// unusedEndpoint returns an address nobody listens on
func unusedEndpoint(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func echo(req []byte) []byte {
	return append([]byte("echo:"), req...)
}

// --------------------------------------------------------------------------
// Framing
// --------------------------------------------------------------------------

func TestFrameRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		[]byte("hello"),
		bytes.Repeat([]byte{0xab}, 1025),
		bytes.Repeat([]byte("x"), 1<<20),
	}

	for _, payload := range payloads {
		client, server := net.Pipe()

		go func() {
			defer client.Close()
			assert.NoError(t, writeFrame(client, payload))
		}()

		got, err := readFrame(server, 0)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
		server.Close()
	}
}

func TestReadFrameErrors(t *testing.T) {
	header := func(n uint32) []byte {
		h := make([]byte, 4)
		binary.BigEndian.PutUint32(h, n)
		return h
	}

	testCases := []struct {
		name      string
		data      []byte
		maxSize   uint32
		malformed bool
		eof       bool
	}{
		{name: "Closed before header", data: nil, eof: true},
		{name: "Truncated header", data: []byte{0, 0}, malformed: true},
		{name: "Truncated payload", data: append(header(10), 'a', 'b', 'c'), malformed: true},
		{name: "Missing payload", data: header(10), malformed: true},
		{name: "Frame too large", data: header(1000), maxSize: 100, malformed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, server := net.Pipe()
			defer server.Close()

			go func() {
				if len(tc.data) > 0 {
					_, _ = client.Write(tc.data)
				}
				client.Close()
			}()

			_, err := readFrame(server, tc.maxSize)
			require.Error(t, err)
			if tc.eof {
				assert.Equal(t, io.EOF, err)
			}
			if tc.malformed {
				assert.ErrorIs(t, err, common.ErrMalformedMessage)
			}
		})
	}
}

// --------------------------------------------------------------------------
// Server and Client
// --------------------------------------------------------------------------

func TestSendReceive(t *testing.T) {
	srv := startServer(t, 5, echo)
	c := newClient(t, srv.Addr().String(), 3, 5)

	resp, err := c.Send([]byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, "echo:ping", string(resp))

	// far above a single 1024 byte read
	large := bytes.Repeat([]byte("0123456789"), 100*1024)
	resp, err = c.Send(large)
	require.NoError(t, err)
	assert.Equal(t, echo(large), resp)
}

func TestConcurrentConnections(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := startServer(t, 5, func(req []byte) []byte {
		mu.Lock()
		calls++
		mu.Unlock()
		return req
	})
	c := newClient(t, srv.Addr().String(), 3, 5)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := []byte{byte(i)}
			resp, err := c.Send(req)
			if assert.NoError(t, err) {
				assert.Equal(t, req, resp)
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, workers, calls)
}

func TestSlowClientDoesNotBlockOthers(t *testing.T) {
	srv := startServer(t, 5, echo)

	// a client that connects and never sends anything
	stalled, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer stalled.Close()

	c := newClient(t, srv.Addr().String(), 1, 2)
	resp, err := c.Send([]byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, "echo:ping", string(resp))
}

func TestServerClosesSilentConnection(t *testing.T) {
	srv := startServer(t, 1, echo)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	// the server gives up after its read timeout and closes without a response
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = conn.Read(make([]byte, 1))
	assert.Equal(t, io.EOF, err)
}

func TestServerSurvivesMalformedRequest(t *testing.T) {
	srv := startServer(t, 5, echo)

	// announce a frame far above the default limit
	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	_, err = conn.Write([]byte{0xff, 0xff, 0xff, 0xff})
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = conn.Read(make([]byte, 1))
	assert.Equal(t, io.EOF, err)
	conn.Close()

	// the server is still serving
	c := newClient(t, srv.Addr().String(), 1, 5)
	resp, err := c.Send([]byte("still there?"))
	require.NoError(t, err)
	assert.Equal(t, "echo:still there?", string(resp))
}

func TestNilResponseClosesConnection(t *testing.T) {
	srv := startServer(t, 5, func([]byte) []byte { return nil })
	c := newClient(t, srv.Addr().String(), 1, 5)

	_, err := c.Send([]byte("ping"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCallFailed)
	assert.ErrorIs(t, err, common.ErrConnectFailed)
}

func TestHandlerPanicDoesNotStopServer(t *testing.T) {
	srv := startServer(t, 5, func(req []byte) []byte {
		if string(req) == "panic" {
			panic("boom")
		}
		return req
	})
	c := newClient(t, srv.Addr().String(), 1, 5)

	_, err := c.Send([]byte("panic"))
	assert.Error(t, err)

	resp, err := c.Send([]byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp))
}

func TestRetryExhaustionUnreachable(t *testing.T) {
	c := newClient(t, unusedEndpoint(t), 2, 1)

	start := time.Now()
	resp, err := c.Send([]byte("ping"))
	elapsed := time.Since(start)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCallFailed)
	assert.ErrorIs(t, err, common.ErrConnectFailed)
	assert.Less(t, elapsed, 2*time.Second+time.Second)
}

func TestRetryExhaustionTimeout(t *testing.T) {
	// accepts connections but never answers
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	var accepted []net.Conn
	var mu sync.Mutex
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			accepted = append(accepted, conn)
			mu.Unlock()
		}
	}()
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range accepted {
			conn.Close()
		}
	}()

	c := newClient(t, l.Addr().String(), 2, 1)

	start := time.Now()
	_, err = c.Send([]byte("ping"))
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCallFailed)
	assert.ErrorIs(t, err, common.ErrTimeout)
	assert.GreaterOrEqual(t, elapsed, 2*time.Second)
	assert.Less(t, elapsed, 4*time.Second)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(accepted) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestMalformedResponseIsNotRetried(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	var mu sync.Mutex
	connections := 0
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			connections++
			mu.Unlock()
			// consume the request ("ping" plus its header) before answering
			_, _ = io.ReadFull(conn, make([]byte, 8))
			// header claims 100 bytes, only 3 follow
			_, _ = conn.Write([]byte{0, 0, 0, 100, 'a', 'b', 'c'})
			conn.Close()
		}
	}()

	c := newClient(t, l.Addr().String(), 3, 5)
	_, err = c.Send([]byte("ping"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMalformedMessage)
	assert.NotErrorIs(t, err, common.ErrCallFailed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, connections)
}

func TestSendWithoutConnect(t *testing.T) {
	c := NewBaseClientTransport(testConnector{})
	_, err := c.Send([]byte("ping"))
	assert.Error(t, err)
}
