package publish

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Clients() == n }, 2*time.Second, 10*time.Millisecond)
}

func readSnapshot(t *testing.T, conn *websocket.Conn) Snapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var s Snapshot
	require.NoError(t, json.Unmarshal(data, &s))
	return s
}

func TestHubBroadcast(t *testing.T) {
	t.Parallel()

	h := NewHub(nil)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	waitClients(t, h, 2)

	require.NoError(t, h.Publish(context.Background(), sampleSnapshot()))

	for _, c := range []*websocket.Conn{a, b} {
		s := readSnapshot(t, c)
		assert.Equal(t, "XAU_USD", s.Instrument)
		require.NotNil(t, s.Position)
		assert.Equal(t, 4.0, s.Position.Units)
	}
}

func TestHubSendsLastToNewClient(t *testing.T) {
	t.Parallel()

	h := NewHub(nil)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	snap := sampleSnapshot()
	snap.Balance = 12345
	require.NoError(t, h.Publish(context.Background(), snap))

	c := dial(t, srv)
	assert.Equal(t, 12345.0, readSnapshot(t, c).Balance)
}

func TestHubDropsDisconnectedClient(t *testing.T) {
	t.Parallel()

	h := NewHub(nil)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	c := dial(t, srv)
	waitClients(t, h, 1)
	require.NoError(t, c.Close())
	waitClients(t, h, 0)

	// publishing with no clients is fine
	assert.NoError(t, h.Publish(context.Background(), sampleSnapshot()))
}

func TestHubSlowClientDoesNotBlock(t *testing.T) {
	t.Parallel()

	h := NewHub(nil)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	_ = dial(t, srv) // never reads
	waitClients(t, h, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			_ = h.Publish(context.Background(), sampleSnapshot())
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked on a slow client")
	}
}

func TestHubClose(t *testing.T) {
	t.Parallel()

	h := NewHub(nil)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	c := dial(t, srv)
	waitClients(t, h, 1)
	require.NoError(t, h.Close())
	assert.Equal(t, 0, h.Clients())

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := c.ReadMessage()
	assert.Error(t, err)
}
