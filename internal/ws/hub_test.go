package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func testClient(hub *Hub) *Client {
	return newClient(hub, nil, nil, hub.logger)
}

func TestHub_BroadcastReachesEverySession(t *testing.T) {
	hub := NewHub(nil)
	a := testClient(hub)
	b := testClient(hub)
	hub.Register(a)
	hub.Register(b)
	require.Equal(t, 2, hub.Count())

	hub.Broadcast("init-data", []string{"x"})

	for _, c := range []*Client{a, b} {
		frame := <-c.send
		var env Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		require.Equal(t, "init-data", env.Event)
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(nil)
	a := testClient(hub)
	hub.Register(a)
	hub.Unregister(a)
	require.Equal(t, 0, hub.Count())

	// The queue is closed; a second unregister is a no-op.
	_, open := <-a.send
	require.False(t, open)
	hub.Unregister(a)

	hub.Broadcast("init-data", nil)
}

func TestHub_SlowSessionIsDropped(t *testing.T) {
	hub := NewHub(nil)
	slow := testClient(hub)
	fast := testClient(hub)
	hub.Register(slow)
	hub.Register(fast)

	// Fill the slow session's queue; the next broadcast must not block
	// and must evict it.
	for i := 0; i < sendBuffer; i++ {
		slow.send <- []byte("{}")
	}
	hub.Broadcast("init-data", nil)

	require.Equal(t, 1, hub.Count())
	frame := <-fast.send
	var env Envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	require.Equal(t, "init-data", env.Event)
}

func TestClient_SendDropsWhenQueueFull(t *testing.T) {
	hub := NewHub(nil)
	c := testClient(hub)
	for i := 0; i < sendBuffer; i++ {
		c.send <- []byte("{}")
	}

	// Must not block.
	c.Send("logs-data", nil)
}

func TestClient_SendAfterUnregisterIsDropped(t *testing.T) {
	hub := NewHub(nil)
	c := testClient(hub)
	hub.Register(c)
	hub.Unregister(c)

	// A handler goroutine can still be replying after the session
	// disconnected; the frame must be dropped, not panic the process.
	c.Send("logs-data", nil)

	_, open := <-c.send
	require.False(t, open)
}

func TestClient_ConcurrentSendAndUnregister(t *testing.T) {
	hub := NewHub(nil)
	c := testClient(hub)
	hub.Register(c)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.Send("new-log", nil)
		}
	}()

	hub.Unregister(c)
	wg.Wait()
}
