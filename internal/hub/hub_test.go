package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/callcentersim/callsim/internal/domain"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	h := NewHub()
	go h.Run()

	conn := h.NewConnection(nil, "s1")
	h.Register(conn)
	waitFor(t, func() bool { return h.HasListeners("s1") })

	h.Broadcast("s1", []byte(`{"type":"call_started"}`))

	select {
	case data := <-conn.Send:
		if string(data) != `{"type":"call_started"}` {
			t.Fatalf("unexpected payload: %s", data)
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestHubBroadcastScopedToSimulation(t *testing.T) {
	h := NewHub()
	go h.Run()

	listener := h.NewConnection(nil, "s1")
	other := h.NewConnection(nil, "s2")
	h.Register(listener)
	h.Register(other)
	waitFor(t, func() bool { return h.ConnectionCount() == 2 })

	h.Broadcast("s1", []byte("ping"))

	select {
	case <-listener.Send:
	case <-time.After(time.Second):
		t.Fatal("listener did not receive broadcast")
	}

	select {
	case data := <-other.Send:
		t.Fatalf("unrelated connection received broadcast: %s", data)
	default:
	}
}

func TestHubUnregister(t *testing.T) {
	h := NewHub()
	go h.Run()

	conn := h.NewConnection(nil, "s1")
	h.Register(conn)
	waitFor(t, func() bool { return h.HasListeners("s1") })

	h.Unregister(conn)
	waitFor(t, func() bool { return !h.HasListeners("s1") })

	if h.ConnectionCount() != 0 {
		t.Fatalf("expected 0 connections, got %d", h.ConnectionCount())
	}
}

func TestBroadcastNeverBlocksPublisher(t *testing.T) {
	// No Run loop draining the queue; once it fills, events must be dropped
	// instead of stalling the caller.
	h := NewHub()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 300; i++ {
			h.Broadcast("s1", []byte("event"))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a full queue")
	}
}

func TestHubPublishMarshalsEvent(t *testing.T) {
	h := NewHub()
	go h.Run()

	conn := h.NewConnection(nil, "s1")
	h.Register(conn)
	waitFor(t, func() bool { return h.HasListeners("s1") })

	h.Publish("s1", domain.CallEvent{
		Type:         domain.EventCallEnded,
		SimulationID: "s1",
		Ts:           123,
	})

	select {
	case data := <-conn.Send:
		var event domain.CallEvent
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if event.Type != domain.EventCallEnded || event.SimulationID != "s1" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}
