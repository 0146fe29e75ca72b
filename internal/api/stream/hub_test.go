package stream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fortuna/vantage/internal/datalayer"
	"github.com/fortuna/vantage/internal/model"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestHubRegistersAndUnregisters(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.attach(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.drop(c)
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	if _, ok := <-c.send; ok {
		t.Fatal("send channel should be closed on unregister")
	}
}

func TestHubShutdownReleasesPendingSenders(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	runDone := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(runDone)
	}()

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.attach(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	cancel()
	<-runDone

	// Both directions must return immediately once the loop is gone.
	released := make(chan struct{})
	go func() {
		h.drop(c)
		h.attach(&Client{hub: h, send: make(chan []byte, 1)})
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("sender blocked after hub shutdown")
	}

	if _, ok := <-c.send; ok {
		t.Fatal("send channel should be closed on shutdown")
	}
}

func TestHubAttachAfterShutdownClosesSend(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(runDone)
	}()
	cancel()
	<-runDone

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.attach(c)
	select {
	case _, ok := <-c.send:
		if ok {
			t.Fatal("expected closed send channel, got a message")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel left open after refused attach")
	}
}

func TestBroadcastSignalHonorsFilters(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	soccerOnly := &Client{
		hub:    h,
		send:   make(chan []byte, 1),
		sports: map[model.Sport]bool{model.SportSoccer: true},
	}
	h.attach(soccerOnly)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast(datalayer.Signal{
		Sport: model.SportBasketball,
		Edge:  model.ValueEdge{Outcome: model.OutcomeHome, Strength: model.StrengthHigh},
	})
	h.Broadcast(datalayer.Signal{
		Sport: model.SportSoccer,
		Edge:  model.ValueEdge{Outcome: model.OutcomeHome, Strength: model.StrengthHigh},
	})

	select {
	case msg := <-soccerOnly.send:
		var env envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if env.Type != "value_signal" || env.Payload.Sport != model.SportSoccer {
			t.Fatalf("unexpected delivery: %+v", env)
		}
	case <-time.After(time.Second):
		t.Fatal("soccer signal never delivered")
	}
	select {
	case msg := <-soccerOnly.send:
		t.Fatalf("basketball signal leaked past the filter: %s", msg)
	default:
	}
}
