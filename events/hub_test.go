package events

import (
	"context"
	"testing"
	"time"

	"github.com/ViniZap4/gestor360/domain"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := NewHub()
	go h.Run(ctx)
	return h
}

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()

	select {
	case ev, ok := <-sub.C:
		if !ok {
			t.Fatal("subscription closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHub_Broadcast(t *testing.T) {
	h := startHub(t)
	a := h.Subscribe()
	b := h.Subscribe()

	doc := &domain.Document{ID: 7, Title: "Plan"}
	h.Publish(DocumentCreated, doc, "")

	for _, sub := range []*Subscription{a, b} {
		ev := receive(t, sub)
		if ev.Type != DocumentCreated || ev.Document == nil || ev.Document.ID != 7 {
			t.Errorf("event = %+v", ev)
		}
		if ev.ID == "" {
			t.Error("event id empty")
		}
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	h := startHub(t)
	sub := h.Subscribe()
	h.Unsubscribe(sub)

	if _, ok := <-sub.C; ok {
		t.Error("channel still open after Unsubscribe")
	}
	if n := h.Clients(); n != 0 {
		t.Errorf("Clients() = %d, want 0", n)
	}
}

func TestHub_DistinctIDs(t *testing.T) {
	h := startHub(t)
	sub := h.Subscribe()

	h.Publish(FileChanged, nil, "/tmp/a.md")
	h.Publish(FileChanged, nil, "/tmp/a.md")

	first, second := receive(t, sub), receive(t, sub)
	if first.ID == second.ID {
		t.Errorf("ids not unique: %s", first.ID)
	}
	if first.Path != "/tmp/a.md" {
		t.Errorf("Path = %q", first.Path)
	}
}

func TestHub_Stopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	sub := h.Subscribe()
	cancel()
	<-stopped

	if _, ok := <-sub.C; ok {
		t.Error("subscription open after hub stopped")
	}
	h.Unsubscribe(sub)

	late := h.Subscribe()
	if _, ok := <-late.C; ok {
		t.Error("late subscription not closed")
	}
}
