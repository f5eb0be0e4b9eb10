package sse

import (
	"encoding/json"
	"testing"
)

func TestHub_PublishChange(t *testing.T) {
	h := NewHub(nil)
	c := &Client{ID: "c1", UserID: "U001", Events: make(chan Event, 1)}
	h.Register(c)

	h.PublishChange(RecordChange{Entity: "purchase_ticket", IDs: []string{"PT-001"}, Action: "create"})

	ev := <-c.Events
	if ev.EventType != "record_change" {
		t.Fatalf("unexpected event type %q", ev.EventType)
	}
	var got RecordChange
	if err := json.Unmarshal([]byte(ev.Data), &got); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if got.Entity != "purchase_ticket" || len(got.IDs) != 1 || got.IDs[0] != "PT-001" {
		t.Fatalf("unexpected payload %+v", got)
	}

	// 缓冲区已满时丢弃而不阻塞
	h.PublishChange(RecordChange{Entity: "x"})
	h.PublishChange(RecordChange{Entity: "y"})

	h.Unregister("c1")
	if h.ClientCount() != 0 {
		t.Fatalf("expected no clients, got %d", h.ClientCount())
	}
}

func TestHub_NilIsNoop(t *testing.T) {
	var h *Hub
	h.PublishChange(RecordChange{Entity: "supplier"})
}
