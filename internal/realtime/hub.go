package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"number-cruncher/internal/facts"

	"github.com/golang/glog"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// outboxSize bounds how many crunch events may wait for Run.
const outboxSize = 64

// Hub maintains active subscriber connections and broadcasts crunch events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]string // client -> subscriber (token user ID)
	outbox  chan []byte
}

// NewHub returns an empty hub. Events passed to Observe are only delivered
// while Run is running.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[Client]string),
		outbox:  make(chan []byte, outboxSize),
	}
}

// Run broadcasts queued events until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.outbox:
			h.Broadcast(msg)
		}
	}
}

// Register adds a client on behalf of a subscriber.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = userID
}

// Unregister removes a client.
func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client and returns how many accepted it.
func (h *Hub) Broadcast(message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for c, userID := range h.clients {
		if ok := c.Send(message); !ok {
			// client write failed; let the handler clean it up on its side
			if glog.V(2) {
				glog.Infof("ws send to %s failed", userID)
			}
			continue
		}
		sent++
	}
	return sent
}

// CrunchEvent is the payload pushed after every crunch cycle.
type CrunchEvent struct {
	Type      string        `json:"type"`
	Verdict   facts.Verdict `json:"verdict,omitempty"`
	Number    int           `json:"number"`
	Message   string        `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	TummySize int           `json:"tummySize"`
	Capacity  int           `json:"capacity"`
	Version   int           `json:"version"`
}

// Observe is a facts.Observer that queues each cycle for Run to broadcast.
// It never blocks; when the queue is full the event is dropped.
func (h *Hub) Observe(evt facts.Event) {
	payload := CrunchEvent{
		Type:      "crunch",
		Verdict:   evt.Status.Verdict,
		Number:    evt.Status.Number,
		TummySize: evt.TummySize,
		Capacity:  evt.Capacity,
		Version:   1,
	}
	if evt.Err != nil {
		payload.Type = "crunch_failed"
		payload.Error = evt.Err.Error()
	} else {
		payload.Message = evt.Status.Exclaim()
	}
	bytes, err := json.Marshal(payload)
	if err != nil {
		glog.Errorf("marshal crunch event: %v", err)
		return
	}
	select {
	case h.outbox <- bytes:
	default:
		glog.Warningf("ws outbox full, dropping %s event", payload.Type)
	}
}
