package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/alert"
	"github.com/saturnino-fabrica-de-software/facefind/internal/recognition"
)

// Hub fans detection events out to websocket clients subscribed to a camera
// or to AllCameras.
type Hub struct {
	clients    map[*Client]bool
	topics     map[string]map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *slog.Logger
	mu         sync.RWMutex
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		topics:     make(map[string]map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves register, unregister and broadcast until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	if h.topics[client.topic] == nil {
		h.topics[client.topic] = make(map[*Client]bool)
	}
	h.topics[client.topic][client] = true
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.drop(client)
}

// drop must be called with mu held
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	delete(h.topics[client.topic], client)
	if len(h.topics[client.topic]) == 0 {
		delete(h.topics, client.topic)
	}

	close(client.send)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		h.drop(client)
	}
}

func (h *Hub) deliver(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal ws event", "type", event.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, topic := range []string{event.CameraID, AllCameras} {
		for client := range h.topics[topic] {
			select {
			case client.send <- message:
			default:
				h.logger.Warn("ws client too slow, disconnecting", "topic", topic)
				h.drop(client)
			}
		}
	}
}

// Broadcast queues an event for a camera. A full queue drops the event.
func (h *Hub) Broadcast(cameraID string, eventType EventType, data interface{}) {
	event := Event{
		Type:      eventType,
		CameraID:  cameraID,
		Data:      data,
		Timestamp: time.Now(),
	}
	h.publish(event)
}

func (h *Hub) publish(event Event) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("ws broadcast queue full, dropping event", "type", event.Type)
	}
}

// HandleEvent is a recognition sink
func (h *Hub) HandleEvent(e recognition.Event) {
	event := Event{
		Type:      EventType(e.Type),
		CameraID:  e.CameraID,
		Timestamp: e.Timestamp,
	}
	switch {
	case len(e.Faces) > 0:
		event.Data = map[string]interface{}{"faces": e.Faces}
	case e.Reason != "":
		event.Data = map[string]interface{}{"reason": e.Reason}
	}
	h.publish(event)
}

// Notify forwards triggered alerts to the camera topic
func (h *Hub) Notify(_ context.Context, payload alert.Payload) error {
	h.publish(Event{
		Type:      EventAlert,
		CameraID:  payload.Alert.CameraID,
		Data:      payload,
		Timestamp: payload.Timestamp,
	})
	return nil
}

// Register adds a client unless the hub already stopped
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client; a stopped hub already dropped it
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ConnectedClients returns the number of clients subscribed to a topic
func (h *Hub) ConnectedClients(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.topics[topic])
}
