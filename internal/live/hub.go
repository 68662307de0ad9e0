// Package live pushes saved drawings to read-only viewers over websockets.
// There is one writer per drawing, the scout who owns it; everyone else
// watches.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

const snapshotTimeout = 5 * time.Second

// Loader returns the saved document of a drawing.
type Loader func(ctx context.Context, drawingID string) ([]byte, error)

type Room struct {
	drawingID string
	clients   map[string]*Client // clientID -> client
}

func NewRoom(drawingID string) *Room {
	return &Room{
		drawingID: drawingID,
		clients:   make(map[string]*Client),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // drawingID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	load       Loader
	logger     *slog.Logger
}

func NewHub(load Loader, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		load:       load,
		logger:     logger,
	}
}

// Run serves registrations until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Register adds a viewer. Once the hub has stopped the viewer is closed
// immediately.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Viewers returns the number of viewers of a drawing.
func (h *Hub) Viewers(drawingID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[drawingID]; ok {
		return len(room.clients)
	}
	return 0
}

// Publish sends a saved document to every viewer of the drawing.
func (h *Hub) Publish(drawingID string, data []byte) {
	h.broadcastToRoom(drawingID, &Message{
		Type:      TypeUpdate,
		DrawingID: drawingID,
		Payload:   data,
	})
}

// Join sends the stored drawing to a new viewer and then registers it. The
// snapshot is loaded on the caller's goroutine so a slow query holds up only
// this viewer.
func (h *Hub) Join(ctx context.Context, client *Client) {
	if h.load != nil {
		loadCtx, cancel := context.WithTimeout(ctx, snapshotTimeout)
		data, err := h.load(loadCtx, client.DrawingID)
		cancel()
		if err != nil {
			h.logger.Warn("load snapshot failed", "drawing", client.DrawingID, "error", err)
			payload, _ := json.Marshal(ErrorPayload{Message: "drawing unavailable"})
			client.Send(&Message{Type: TypeError, DrawingID: client.DrawingID, Payload: payload})
		} else {
			client.Send(&Message{Type: TypeSnapshot, DrawingID: client.DrawingID, Payload: data})
		}
	}
	h.Register(client)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DrawingID]
	if !ok {
		room = NewRoom(client.DrawingID)
		h.rooms[client.DrawingID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	h.broadcastViewers(client.DrawingID)
	h.logger.Info("viewer joined", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DrawingID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.close()

	if len(room.clients) == 0 {
		delete(h.rooms, client.DrawingID)
	}
	h.mu.Unlock()

	h.broadcastViewers(client.DrawingID)
	h.logger.Info("viewer left", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for _, c := range room.clients {
			c.close()
		}
		delete(h.rooms, id)
	}
}

func (h *Hub) broadcastViewers(drawingID string) {
	payload, _ := json.Marshal(ViewersPayload{Count: h.Viewers(drawingID)})
	h.broadcastToRoom(drawingID, &Message{
		Type:      TypeViewers,
		DrawingID: drawingID,
		Payload:   payload,
	})
}

func (h *Hub) broadcastToRoom(drawingID string, msg *Message) {
	h.mu.RLock()
	room, ok := h.rooms[drawingID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
