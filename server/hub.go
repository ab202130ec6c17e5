package server

import (
	"context"
	"fmt"
	stlog "log/slog"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/irishsmurf/go-broadside/queue"
)

// SystemEventKind is a connection lifecycle change.
type SystemEventKind string

const (
	Connected    SystemEventKind = "connected"
	Disconnected SystemEventKind = "disconnected"
)

// SystemEvent tells the simulation a remote client came or went.
type SystemEvent struct {
	Kind     SystemEventKind
	ClientID string
}

// Message type labels for outbound frames.
const (
	msgTypeAck  = "ack"
	msgTypeWind = "wind"
)

// Hub maintains the set of connected remote helms. Commands they send are
// pushed onto the commands queue and connection changes onto the events
// queue; the simulation drains both once per tick.
type Hub struct {
	clients    map[*Client]bool
	clientsMux sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound

	commands *queue.Queue[string]
	events   *queue.Queue[SystemEvent]

	done   chan struct{}
	logger *stlog.Logger
}

type outbound struct {
	data  []byte
	label string
}

// NewHub returns a hub feeding commands and events.
func NewHub(commands *queue.Queue[string], events *queue.Queue[SystemEvent], logger *stlog.Logger) *Hub {
	if logger == nil {
		logger = stlog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 16),
		commands:   commands,
		events:     events,
		done:       make(chan struct{}),
		logger:     logger.With("component", "hub"),
	}
}

// Run processes registrations and broadcasts until ctx is done, then
// drops every connection.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Hub started")
	defer func() {
		close(h.done)
		h.clientsMux.Lock()
		for c := range h.clients {
			delete(h.clients, c)
			c.conn.Close()
		}
		h.clientsMux.Unlock()
		connectedClientsGauge.Set(0)
		h.logger.Info("Hub stopped")
	}()
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case msg := <-h.broadcast:
			h.clientsMux.RLock()
			for c := range h.clients {
				c.queue(msg.data, msg.label)
			}
			h.clientsMux.RUnlock()
		}
	}
}

func (h *Hub) handleRegister(client *Client) {
	// The event goes out first so that anyone who sees the client counted
	// also finds its event queued.
	h.events.Push(SystemEvent{Kind: Connected, ClientID: client.id})

	h.clientsMux.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.clientsMux.Unlock()

	connectedClientsGauge.Set(float64(n))
	client.logger.Info("Client registered", "clients", n)
}

func (h *Hub) handleUnregister(client *Client) {
	h.clientsMux.Lock()
	_, ok := h.clients[client]
	if ok {
		h.events.Push(SystemEvent{Kind: Disconnected, ClientID: client.id})
		delete(h.clients, client)
		close(client.send) // stops writePump
	}
	n := len(h.clients)
	h.clientsMux.Unlock()

	if !ok {
		return
	}
	connectedClientsGauge.Set(float64(n))
	client.logger.Info("Client unregistered", "clients", n)
}

// ClientCount is the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

// Broadcast sends fields as a JSON text frame to every client. It never
// blocks; if the hub is backed up the message is dropped.
func (h *Hub) Broadcast(label string, fields map[string]any) error {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("building %s message: %w", label, err)
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding %s message: %w", label, err)
	}
	select {
	case h.broadcast <- outbound{data: data, label: label}:
	default:
		droppedMessagesCounter.Inc()
		h.logger.Warn("Broadcast queue full, dropping message", "type", label)
	}
	return nil
}

// BroadcastWind tells every client the direction the wind blows towards,
// in radians.
func (h *Hub) BroadcastWind(angle float64) error {
	return h.Broadcast(msgTypeWind, map[string]any{
		"type":  msgTypeWind,
		"angle": angle,
	})
}
