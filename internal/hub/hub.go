// Package hub provides connection management for live call-event listeners.
package hub

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrBufferFull is returned when a connection's send buffer is full.
var ErrBufferFull = errors.New("connection buffer full")

// Connection represents a single WebSocket connection.
type Connection struct {
	ID           string
	SimulationID string
	Conn         *websocket.Conn
	Send         chan []byte
	mu           sync.Mutex
}

// WriteMessage writes a message to the connection with proper locking.
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// SetWriteDeadline sets the write deadline for the connection.
func (c *Connection) SetWriteDeadline(t time.Time) error {
	return c.Conn.SetWriteDeadline(t)
}

// SetReadDeadline sets the read deadline for the connection.
func (c *Connection) SetReadDeadline(t time.Time) error {
	return c.Conn.SetReadDeadline(t)
}

// Close closes the underlying WebSocket connection.
func (c *Connection) Close() error {
	return c.Conn.Close()
}

// simulationMessage is used to broadcast a payload to one simulation's listeners.
type simulationMessage struct {
	SimulationID string
	Data         []byte
}

// Hub manages all WebSocket connections, indexed by simulation id.
type Hub struct {
	connections map[string]*Connection
	simulations map[string]map[string]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *simulationMessage

	mu sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		simulations: make(map[string]map[string]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *simulationMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn.ID] = conn
			if conn.SimulationID != "" {
				if h.simulations[conn.SimulationID] == nil {
					h.simulations[conn.SimulationID] = make(map[string]bool)
				}
				h.simulations[conn.SimulationID][conn.ID] = true
			}
			h.mu.Unlock()
			log.Printf("Connection registered: %s (simulation: %s)", conn.ID, conn.SimulationID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn.ID]; ok {
				delete(h.connections, conn.ID)
				if conn.SimulationID != "" && h.simulations[conn.SimulationID] != nil {
					delete(h.simulations[conn.SimulationID], conn.ID)
					if len(h.simulations[conn.SimulationID]) == 0 {
						delete(h.simulations, conn.SimulationID)
					}
				}
				close(conn.Send)
			}
			h.mu.Unlock()
			log.Printf("Connection unregistered: %s", conn.ID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			if connIDs, ok := h.simulations[msg.SimulationID]; ok {
				for connID := range connIDs {
					if conn, exists := h.connections[connID]; exists {
						select {
						case conn.Send <- msg.Data:
						default:
							// Buffer full, close the connection
							log.Printf("Connection %s buffer full, closing", connID)
							go h.Unregister(conn)
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NewConnection creates a new connection bound to a simulation.
func (h *Hub) NewConnection(ws *websocket.Conn, simulationID string) *Connection {
	return &Connection{
		ID:           uuid.New().String(),
		SimulationID: simulationID,
		Conn:         ws,
		Send:         make(chan []byte, 256),
	}
}

// Register registers a connection with the hub.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister unregisters a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Broadcast sends a payload to all listeners of a simulation. The send never
// blocks: events are best-effort and a full queue drops the event rather than
// stalling the publisher.
func (h *Hub) Broadcast(simulationID string, data []byte) {
	msg := &simulationMessage{
		SimulationID: simulationID,
		Data:         data,
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("WARN: broadcast queue full, dropping event for simulation %s", simulationID)
	}
}

// Publish marshals an event and broadcasts it to a simulation's listeners.
// It satisfies the service's event sink contract; marshal failures are logged
// and dropped because live events are best-effort.
func (h *Hub) Publish(simulationID string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("WARN: failed to marshal call event: %v", err)
		return
	}
	h.Broadcast(simulationID, data)
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// HasListeners reports whether a simulation has any active connections.
func (h *Hub) HasListeners(simulationID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	connIDs, ok := h.simulations[simulationID]
	return ok && len(connIDs) > 0
}
