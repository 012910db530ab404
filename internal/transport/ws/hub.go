package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Admin monitor message types
const (
	MsgScreeningStarted   MessageType = "screening_started"
	MsgScreeningProgress  MessageType = "screening_progress"
	MsgScreeningSubmitted MessageType = "screening_submitted"
)

// Consumer message types
const (
	MsgFastPathState    MessageType = "fastpath_state"
	MsgFastPathValue    MessageType = "fastpath_value"
	MsgFastPathMessage  MessageType = "fastpath_message"
	MsgEvaluationResult MessageType = "evaluation_result"
	MsgError            MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for program monitors and screening
// sessions
type Hub struct {
	// programID -> adminID -> conn; several admins may watch one program
	adminConns map[string]map[string]*Connection
	// sessionID -> conn; one consumer per screening session
	consumerConns map[string]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	ProgramID string
	SessionID string // Empty for admin connections
	AdminID   string // Empty for consumer connections
	IsAdmin   bool
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	ProgramID string // Set for admin-monitor fanout
	SessionID string // Set for a single consumer
	ToAdmins  bool
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		adminConns:    make(map[string]map[string]*Connection),
		consumerConns: make(map[string]*Connection),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		broadcast:     make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsAdmin {
				if h.adminConns[conn.ProgramID] == nil {
					h.adminConns[conn.ProgramID] = make(map[string]*Connection)
				}
				h.adminConns[conn.ProgramID][conn.AdminID] = conn
				log.Printf("Admin %s monitoring program %s", conn.AdminID, conn.ProgramID)
			} else {
				h.consumerConns[conn.SessionID] = conn
				log.Printf("Consumer connected to screening %s", conn.SessionID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsAdmin {
				if admins, ok := h.adminConns[conn.ProgramID]; ok {
					if existing, ok := admins[conn.AdminID]; ok && existing == conn {
						delete(admins, conn.AdminID)
						close(conn.Send)
						log.Printf("Admin %s left program %s", conn.AdminID, conn.ProgramID)
					}
				}
			} else {
				if existing, ok := h.consumerConns[conn.SessionID]; ok && existing == conn {
					delete(h.consumerConns, conn.SessionID)
					close(conn.Send)
					log.Printf("Consumer disconnected from screening %s", conn.SessionID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ToAdmins {
				for _, conn := range h.adminConns[msg.ProgramID] {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else {
				if conn, ok := h.consumerConns[msg.SessionID]; ok {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToAdmin sends a message to every admin monitoring a program
// (implements service.Broadcaster)
func (h *Hub) BroadcastToAdmin(programID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ProgramID: programID,
		ToAdmins:  true,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToConsumer sends a message to the consumer of one screening
// session (implements service.Broadcaster)
func (h *Hub) BroadcastToConsumer(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
