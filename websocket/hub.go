package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Client is one authenticated socket. A recruiter may hold several.
type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// Envelope is a push to every socket of one recruiter.
type Envelope struct {
	RecipientID uuid.UUID   `json:"-"`
	Type        string      `json:"type"`
	Payload     interface{} `json:"payload"`
}

const (
	EventMessage           = "message"
	EventResponseCompleted = "response_completed"
)

var (
	clients   = make(map[uuid.UUID]map[*websocket.Conn]struct{})
	clientsMu sync.RWMutex

	Register   = make(chan *Client)
	Unregister = make(chan *Client)
	Broadcast  = make(chan Envelope, 64)
)

// RunHub owns client registration and fan-out. Start it once from main.
func RunHub() {
	for {
		select {
		case client := <-Register:
			clientsMu.Lock()
			if clients[client.UserID] == nil {
				clients[client.UserID] = make(map[*websocket.Conn]struct{})
			}
			clients[client.UserID][client.Conn] = struct{}{}
			clientsMu.Unlock()
			log.Printf("Client registered: %s", client.UserID)
		case client := <-Unregister:
			remove(client.UserID, client.Conn)
			log.Printf("Client unregistered: %s", client.UserID)
		case env := <-Broadcast:
			deliver(env)
		}
	}
}

func remove(userID uuid.UUID, conn *websocket.Conn) {
	clientsMu.Lock()
	defer clientsMu.Unlock()
	conns, ok := clients[userID]
	if !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(clients, userID)
	}
}

func deliver(env Envelope) {
	clientsMu.RLock()
	conns := make([]*websocket.Conn, 0, len(clients[env.RecipientID]))
	for conn := range clients[env.RecipientID] {
		conns = append(conns, conn)
	}
	clientsMu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(env); err != nil {
			log.Printf("Error sending %s to client %s: %v", env.Type, env.RecipientID, err)
			conn.Close()
			remove(env.RecipientID, conn)
		}
	}
}

// Publish queues an event without blocking the caller. Events are dropped
// when the hub is saturated.
func Publish(recipientID uuid.UUID, eventType string, payload interface{}) {
	select {
	case Broadcast <- Envelope{RecipientID: recipientID, Type: eventType, Payload: payload}:
	default:
		log.Printf("⚠️ Dropped %s event for %s: hub queue full", eventType, recipientID)
	}
}

// Connected reports how many sockets a user holds.
func Connected(userID uuid.UUID) int {
	clientsMu.RLock()
	defer clientsMu.RUnlock()
	return len(clients[userID])
}
