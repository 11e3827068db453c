package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultHistorySize = 50

// Message is a single chat line in a tree room. Tree is the owner id
// of the family tree the collaborators are discussing.
type Message struct {
	Type string    `json:"type"`
	Tree string    `json:"tree"`
	User string    `json:"user"`
	Text string    `json:"text,omitempty"`
	At   time.Time `json:"at"`
}

type room struct {
	connections map[*websocket.Conn]string
	history     []Message
}

type Hub struct {
	mu          sync.Mutex
	rooms       map[string]*room
	historySize int
}

func NewHub(historySize int) *Hub {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &Hub{
		rooms:       make(map[string]*room),
		historySize: historySize,
	}
}

func (h *Hub) Join(tree string, ws *websocket.Conn, user string) []Message {
	var history []Message
	h.mu.Lock()
	r := h.roomLocked(tree)
	r.connections[ws] = user
	history = append(history, r.history...)
	h.mu.Unlock()

	h.Broadcast(Message{
		Type: "user_join",
		Tree: tree,
		User: user,
		At:   time.Now().UTC(),
	})

	return history
}

func (h *Hub) Leave(tree string, ws *websocket.Conn) {
	var user string
	h.mu.Lock()
	if r, ok := h.rooms[tree]; ok {
		if u, exists := r.connections[ws]; exists {
			user = u
		}
		delete(r.connections, ws)
	}
	h.mu.Unlock()

	_ = ws.Close()

	if user != "" {
		h.Broadcast(Message{
			Type: "user_leave",
			Tree: tree,
			User: user,
			At:   time.Now().UTC(),
		})
	}
}

func (h *Hub) Broadcast(msg Message) {
	if msg.At.IsZero() {
		msg.At = time.Now().UTC()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[msg.Tree]
	if !ok {
		return
	}

	if msg.Type == "message" {
		r.history = append(r.history, msg)
		if len(r.history) > h.historySize {
			r.history = r.history[len(r.history)-h.historySize:]
		}
	}

	for ws := range r.connections {
		if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
			_ = ws.Close()
			delete(r.connections, ws)
		}
	}
}

func (h *Hub) History(tree string) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[tree]; ok {
		return append([]Message(nil), r.history...)
	}
	return nil
}

func (h *Hub) User(tree string, ws *websocket.Conn) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[tree]; ok {
		return r.connections[ws]
	}
	return ""
}

func (h *Hub) roomLocked(tree string) *room {
	r, ok := h.rooms[tree]
	if !ok {
		r = &room{connections: make(map[*websocket.Conn]string)}
		h.rooms[tree] = r
	}
	return r
}
