package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"courtly/internal/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024

	// AllCourts subscribes a connection to every court.
	AllCourts = "*"
)

// connection is one front-desk screen following the slot board.
type connection struct {
	staffID string
	conn    *websocket.Conn
	send    chan []byte
	courts  map[string]bool
}

// Hub pushes booking events to connected dashboards, filtered by court.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]struct{}
	upgrader    websocket.Upgrader
}

func NewHub(allowOrigin func(origin string) bool) *Hub {
	return &Hub{
		connections: make(map[*connection]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin == nil || allowOrigin(origin)
			},
		},
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
}

// Publish implements Publisher. Slow clients drop the event.
func (h *Hub) Publish(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if c.courts[AllCourts] || c.courts[e.CourtID] {
			select {
			case c.send <- data:
			default:
			}
		}
	}
	return nil
}

// Connections reports how many dashboards are attached.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Handle upgrades GET /ws/slots?courtId=... Without courtId the client follows every court.
func (h *Hub) Handle(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.FromGin(c).Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	courts := c.QueryArray("courtId")
	if len(courts) == 0 {
		courts = []string{AllCourts}
	}
	h.serve(ws, c.GetString("user_id"), courts)
}

func (h *Hub) serve(ws *websocket.Conn, staffID string, courts []string) {
	c := &connection{
		staffID: staffID,
		conn:    ws,
		send:    make(chan []byte, 64),
		courts:  make(map[string]bool, len(courts)),
	}
	for _, id := range courts {
		c.courts[id] = true
	}

	h.register(c)
	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd struct {
			Type    string `json:"type"`
			CourtID string `json:"court_id"`
		}
		if err := json.Unmarshal(msg, &cmd); err != nil || cmd.CourtID == "" {
			continue
		}

		switch cmd.Type {
		case "subscribe":
			h.mu.Lock()
			c.courts[cmd.CourtID] = true
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			delete(c.courts, cmd.CourtID)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
