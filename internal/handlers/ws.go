package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/famcare-dev/famcare/internal/utils"
)

// wsClient wraps a connection with a write mutex. gorilla/websocket
// allows only one concurrent writer per connection, and broadcasts run
// on request goroutines while the ping loop writes from its own.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteJSON(v)
}

func (c *wsClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

var (
	familyClients   = make(map[string]map[*wsClient]bool)
	familyClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

func registerClient(familyID string, client *wsClient) {
	familyClientsMu.Lock()
	defer familyClientsMu.Unlock()

	if familyClients[familyID] == nil {
		familyClients[familyID] = make(map[*wsClient]bool)
	}

	familyClients[familyID][client] = true
}

func unregisterClient(familyID string, client *wsClient) {
	familyClientsMu.Lock()
	defer familyClientsMu.Unlock()

	if clients, exists := familyClients[familyID]; exists {
		delete(clients, client)

		if len(clients) == 0 {
			delete(familyClients, familyID)
		}
	}
}

// BroadcastRefresh tells every connected client of a family to reload
// its dashboard data. Write handlers call this after a successful store
// write.
func BroadcastRefresh(familyID string) {
	familyClientsMu.RLock()
	clients := familyClients[familyID]

	clientsCopy := make([]*wsClient, 0, len(clients))

	for client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	familyClientsMu.RUnlock()

	for _, client := range clientsCopy {
		err := client.writeJSON(map[string]string{
			"type":      "refresh",
			"message":   "Family data updated",
			"family_id": familyID,
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			unregisterClient(familyID, client)
			client.conn.Close()
		}
	}
}

type WSHandler struct {
	allowedOrigins []string
}

func NewWSHandler(allowedOrigins []string) *WSHandler {
	return &WSHandler{allowedOrigins: allowedOrigins}
}

func (h *WSHandler) WebSocket(c *gin.Context) {
	user, err := utils.GetCurrentUser(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	familyID := user.FamilyGroupID

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{conn: conn}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	registerClient(familyID, client)

	// Closed when the read loop ends so the ping goroutine exits with
	// the connection instead of parking on a stopped ticker.
	done := make(chan struct{})

	defer func() {
		close(done)
		unregisterClient(familyID, client)
		conn.Close()

		log.Printf("WebSocket connection closed for family %s", familyID)
	}()

	err = client.writeJSON(map[string]string{
		"type":      "connected",
		"message":   "WebSocket connection established",
		"family_id": familyID,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.ping(); err != nil {
					log.Printf("Ping failed for family %s: %v", familyID, err)
					return
				}
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for family %s: %v", familyID, err)
			break
		}

		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for family %s: %v", familyID, err)
			}
			break
		}
	}
}
