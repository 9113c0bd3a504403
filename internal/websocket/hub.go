package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"smartbrief-backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
	channelPrefix  = "chat_updates:"

	rateLimitedMessage = "Too many requests. Please try again later."
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Asker answers one follow-up question for a chat session.
type Asker interface {
	Ask(ctx context.Context, req models.FollowUpRequest) (*models.FollowUpResponse, error)
}

// Limiter decides whether the client behind r may issue one more question.
type Limiter interface {
	Allow(r *http.Request) bool
}

// Event is the frame pushed to connected clients.
type Event struct {
	Type      string                   `json:"type"` // "message" | "response" | "error"
	SessionID string                   `json:"sessionId"`
	Message   *models.ChatMessage      `json:"message,omitempty"`
	Response  *models.FollowUpResponse `json:"response,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans chat messages out to every socket watching a session. With Redis
// the fan-out goes through pub/sub so that all instances see every message.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*client
	redisClient *redis.Client
	limiter     Limiter
	cancelFuncs map[string]context.CancelFunc
	log         *slog.Logger
}

// NewHub creates a hub. A nil limiter leaves socket questions unmetered.
func NewHub(redisClient *redis.Client, limiter Limiter, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		connections: make(map[string][]*client),
		redisClient: redisClient,
		limiter:     limiter,
		cancelFuncs: make(map[string]context.CancelFunc),
		log:         log,
	}
}

// Handler upgrades the request and serves follow-up questions for the session
// named by the "session" query parameter. A new session id is issued when it
// is missing.
func (h *Hub) Handler(asker Asker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("websocket upgrade failed", "error", err)
			return
		}
		conn.SetReadLimit(maxMessageSize)

		c := &client{conn: conn}
		h.registerConnection(sessionID, c)
		defer h.unregisterConnection(sessionID, c)

		for {
			var req models.FollowUpRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Debug("websocket read failed", "session_id", sessionID, "error", err)
				}
				return
			}
			req.SessionID = sessionID

			// Every question is a completion call and shares the HTTP AI budget.
			if h.limiter != nil && !h.limiter.Allow(r) {
				if err := h.sendJSON(c, Event{Type: "error", SessionID: sessionID, Error: rateLimitedMessage}); err != nil {
					return
				}
				continue
			}

			resp, err := asker.Ask(r.Context(), req)
			ev := Event{Type: "response", SessionID: sessionID, Response: resp}
			if err != nil {
				ev = Event{Type: "error", SessionID: sessionID, Error: err.Error()}
			}
			if err := h.sendJSON(c, ev); err != nil {
				return
			}
		}
	}
}

// Publish delivers msg to every socket of sessionID.
func (h *Hub) Publish(ctx context.Context, sessionID string, msg models.ChatMessage) {
	data, err := json.Marshal(Event{Type: "message", SessionID: sessionID, Message: &msg})
	if err != nil {
		return
	}

	if h.redisClient != nil {
		if err := h.redisClient.Publish(ctx, channelPrefix+sessionID, data).Err(); err != nil {
			h.log.Warn("chat publish failed", "session_id", sessionID, "error", err)
		}
		return
	}
	h.broadcast(sessionID, data)
}

// Connections returns the number of sockets attached to sessionID.
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[sessionID])
}

func (h *Hub) sendJSON(c *client, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.send(data)
}

func (h *Hub) registerConnection(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID] = append(h.connections[sessionID], c)

	// First socket of the session starts its subscription
	if len(h.connections[sessionID]) == 1 && h.redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[sessionID] = cancel
		go h.subscribeToPubSub(ctx, sessionID)
	}

	h.log.Debug("websocket connected", "session_id", sessionID, "total", len(h.connections[sessionID]))
}

func (h *Hub) unregisterConnection(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()

	conns := h.connections[sessionID]
	for i, existing := range conns {
		if existing == c {
			h.connections[sessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
		if cancel, ok := h.cancelFuncs[sessionID]; ok {
			cancel()
			delete(h.cancelFuncs, sessionID)
		}
	}

	h.log.Debug("websocket disconnected", "session_id", sessionID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, sessionID string) {
	pubsub := h.redisClient.Subscribe(ctx, channelPrefix+sessionID)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(sessionID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(sessionID string, data []byte) {
	h.mu.RLock()
	clients := append([]*client(nil), h.connections[sessionID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(data); err != nil {
			h.log.Debug("websocket write failed", "session_id", sessionID, "error", err)
		}
	}
}
