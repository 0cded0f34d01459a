package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"flashscroll-backend/internal/models"
)

// UpdatesChannel carries session signals (advance, restart, generation
// status, deck updates) from the backend to connected renderers.
const UpdatesChannel = "flashscroll:updates"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub relays the pub/sub updates channel to every connected renderer.
// Single-tenant app: there is one channel and no per-connection auth.
type Hub struct {
	mu          sync.RWMutex
	connections []*websocket.Conn
	redisClient *redis.Client
	cancel      context.CancelFunc
}

func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{redisClient: redisClient}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.registerConnection(conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(conn)
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections = append(h.connections, conn)

	// Start the pub/sub subscription with the first connection
	if len(h.connections) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		go h.subscribeToPubSub(ctx)
	}

	log.Printf("WebSocket connected (total: %d)", len(h.connections))
}

func (h *Hub) unregisterConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	for i, c := range h.connections {
		if c == conn {
			h.connections = append(h.connections[:i], h.connections[i+1:]...)
			break
		}
	}

	// If no more connections, cancel pub/sub
	if len(h.connections) == 0 && h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}

	log.Printf("WebSocket disconnected (total: %d)", len(h.connections))
}

func (h *Hub) subscribeToPubSub(ctx context.Context) {
	pubsub := h.redisClient.Subscribe(ctx, UpdatesChannel)
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
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}

// Publisher pushes WSMessages onto the updates channel. The session
// controller and worker pool publish through it; the hub relays.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	p.client.Publish(ctx, UpdatesChannel, data)
}
