package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"accio-playground-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries frames between instances when Redis is configured.
const ClusterChannel = "playground:session_events"

type clusterMessage struct {
	TargetUserID string          `json:"target_user_id"`
	Frame        json.RawMessage `json:"frame"`
}

type Hub struct {
	// UserID -> live connections (one per tab/device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Optional; when set every frame goes through the cluster channel so each
	// instance delivers to its own clients.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

// Start subscribes to the cluster channel (when Redis is set) and runs the
// registration loop until ctx is done.
func (h *Hub) Start(ctx context.Context) error {
	if h.rdb != nil {
		pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
		if _, err := pubsub.Receive(ctx); err != nil {
			pubsub.Close()
			return err
		}
		go h.relayCluster(ctx, pubsub)
	}

	go h.run(ctx)
	return nil
}

func (h *Hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("HUB", "Client registered", map[string]interface{}{"user_id": client.UserID.String()})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// remove drops the client and closes its send channel. A client that is no longer
// registered is ignored, so unregistering twice is harmless.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.UserID]
	for i, c := range clients {
		if c != client {
			continue
		}
		h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
		close(client.Send)
		if len(h.clients[client.UserID]) == 0 {
			delete(h.clients, client.UserID)
			h.logger.Info("HUB", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID.String()})
		}
		return
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, userID)
	}
}

// Register and Unregister return immediately once the hub has stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ConnectedClients reports how many connections of userID this instance holds.
func (h *Hub) ConnectedClients(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser pushes frame to every connection of userID across the cluster.
func (h *Hub) SendToUser(userID uuid.UUID, frame []byte) {
	if h.rdb == nil {
		h.deliverLocal(userID, frame)
		return
	}

	payload, err := json.Marshal(clusterMessage{
		TargetUserID: userID.String(),
		Frame:        frame,
	})
	if err == nil {
		err = h.rdb.Publish(context.Background(), ClusterChannel, payload).Err()
	}
	if err != nil {
		h.logger.Warn("HUB", "Cluster publish failed, delivering locally", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		h.deliverLocal(userID, frame)
	}
}

func (h *Hub) deliverLocal(userID uuid.UUID, frame []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, client := range h.clients[userID] {
		select {
		case client.Send <- frame:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("HUB", "Client send buffer full, disconnecting", map[string]interface{}{"user_id": userID.String()})
		go h.Unregister(client)
	}
}

func (h *Hub) relayCluster(ctx context.Context, pubsub *redis.PubSub) {
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
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("HUB", "Dropping malformed cluster message", map[string]interface{}{"error": err.Error()})
				continue
			}
			userID, err := uuid.Parse(payload.TargetUserID)
			if err != nil {
				continue
			}
			h.deliverLocal(userID, payload.Frame)
		}
	}
}
