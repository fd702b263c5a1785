package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub хранит активные соединения и рассылает им сообщения.
type Hub struct {
	userClients map[uint64]map[*Client]struct{}
	Register    chan *Client
	unregister  chan *Client
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		userClients: make(map[uint64]map[*Client]struct{}),
		Register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger,
	}
}

// Run обслуживает регистрацию до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.Register:
			h.mu.Lock()
			if h.userClients[client.UserID] == nil {
				h.userClients[client.UserID] = make(map[*Client]struct{})
			}
			h.userClients[client.UserID][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("Клиент зарегистрирован", zap.Uint64("userID", client.UserID))
		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.userClients[client.UserID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.logger.Debug("Клиент отсоединен", zap.Uint64("userID", client.UserID))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, clients := range h.userClients {
		for c := range clients {
			close(c.Send)
		}
		delete(h.userClients, userID)
	}
}

// ConnectedUsers возвращает ID пользователей с активными соединениями.
func (h *Hub) ConnectedUsers() []uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]uint64, 0, len(h.userClients))
	for id := range h.userClients {
		ids = append(ids, id)
	}
	return ids
}

// SendMessageToUser отправляет сообщение всем соединениям пользователя.
func (h *Hub) SendMessageToUser(userID uint64, payload interface{}, messageType string) error {
	message, err := encode(payload, messageType)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.userClients[userID] {
		h.deliver(client, message)
	}
	return nil
}

// Broadcast отправляет сообщение пользователям, для которых allow возвращает true.
// allow == nil означает всех подключённых.
func (h *Hub) Broadcast(payload interface{}, messageType string, allow func(userID uint64) bool) (int, error) {
	message, err := encode(payload, messageType)
	if err != nil {
		return 0, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for userID, clients := range h.userClients {
		if allow != nil && !allow(userID) {
			continue
		}
		for client := range clients {
			if h.deliver(client, message) {
				delivered++
			}
		}
	}
	return delivered, nil
}

// медленный клиент теряет сообщение, соединение остаётся
func (h *Hub) deliver(client *Client, message []byte) bool {
	select {
	case client.Send <- message:
		return true
	default:
		h.logger.Warn("Буфер WebSocket клиента переполнен, сообщение пропущено", zap.Uint64("userID", client.UserID))
		return false
	}
}

func encode(payload interface{}, messageType string) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
}
