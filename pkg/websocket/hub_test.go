package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func registered(t *testing.T, h *Hub, userID uint64) *Client {
	t.Helper()
	c := &Client{hub: h, Send: make(chan []byte, 4), UserID: userID}
	h.Register <- c
	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		_, ok := h.userClients[userID][c]
		return ok
	}, time.Second, 5*time.Millisecond)
	return c
}

func TestHub_BroadcastFiltersUsers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(zap.NewNop())
	go h.Run(ctx)

	warehouse := registered(t, h, 1)
	other := registered(t, h, 2)

	n, err := h.Broadcast(FeedPayload{Entity: "requisition", ID: 7, Number: "ZAP/2024/05/01/1"}, "requisition.created",
		func(userID uint64) bool { return userID == 1 })
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var env struct {
		Type    string      `json:"type"`
		Payload FeedPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(<-warehouse.Send, &env))
	assert.Equal(t, "requisition.created", env.Type)
	assert.Equal(t, "ZAP/2024/05/01/1", env.Payload.Number)
	assert.Empty(t, other.Send)
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(zap.NewNop())
	go h.Run(ctx)

	c := registered(t, h, 5)
	for i := 0; i < cap(c.Send)+3; i++ {
		require.NoError(t, h.SendMessageToUser(5, i, "tick"))
	}
	assert.Len(t, c.Send, cap(c.Send))
	assert.ElementsMatch(t, []uint64{5}, h.ConnectedUsers())
}
