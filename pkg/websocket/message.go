package websocket

import "time"

// Envelope - конверт сообщения живой ленты; Type определяет обработку на фронтенде.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// FeedPayload - событие ленты склада и логистики.
type FeedPayload struct {
	Entity  string    `json:"entity"`
	ID      uint64    `json:"id"`
	Number  string    `json:"number,omitempty"`
	Status  string    `json:"status,omitempty"`
	Actor   ActorInfo `json:"actor"`
	Message string    `json:"message"`
	Link    string    `json:"link"`
}

type ActorInfo struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
