package pubsub

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Broker is a simple in-memory pub/sub fanout. Each topic retains only its
// newest message: scoreboard snapshots supersede each other, so a late
// subscriber needs the current board, not the history that led to it.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan []byte // topic -> list of subscriber channels
	latest      map[string][]byte        // topic -> newest published message
}

type WsMessage struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

func New() *Broker {
	return &Broker{
		subscribers: make(map[string][]chan []byte),
		latest:      make(map[string][]byte),
	}
}

var (
	once   sync.Once
	broker *Broker
)

// GetBroker returns the process-wide broker instance.
func GetBroker() *Broker {
	once.Do(func() {
		broker = New()
	})
	return broker
}

// Subscribe subscribes to a topic. The retained message, if any, is
// delivered first, then live messages follow.
func (b *Broker) Subscribe(topic string) (<-chan []byte, func()) {
	b.mu.Lock()

	ch := make(chan []byte, 16)
	if msg, ok := b.latest[topic]; ok {
		ch <- msg
	}
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subscribers := b.subscribers[topic]
		for i, sub := range subscribers {
			if sub == ch {
				// Remove the channel from the slice
				b.subscribers[topic] = append(subscribers[:i], subscribers[i+1:]...)
				close(ch)
				break
			}
		}
		zap.S().Debugf("unsubscribed from topic %s", topic)
	}

	zap.S().Debugf("new subscription to topic %s", topic)
	return ch, unsubscribe
}

// Publish replaces the topic's retained message and broadcasts to all live
// subscribers (non-blocking).
func (b *Broker) Publish(topic string, msg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest[topic] = msg

	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- msg:
		default:
			// If a subscriber's channel is full, drop the message for them.
			// This prevents a slow client from blocking the publisher.
		}
	}
}

// CloseTopic closes all subscriber channels and drops the retained message.
func (b *Broker) CloseTopic(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[topic]; ok {
		for _, ch := range subscribers {
			close(ch)
		}
		delete(b.subscribers, topic)
		zap.S().Infof("closed pubsub topic %s", topic)
	}
	delete(b.latest, topic)
}

// FormatMessage wraps a payload for the websocket stream.
func FormatMessage(streamType string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		zap.S().Errorf("failed to marshal %s payload: %v", streamType, err)
		return []byte(`{"stream":"error","data":"json format error"}`)
	}
	msg := WsMessage{Stream: streamType, Data: raw}
	bytes, err := json.Marshal(msg)
	if err != nil {
		return []byte(`{"stream":"error","data":"json format error"}`)
	}
	return bytes
}
