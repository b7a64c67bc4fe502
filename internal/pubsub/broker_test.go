package pubsub_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aojudge/ranklist/internal/pubsub"
)

func recvMessage(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestPublishReachesSubscriber(t *testing.T) {
	b := pubsub.New()
	ch, unsubscribe := b.Subscribe("board")
	defer unsubscribe()

	b.Publish("board", []byte("v1"))
	assert.Equal(t, []byte("v1"), recvMessage(t, ch))
}

func TestLateSubscriberGetsOnlyLatest(t *testing.T) {
	b := pubsub.New()
	b.Publish("board", []byte("v1"))
	b.Publish("board", []byte("v2"))

	ch, unsubscribe := b.Subscribe("board")
	defer unsubscribe()

	assert.Equal(t, []byte("v2"), recvMessage(t, ch))
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra message %q", extra)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := pubsub.New()
	ch, unsubscribe := b.Subscribe("board")
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after the only subscriber left must not panic.
	b.Publish("board", []byte("v1"))
}

func TestCloseTopicDropsRetained(t *testing.T) {
	b := pubsub.New()
	b.Publish("board", []byte("v1"))
	b.CloseTopic("board")

	ch, unsubscribe := b.Subscribe("board")
	defer unsubscribe()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected retained message %q", msg)
	default:
	}
}

func TestFormatMessage(t *testing.T) {
	raw := pubsub.FormatMessage("scoreboard", map[string]int{"rank": 1})

	var msg pubsub.WsMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "scoreboard", msg.Stream)
	assert.JSONEq(t, `{"rank":1}`, string(msg.Data))
}
