package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aojudge/ranklist/internal/rank"
)

// Sink receives decoded runs from the judge result channels.
type Sink interface {
	Ingest(r rank.Run) error
}

// Consumer subscribes to the judge's Redis result channels and pumps each
// decoded run into the sink. Delivery is at-least-once; the sink is
// expected to absorb redeliveries.
type Consumer struct {
	client   *redis.Client
	channels []string
	sink     Sink
}

func NewConsumer(addr, password string, db int, channels []string, sink Sink) (*Consumer, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewConsumerWithClient(client, channels, sink), nil
}

// NewConsumerWithClient wires an existing client.
func NewConsumerWithClient(client *redis.Client, channels []string, sink Sink) *Consumer {
	return &Consumer{client: client, channels: channels, sink: sink}
}

// Run consumes until ctx is cancelled. The client reconnects on its own, so
// the loop only ends on cancellation or a closed consumer.
func (c *Consumer) Run(ctx context.Context) error {
	sub := c.client.Subscribe(ctx, c.channels...)
	defer sub.Close()

	// Force the subscription before consuming so a broken redis fails loudly.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %v: %w", c.channels, err)
	}
	zap.S().Infof("consuming judge results from %v", c.channels)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			c.handle(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (c *Consumer) handle(channel string, payload []byte) {
	var r rank.Run
	if err := json.Unmarshal(payload, &r); err != nil {
		zap.S().Warnf("dropping malformed message on %s: %v", channel, err)
		return
	}
	if r.ID == 0 {
		zap.S().Warnf("dropping message without run id on %s", channel)
		return
	}
	if err := c.sink.Ingest(r); err != nil {
		zap.S().Warnf("failed to ingest run %d from %s: %v", r.ID, channel, err)
	}
}

func (c *Consumer) Close() error {
	return c.client.Close()
}
