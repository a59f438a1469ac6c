package redis

import (
	"context"
	"encoding/json"
	"fmt"
)

// Channels
const (
	DatasetChannel = "aura:events:dataset"
)

// Publish sends a JSON encoded message (no-op when disabled)
func (c *Client) Publish(ctx context.Context, channel string, msg interface{}) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("publish marshal failed: %w", err)
	}
	return c.rdb.Publish(ctx, channel, data).Err()
}

// Subscribe delivers raw payloads of channel to fn until ctx is done.
// Returns immediately when disabled.
func (c *Client) Subscribe(ctx context.Context, channel string, fn func(payload []byte)) error {
	if !c.Enabled() {
		return nil
	}

	sub := c.rdb.Subscribe(ctx, channel)
	defer sub.Close()

	// 구독 확정 대기
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fn([]byte(msg.Payload))
		}
	}
}
