package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/sma-rating-sync/internal/models"
)

// NotificationPublisher fans notifications out over Redis pub/sub so a host UI
// in another process can subscribe to them.
type NotificationPublisher struct {
	client  *redis.Client
	channel string
}

// NewNotificationPublisher constructs a publisher for channel.
func NewNotificationPublisher(client *redis.Client, channel string) *NotificationPublisher {
	if channel == "" {
		channel = "roster:notifications"
	}
	return &NotificationPublisher{client: client, channel: channel}
}

// Name identifies the sink in logs and metrics.
func (p *NotificationPublisher) Name() string {
	return "redis"
}

// Deliver publishes n as JSON.
func (p *NotificationPublisher) Deliver(ctx context.Context, n models.Notification) error {
	if p.client == nil {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification %s: %w", n.Category, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return nil
}
