package eventredis

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"bordersentry/pkg/models"
)

// Config configures the Redis event publisher.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// Publisher pushes detection events onto a Redis list for dashboard and
// logging consumers. Delivery is fire-and-forget from the simulation's
// point of view: a failed push is the caller's to log, never to retry.
type Publisher struct {
	client *redis.Client
	key    string
}

// NewPublisher creates a Redis publisher for list-based event fan-out.
func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("redis key is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Publisher{
		client: client,
		key:    cfg.Key,
	}, nil
}

// WriteEvents pushes a batch of events onto the list.
func (p *Publisher) WriteEvents(events []*models.DetectionEvent) error {
	if len(events) == 0 {
		return nil
	}

	ctx := context.Background()
	payloads := make([]interface{}, 0, len(events))
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		payloads = append(payloads, data)
	}

	if err := p.client.RPush(ctx, p.key, payloads...).Err(); err != nil {
		return fmt.Errorf("failed to push events: %w", err)
	}
	return nil
}

// Close closes the publisher.
func (p *Publisher) Close() error {
	return p.client.Close()
}
