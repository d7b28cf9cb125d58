package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// HealthCheck reports whether Redis can still serve the donation queue.
// Besides connectivity it checks that the queue keys hold lists, since a
// clobbered key makes every LPUSH and LMOVE fail with WRONGTYPE.
type HealthCheck struct {
	client *goredis.Client
	keys   []string
}

// NewHealthCheck creates a checker for the queue stored under queueKey.
func NewHealthCheck(client *goredis.Client, queueKey string) *HealthCheck {
	return &HealthCheck{
		client: client,
		keys:   []string{queueKey, queueKey + ":processing"},
	}
}

// Ping checks connectivity and the type of each queue key.
func (h *HealthCheck) Ping(ctx context.Context) error {
	pipe := h.client.Pipeline()
	ping := pipe.Ping(ctx)
	types := make([]*goredis.StatusCmd, len(h.keys))
	for i, k := range h.keys {
		types[i] = pipe.Type(ctx, k)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if err := ping.Err(); err != nil {
		return err
	}

	for i, cmd := range types {
		switch t := cmd.Val(); t {
		case "list", "none":
		default:
			return fmt.Errorf("queue key %q holds a %s, want list", h.keys[i], t)
		}
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "redis"
}
