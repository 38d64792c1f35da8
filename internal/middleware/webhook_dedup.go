package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// WebhookDeduper tracks recently processed webhook deliveries so bursts of
// retried Worldline notifications for the same payment collapse into one
// status poll.
type WebhookDeduper interface {
	Seen(ctx context.Context, paymentID string) (bool, error)
}

type redisWebhookDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (d *redisWebhookDeduper) Seen(ctx context.Context, paymentID string) (bool, error) {
	key := d.prefix + ":" + paymentID
	ok, err := d.client.SetNX(ctx, key, "1", d.ttl).Result()
	if err != nil {
		return false, err
	}
	// false => already exists => duplicate
	return !ok, nil
}

type memoryWebhookDeduper struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	nextGC time.Time
}

func newMemoryWebhookDeduper(ttl time.Duration) *memoryWebhookDeduper {
	now := time.Now()
	return &memoryWebhookDeduper{
		seen:   make(map[string]time.Time),
		ttl:    ttl,
		nextGC: now.Add(ttl),
	}
}

func (d *memoryWebhookDeduper) Seen(_ context.Context, paymentID string) (bool, error) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if exp, ok := d.seen[paymentID]; ok && exp.After(now) {
		return true, nil
	}

	d.seen[paymentID] = now.Add(d.ttl)
	if now.After(d.nextGC) {
		for id, exp := range d.seen {
			if exp.Before(now) {
				delete(d.seen, id)
			}
		}
		d.nextGC = now.Add(d.ttl)
	}

	return false, nil
}

// NewWebhookDeduper builds a Redis deduper and falls back to in-memory on
// failure.
func NewWebhookDeduper(addr, pass string, db int, ttl time.Duration) (WebhookDeduper, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if addr == "" {
		return newMemoryWebhookDeduper(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemoryWebhookDeduper(ttl), err
	}

	return &redisWebhookDeduper{
		client: client,
		prefix: "worldline:webhook",
		ttl:    ttl,
	}, nil
}

// WebhookDedup drops duplicate Worldline webhook deliveries by payment ID
// within the deduper's window. Duplicates still get a 200 so Worldline
// stops retrying.
func WebhookDedup(deduper WebhookDeduper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if deduper == nil {
				return next(c)
			}

			paymentID := c.Param("payment_id")
			if paymentID == "" {
				return next(c)
			}

			isDuplicate, err := deduper.Seen(c.Request().Context(), paymentID)
			if err != nil {
				return next(c)
			}
			if isDuplicate {
				return c.JSON(http.StatusOK, map[string]bool{"success": true})
			}

			return next(c)
		}
	}
}
