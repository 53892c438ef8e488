package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/adapter/metrics"
	goredis "github.com/redis/go-redis/v9"
)

const catalogChannel = "catalog:changed"

// CatalogEvents announces catalog changes to the other replicas and reloads
// the local checker when another replica announces one. Messages carry the
// sender's instance ID so a replica ignores its own announcements.
type CatalogEvents struct {
	rdb        *goredis.Client
	instanceID string
	metrics    *metrics.RedisMetrics
}

func NewCatalogEvents(rdb *goredis.Client, m *metrics.RedisMetrics) *CatalogEvents {
	return &CatalogEvents{rdb: rdb, instanceID: uuid.NewString(), metrics: m}
}

func (e *CatalogEvents) PublishCatalogChanged(ctx context.Context) error {
	if err := e.rdb.Publish(ctx, catalogChannel, e.instanceID).Err(); err != nil {
		return fmt.Errorf("failed to publish catalog change: %w", err)
	}
	e.count("published")
	return nil
}

// Listen calls reload for every change announced by another replica.
// Blocks until ctx is cancelled.
func (e *CatalogEvents) Listen(ctx context.Context, reload func(ctx context.Context) error) {
	pubsub := e.rdb.Subscribe(ctx, catalogChannel)
	defer func() {
		_ = pubsub.Close()
	}()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			e.handle(ctx, msg.Payload, reload)
		case <-ctx.Done():
			return
		}
	}
}

func (e *CatalogEvents) handle(ctx context.Context, sender string, reload func(ctx context.Context) error) {
	if sender == e.instanceID {
		return
	}
	e.count("received")

	if err := reload(ctx); err != nil {
		slog.Error("Failed to reload catalog after change announcement", "sender", sender, "error", err)
		return
	}
	slog.Debug("Catalog reloaded via pub/sub", "sender", sender)
}

func (e *CatalogEvents) count(direction string) {
	if e.metrics != nil {
		e.metrics.PubSubMessages.WithLabelValues(catalogChannel, direction).Inc()
	}
}
