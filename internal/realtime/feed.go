// Package realtime publishes entity changes over Redis pub/sub so
// connected clients can reconcile their local state. The feed is an
// optional collaborator: when Redis is unreachable it flips into a
// disabled mode instead of failing callers.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/pkg/keycase"
)

// ChangeEvent is the wire form of one entity change. Record keys are
// snake_case, matching the storage casing convention.
type ChangeEvent struct {
	Table  string            `json:"table"`
	Change events.ChangeKind `json:"change"`
	Record map[string]any    `json:"record,omitempty"`
}

// Feed fans entity changes out to subscribers.
type Feed interface {
	Publish(ctx context.Context, event ChangeEvent) error
	Subscribe(ctx context.Context, table string, kinds ...events.ChangeKind) (<-chan ChangeEvent, error)
	Enabled() bool
	Close() error
}

type redisFeed struct {
	client   *redis.Client
	logger   *zap.Logger
	prefix   string
	disabled atomic.Bool
	warnOnce sync.Once

	mu   sync.Mutex
	subs []*redis.PubSub
}

// NewRedisFeed builds a Feed over the given client. A nil client
// yields a permanently disabled feed.
func NewRedisFeed(client *redis.Client, prefix string, logger *zap.Logger) Feed {
	feed := &redisFeed{client: client, prefix: prefix, logger: logger}
	if client == nil {
		feed.disabled.Store(true)
	}
	return feed
}

func (f *redisFeed) channel(table string) string {
	return f.prefix + ":" + table
}

// Publish sends the change to the table channel. Failures degrade the
// feed for the rest of the session; they never propagate to the
// mutation that triggered them.
func (f *redisFeed) Publish(ctx context.Context, event ChangeEvent) error {
	if f.disabled.Load() {
		return nil
	}
	if event.Record != nil {
		event.Record = keycase.SnakeKeys(event.Record).(map[string]any)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := f.client.Publish(ctx, f.channel(event.Table), payload).Err(); err != nil {
		f.degrade(err)
	}
	return nil
}

// Subscribe streams changes for one table, optionally filtered by
// change kind. The returned channel closes when ctx is done or the
// subscription drops.
func (f *redisFeed) Subscribe(ctx context.Context, table string, kinds ...events.ChangeKind) (<-chan ChangeEvent, error) {
	if f.disabled.Load() {
		closed := make(chan ChangeEvent)
		close(closed)
		return closed, nil
	}

	sub := f.client.Subscribe(ctx, f.channel(table))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		f.degrade(err)
		closed := make(chan ChangeEvent)
		close(closed)
		return closed, nil
	}

	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()

	wanted := make(map[events.ChangeKind]struct{}, len(kinds))
	for _, kind := range kinds {
		wanted[kind] = struct{}{}
	}

	out := make(chan ChangeEvent, 16)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.logger.Warn("realtime: bad change payload", zap.Error(err))
					continue
				}
				if len(wanted) > 0 {
					if _, keep := wanted[event.Change]; !keep {
						continue
					}
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Enabled reports whether the feed is still live.
func (f *redisFeed) Enabled() bool {
	return !f.disabled.Load()
}

// Close tears down open subscriptions.
func (f *redisFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		_ = sub.Close()
	}
	f.subs = nil
	return nil
}

func (f *redisFeed) degrade(err error) {
	f.disabled.Store(true)
	f.warnOnce.Do(func() {
		f.logger.Warn("realtime feed disabled for this session", zap.Error(err))
	})
}

// RecordOf flattens an entity into the map form used by the feed,
// going through JSON so the camelCase struct tags become keys.
func RecordOf(entity any) map[string]any {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil
	}
	return record
}
