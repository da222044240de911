package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = 2 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// ParsePayload decodes a NOTIFY payload produced by the table triggers.
func ParsePayload(payload string) (Change, error) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return Change{}, fmt.Errorf("decode change payload: %w", err)
	}
	if change.Table == "" {
		return Change{}, fmt.Errorf("decode change payload: missing table")
	}
	switch change.Op {
	case OpInsert, OpUpdate, OpDelete:
	default:
		return Change{}, fmt.Errorf("decode change payload: unknown op %q", change.Op)
	}
	return change, nil
}

// Listen forwards Postgres notifications on channel into feed until ctx is
// done.
func Listen(ctx context.Context, dsn string, channel string, feed *Feed) error {
	listener := pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("changefeed listener event=%d error=%v", ev, err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(channel); err != nil {
		return fmt.Errorf("listen %s: %w", channel, err)
	}
	log.Printf("changefeed listening channel=%s", channel)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-listener.Notify:
			if !ok {
				return fmt.Errorf("listener closed")
			}
			// nil after a reconnect: notifications may have been lost
			if n == nil {
				feed.Publish(Change{Op: OpResync})
				continue
			}
			change, err := ParsePayload(n.Extra)
			if err != nil {
				log.Printf("changefeed: %v", err)
				continue
			}
			feed.Publish(change)
		case <-ticker.C:
			if err := listener.Ping(); err != nil {
				log.Printf("changefeed ping failed: %v", err)
			}
		}
	}
}
