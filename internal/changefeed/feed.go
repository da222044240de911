package changefeed

import (
	"log"
	"sync"

	"friend-service/internal/observability"
)

// Op is the kind of row change a tick reports.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	// OpResync is sent to every subscriber after the listener reconnected and
	// may have missed notifications.
	OpResync Op = "resync"
)

// Mask selects which operations a subscriber receives.
type Mask uint8

const (
	MaskInsert Mask = 1 << iota
	MaskUpdate
	MaskDelete

	MaskAll = MaskInsert | MaskUpdate | MaskDelete
)

func (m Mask) matches(op Op) bool {
	switch op {
	case OpInsert:
		return m&MaskInsert != 0
	case OpUpdate:
		return m&MaskUpdate != 0
	case OpDelete:
		return m&MaskDelete != 0
	case OpResync:
		return true
	}
	return false
}

// Change is a change-feed tick. Consumers must treat it as "something in
// Table changed for these users, re-fetch", never as a delta.
type Change struct {
	Table   string   `json:"table"`
	Op      Op       `json:"op"`
	UserIDs []string `json:"user_ids"`
}

// Involves reports whether the tick concerns userID. Resync ticks concern
// everyone.
func (c Change) Involves(userID string) bool {
	if c.Op == OpResync {
		return true
	}
	for _, id := range c.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

const subscriberBuffer = 32

type subscription struct {
	table string
	mask  Mask
	ch    chan Change
}

// Feed fans change ticks out to in-process subscribers.
type Feed struct {
	mu     sync.RWMutex
	subs   map[int]*subscription
	nextID int
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]*subscription)}
}

// Subscribe registers interest in a table ("" for every table) and the
// operations in mask. The returned cancel func closes the channel.
func (f *Feed) Subscribe(table string, mask Mask) (<-chan Change, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	sub := &subscription{table: table, mask: mask, ch: make(chan Change, subscriberBuffer)}
	f.subs[id] = sub

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish delivers the tick to every matching subscriber. Full subscribers
// lose the tick; the next one triggers the same re-fetch.
func (f *Feed) Publish(change Change) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	observability.IncFeedTick(change.Table, string(change.Op))
	for _, sub := range f.subs {
		if change.Op != OpResync && sub.table != "" && sub.table != change.Table {
			continue
		}
		if !sub.mask.matches(change.Op) {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			log.Printf("changefeed: subscriber full, dropping tick table=%s op=%s", change.Table, change.Op)
			observability.IncFeedDropped(change.Table)
		}
	}
}
