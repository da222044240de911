package cache

import (
	"context"
	"log"

	"friend-service/internal/changefeed"
	"friend-service/internal/models"
)

// ProfileCache holds user profiles for rendering friend and request lists.
// Entries are dropped when the change feed reports the user row changed.
type ProfileCache interface {
	// Get returns the cached profiles and the ids that were not cached.
	Get(ctx context.Context, ids []string) (map[string]models.Profile, []string, error)
	Set(ctx context.Context, profiles []models.Profile) error
	Invalidate(ctx context.Context, ids ...string) error
}

// InvalidateOnChange drops cached profiles for every user the ticks mention
// until the channel closes. A resync tick flushes the whole cache.
func InvalidateOnChange(ctx context.Context, ticks <-chan changefeed.Change, c ProfileCache) {
	for tick := range ticks {
		var err error
		if tick.Op == changefeed.OpResync {
			err = c.Invalidate(ctx)
		} else {
			err = c.Invalidate(ctx, tick.UserIDs...)
		}
		if err != nil {
			log.Printf("profile cache invalidate failed table=%s op=%s: %v", tick.Table, tick.Op, err)
		}
	}
}
