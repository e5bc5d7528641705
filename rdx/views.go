// Package rdx holds the Redis-backed pieces: the buffered view counter and the token
// revocation list.
package rdx

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"obiabedidi/errs"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const viewKeyPrefix = "views:recipe:"

func viewKey(recipeID string) string { return viewKeyPrefix + recipeID }

// Commands is the subset of *redis.Client the buffer uses.
type Commands interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// ViewStore applies accumulated counts. db.RecipeStore satisfies it.
type ViewStore interface {
	IncrementViews(ctx context.Context, id string, by int64) error
}

// ViewBuffer counts views with INCR and periodically moves the totals into the store
// with one atomic increment per recipe. GETDEL hands each pending count to exactly one
// flush, so concurrent views are never lost.
type ViewBuffer struct {
	conn     Commands
	store    ViewStore
	interval time.Duration
}

func NewViewBuffer(conn Commands, store ViewStore, interval time.Duration) *ViewBuffer {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ViewBuffer{conn: conn, store: store, interval: interval}
}

func (b *ViewBuffer) Increment(ctx context.Context, recipeID string) error {
	if err := b.conn.Incr(ctx, viewKey(recipeID)).Err(); err != nil {
		return fmt.Errorf("buffer view %s: %w", recipeID, err)
	}
	return nil
}

// Serve flushes on every tick until ctx is done, then flushes once more.
func (b *ViewBuffer) Serve(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			b.Flush(flushCtx)
			cancel()
			return ctx.Err()
		case <-ticker.C:
			b.Flush(ctx)
		}
	}
}

func (b *ViewBuffer) String() string { return "view-flusher" }

// Flush moves every pending count into the store and returns how many recipes it
// updated.
func (b *ViewBuffer) Flush(ctx context.Context) int {
	var cursor uint64
	flushed := 0
	for {
		keys, next, err := b.conn.Scan(ctx, cursor, viewKeyPrefix+"*", 100).Result()
		if err != nil {
			log.Error().Err(err).Msg("redis scan error")
			return flushed
		}
		for _, key := range keys {
			if b.flushKey(ctx, key) {
				flushed++
			}
		}
		if next == 0 {
			return flushed
		}
		cursor = next
	}
}

func (b *ViewBuffer) flushKey(ctx context.Context, key string) bool {
	recipeID := strings.TrimPrefix(key, viewKeyPrefix)

	countStr, err := b.conn.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("redis getdel error")
		return false
	}
	count, err := strconv.ParseInt(countStr, 10, 64)
	if err != nil || count <= 0 {
		log.Warn().Str("key", key).Str("value", countStr).Msg("discarding malformed view count")
		return false
	}

	err = b.store.IncrementViews(ctx, recipeID, count)
	switch {
	case err == nil:
		return true
	case errors.Is(err, errs.ErrNotFound):
		log.Warn().Str("recipe", recipeID).Int64("views", count).Msg("dropping views for missing recipe")
		return false
	default:
		// Put the count back so the next flush retries it.
		if rerr := b.conn.IncrBy(ctx, key, count).Err(); rerr != nil {
			log.Error().Err(rerr).Str("recipe", recipeID).Int64("views", count).Msg("lost buffered views")
		}
		log.Error().Err(err).Str("recipe", recipeID).Msg("flushing views")
		return false
	}
}
