package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"podcasthub-backend/pkg/cache"
)

const podcastDetailTTL = 10 * time.Minute

func podcastVersionKey(id uuid.UUID) string {
	return "podcast:version:" + id.String()
}

func podcastDetailKey(id uuid.UUID, version int64) string {
	return fmt.Sprintf("podcast:detail:%s:%d", id, version)
}

// currentDetailKey resolves the detail key of the podcast's current cache
// generation. It must be read before loading from Postgres; ok is false when
// the generation is unknown and the cache should be bypassed.
func currentDetailKey(ctx context.Context, c cache.Cache, id uuid.UUID) (key string, ok bool) {
	var version int64
	if _, err := c.Get(ctx, podcastVersionKey(id), &version); err != nil {
		log.Warn().Err(err).Str("podcast_id", id.String()).Msg("cache version lookup failed")
		return "", false
	}
	return podcastDetailKey(id, version), true
}

// invalidatePodcast moves the podcast to a new cache generation. A reader that
// loaded the previous state writes under the previous key, which later reads
// never consult. Failures are logged.
func invalidatePodcast(ctx context.Context, c cache.Cache, id uuid.UUID) {
	if c == nil {
		return
	}
	if _, err := c.Incr(ctx, podcastVersionKey(id)); err != nil {
		log.Warn().Err(err).Str("podcast_id", id.String()).Msg("failed to invalidate podcast cache")
	}
}
