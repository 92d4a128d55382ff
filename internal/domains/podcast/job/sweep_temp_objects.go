package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTempRetention = 24 * time.Hour
	sweepLookupBatch     = 500
)

// SweepTempObjectsHandler removes abandoned uploads: temporary objects older
// than the retention that no pending episode still waits to promote.
type SweepTempObjectsHandler struct {
	store     TempObjectStore
	refs      KeyReferenceChecker
	retention time.Duration
	now       func() time.Time
}

func NewSweepTempObjectsHandler(store TempObjectStore, refs KeyReferenceChecker, retention time.Duration) *SweepTempObjectsHandler {
	if retention <= 0 {
		retention = DefaultTempRetention
	}
	return &SweepTempObjectsHandler{
		store:     store,
		refs:      refs,
		retention: retention,
		now:       time.Now,
	}
}

func (h *SweepTempObjectsHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	cutoff := h.now().Add(-h.retention)

	log.Info().Time("cutoff", cutoff).Msg("Starting sweep of temporary uploads")

	objects, err := h.store.ListTemporary(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list temporary objects: %w", err)
	}

	var deleted, kept, failed int
	for start := 0; start < len(objects); start += sweepLookupBatch {
		end := min(start+sweepLookupBatch, len(objects))

		keys := make([]string, 0, end-start)
		for _, o := range objects[start:end] {
			keys = append(keys, o.Key)
		}

		referenced, err := h.refs.KeysAwaitingPromotion(ctx, keys)
		if err != nil {
			return fmt.Errorf("lookup referenced keys: %w", err)
		}

		for _, key := range keys {
			if _, ok := referenced[key]; ok {
				kept++
				continue
			}
			if err := h.store.DeleteTemporary(ctx, key); err != nil {
				failed++
				log.Warn().Err(err).Str("key", key).Msg("Failed to delete abandoned upload")
				continue
			}
			deleted++
		}
	}

	log.Info().
		Int("scanned", len(objects)).
		Int("deleted", deleted).
		Int("kept", kept).
		Int("failed", failed).
		Msg("Temporary upload sweep finished")

	return nil
}
