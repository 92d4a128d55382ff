package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/infrastructure/storage"
)

// DeleteTempObjectHandler xóa bản tạm của audio sau khi podcast đã được approve
type DeleteTempObjectHandler struct {
	store TempObjectStore
	refs  KeyReferenceChecker
}

func NewDeleteTempObjectHandler(store TempObjectStore, refs KeyReferenceChecker) *DeleteTempObjectHandler {
	return &DeleteTempObjectHandler{store: store, refs: refs}
}

// ProcessTask handles storage:delete_temp_object. Malformed payloads and keys
// outside the temporary prefix are not retried. A key still referenced by an
// episode of another pending podcast is kept; the sweep removes it later.
func (h *DeleteTempObjectHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.DeleteTempObjectPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteTempObject payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	awaited, err := h.refs.KeysAwaitingPromotion(ctx, []string{payload.Key})
	if err != nil {
		return fmt.Errorf("check key references: %w", err)
	}
	if _, ok := awaited[payload.Key]; ok {
		log.Info().
			Str("key", payload.Key).
			Str("podcast_id", payload.PodcastID).
			Msg("Temporary object still awaiting promotion, kept")
		return nil
	}

	err = h.store.DeleteTemporary(ctx, payload.Key)
	if errors.Is(err, storage.ErrInvalidKey) {
		log.Warn().Str("key", payload.Key).Msg("Skipping delete of non-temporary key")
		return fmt.Errorf("delete %q: %v: %w", payload.Key, err, asynq.SkipRetry)
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("key", payload.Key).
			Str("podcast_id", payload.PodcastID).
			Msg("Failed to delete temporary object")
		return fmt.Errorf("delete temp object: %w", err)
	}

	log.Info().
		Str("key", payload.Key).
		Str("podcast_id", payload.PodcastID).
		Msg("Temporary object deleted")

	return nil
}
