package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/domains/podcast/repository"
	"podcasthub-backend/internal/shared"
	"podcasthub-backend/pkg/cache"
)

// ApprovalConfig tunes the coordinator.
type ApprovalConfig struct {
	// PromotionConcurrency bounds parallel copies per approval; 1 = sequential
	PromotionConcurrency int
	// CleanupMaxRetry is the asynq retry budget of temp-object deletions
	CleanupMaxRetry int
}

type approvalService struct {
	repo        repository.PodcastRepository
	promoter    Promoter
	enqueuer    TaskEnqueuer // nil disables temp cleanup
	cache       cache.Cache
	metrics     *ApprovalMetrics
	concurrency int
	maxRetry    int
	now         func() time.Time
}

func NewApprovalService(
	repo repository.PodcastRepository,
	promoter Promoter,
	enqueuer TaskEnqueuer,
	c cache.Cache,
	metrics *ApprovalMetrics,
	cfg ApprovalConfig,
) ApprovalService {
	if cfg.PromotionConcurrency < 1 {
		cfg.PromotionConcurrency = 1
	}
	if cfg.CleanupMaxRetry < 1 {
		cfg.CleanupMaxRetry = 5
	}
	return &approvalService{
		repo:        repo,
		promoter:    promoter,
		enqueuer:    enqueuer,
		cache:       c,
		metrics:     metrics,
		concurrency: cfg.PromotionConcurrency,
		maxRetry:    cfg.CleanupMaxRetry,
		now:         time.Now,
	}
}

// promotedAudio is one copy made by a committed approval.
type promotedAudio struct {
	episodeID uuid.UUID
	tempKey   string
}

// =====================================================
// UPDATE STATUS
// =====================================================

func (s *approvalService) UpdateStatus(
	ctx context.Context,
	caller *shared.Identity,
	podcastID uuid.UUID,
	status model.Status,
) (*model.StatusChangeResult, error) {
	// Preconditions fail fast, before any transaction is opened
	if caller == nil {
		return nil, model.NewUnauthorizedError()
	}
	if !caller.IsAdmin() {
		return nil, model.NewForbiddenError("Only administrators can change podcast status")
	}
	if !status.IsTerminal() {
		return nil, model.NewValidationError("status must be approved or rejected", nil)
	}
	if _, err := s.repo.GetPodcastByID(ctx, podcastID); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		result   *model.StatusChangeResult
		promoted []promotedAudio
		err      error
	)
	if status == model.StatusApproved {
		result, promoted, err = s.approve(ctx, podcastID)
	} else {
		result, err = s.reject(ctx, podcastID)
	}

	if err != nil {
		err = asPodcastError(err)
		s.metrics.observe(string(status), outcomeOf(err), time.Since(start), 0)
		log.Warn().
			Err(err).
			Str("podcast_id", podcastID.String()).
			Str("target_status", string(status)).
			Str("admin_id", caller.ID.String()).
			Msg("podcast status change aborted")
		return nil, err
	}
	s.metrics.observe(string(status), "committed", time.Since(start), len(promoted))

	// Post-commit side effects never fail the request
	invalidatePodcast(ctx, s.cache, podcastID)
	s.scheduleTempCleanup(ctx, podcastID, promoted)

	log.Info().
		Str("podcast_id", podcastID.String()).
		Str("status", string(result.Status)).
		Int("promoted_episodes", result.PromotedEpisodes).
		Str("admin_id", caller.ID.String()).
		Msg("podcast status changed")

	return result, nil
}

// approve promotes every episode's audio and flips status inside one
// transaction. Any promotion failure aborts before a single row is written.
// Permanent copies made before the failure stay in place; a retry re-copies
// them onto the same keys.
func (s *approvalService) approve(ctx context.Context, podcastID uuid.UUID) (*model.StatusChangeResult, []promotedAudio, error) {
	var (
		result   *model.StatusChangeResult
		promoted []promotedAudio
	)

	err := s.repo.WithTx(ctx, func(tx repository.TxRepository) error {
		// Step 1: Lock + consistent snapshot
		podcast, err := tx.LockPodcast(ctx, podcastID)
		if err != nil {
			return err
		}
		if podcast.Status != model.StatusPending {
			return model.NewInvalidStateError(podcast.Status)
		}

		episodes, err := tx.EpisodesInListOrder(ctx, podcastID)
		if err != nil {
			return err
		}

		// Step 2: Promote all audio; results are indexed like episodes
		urls, err := s.promoteAll(ctx, episodes)
		if err != nil {
			return err
		}

		// Step 3: Stage audio_url writes in list order
		now := s.now().UTC()
		for i := range episodes {
			if urls[i] == "" {
				continue
			}
			if err := episodes[i].Promote(urls[i], now); err != nil {
				return model.NewStorageError("Storage returned an invalid public URL", err)
			}
			if err := tx.SetEpisodeAudioURL(ctx, episodes[i].ID, episodes[i].AudioURL, now); err != nil {
				return err
			}
			promoted = append(promoted, promotedAudio{episodeID: episodes[i].ID, tempKey: episodes[i].AudioKey})
		}

		// Step 4: Conditional transition pending -> approved
		ok, err := tx.TransitionStatus(ctx, podcastID, model.StatusPending, model.StatusApproved, now)
		if err != nil {
			return err
		}
		if !ok {
			return model.NewInvalidStateError(model.StatusApproved)
		}

		result = &model.StatusChangeResult{
			ID:               podcastID,
			Status:           model.StatusApproved,
			PromotedEpisodes: len(promoted),
			UpdatedAt:        now,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return result, promoted, nil
}

// promoteAll copies every episode that has an audio key, at most
// s.concurrency at a time. The first failure cancels the rest.
func (s *approvalService) promoteAll(ctx context.Context, episodes []model.Episode) ([]string, error) {
	urls := make([]string, len(episodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range episodes {
		if !episodes[i].NeedsPromotion() {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			u, err := s.promoter.PromoteToPermanent(gctx, episodes[i].AudioKey)
			if err != nil {
				return fmt.Errorf("episode %s (%s): %w", episodes[i].ID, episodes[i].AudioKey, err)
			}
			urls[i] = u
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, model.NewStorageError("Failed to promote episode audio", err)
	}
	return urls, nil
}

// =====================================================
// REJECT
// =====================================================

func (s *approvalService) reject(ctx context.Context, podcastID uuid.UUID) (*model.StatusChangeResult, error) {
	var result *model.StatusChangeResult

	err := s.repo.WithTx(ctx, func(tx repository.TxRepository) error {
		podcast, err := tx.LockPodcast(ctx, podcastID)
		if err != nil {
			return err
		}
		if podcast.Status != model.StatusPending {
			return model.NewInvalidStateError(podcast.Status)
		}

		now := s.now().UTC()
		ok, err := tx.TransitionStatus(ctx, podcastID, model.StatusPending, model.StatusRejected, now)
		if err != nil {
			return err
		}
		if !ok {
			return model.NewInvalidStateError(model.StatusRejected)
		}

		result = &model.StatusChangeResult{ID: podcastID, Status: model.StatusRejected, UpdatedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// =====================================================
// POST-COMMIT
// =====================================================

// scheduleTempCleanup enqueues deletion of the temporary copies. The task id is
// derived from the key, so a repeated enqueue for the same key is a no-op.
func (s *approvalService) scheduleTempCleanup(ctx context.Context, podcastID uuid.UUID, promoted []promotedAudio) {
	if s.enqueuer == nil {
		return
	}

	for _, p := range promoted {
		payload, err := json.Marshal(model.DeleteTempObjectPayload{Key: p.tempKey, PodcastID: podcastID.String()})
		if err != nil {
			log.Error().Err(err).Str("key", p.tempKey).Msg("failed to marshal cleanup payload")
			continue
		}

		task := asynq.NewTask(shared.TypeDeleteTempObject, payload)
		_, err = s.enqueuer.EnqueueContext(ctx, task,
			asynq.Queue(shared.QueueLow),
			asynq.MaxRetry(s.maxRetry),
			asynq.TaskID("delete-temp:"+p.tempKey),
		)
		if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
			log.Warn().
				Err(err).
				Str("key", p.tempKey).
				Str("episode_id", p.episodeID.String()).
				Msg("failed to enqueue temp object cleanup; sweep will retry")
		}
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, model.ErrConflict):
		return "conflict"
	case errors.Is(err, model.ErrStorage):
		return "storage_error"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	default:
		return "transaction_error"
	}
}
