package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/domains/podcast/repository"
	"podcasthub-backend/internal/infrastructure/storage"
	"podcasthub-backend/internal/shared"
	"podcasthub-backend/pkg/cache"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type catalogService struct {
	repo     repository.PodcastRepository
	promoter Promoter
	cache    cache.Cache // nil disables caching
	now      func() time.Time
}

func NewCatalogService(
	repo repository.PodcastRepository,
	promoter Promoter,
	c cache.Cache,
) CatalogService {
	return &catalogService{
		repo:     repo,
		promoter: promoter,
		cache:    c,
		now:      time.Now,
	}
}

// =====================================================
// UPLOAD AUTHORIZATION
// =====================================================

func (s *catalogService) RequestUploadAuthorization(
	ctx context.Context,
	caller *shared.Identity,
	req model.UploadURLRequest,
) (*storage.UploadAuthorization, error) {
	if caller == nil {
		return nil, model.NewUnauthorizedError()
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err.Error(), err)
	}

	auth, err := s.promoter.IssueUploadAuthorization(ctx, req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, model.NewInternalError("Object storage is not configured", err)
		}
		if errors.Is(err, storage.ErrInvalidKey) {
			return nil, model.NewValidationError("Invalid filename", err)
		}
		return nil, model.NewStorageError("Failed to generate upload URL", err)
	}

	log.Info().
		Str("user_id", caller.ID.String()).
		Str("key", auth.Key).
		Msg("upload authorization issued")

	return auth, nil
}

// =====================================================
// SUBMIT PODCAST
// =====================================================

func (s *catalogService) SubmitPodcast(
	ctx context.Context,
	caller *shared.Identity,
	req model.CreatePodcastRequest,
) (*model.SubmitPodcastResponse, error) {
	if caller == nil {
		return nil, model.NewUnauthorizedError()
	}

	// Step 1: Build and validate entity
	submittedBy := caller.ID
	podcast, err := model.NewPodcast(req.ToFields(), &submittedBy, s.now().UTC())
	if err != nil {
		return nil, model.NewValidationError(err.Error(), err)
	}

	// Step 2: Persist
	if err := s.repo.CreatePodcast(ctx, podcast); err != nil {
		return nil, fmt.Errorf("failed to create podcast: %w", err)
	}

	log.Info().
		Str("podcast_id", podcast.ID.String()).
		Str("user_id", caller.ID.String()).
		Msg("podcast submitted for review")

	return &model.SubmitPodcastResponse{
		ID:        podcast.ID,
		Title:     podcast.Title,
		Status:    podcast.Status,
		CreatedAt: podcast.CreatedAt,
	}, nil
}

// =====================================================
// ATTACH EPISODE
// =====================================================

func (s *catalogService) AttachEpisode(
	ctx context.Context,
	caller *shared.Identity,
	podcastID uuid.UUID,
	req model.AttachEpisodeRequest,
) (*model.EpisodeDetail, error) {
	if caller == nil {
		return nil, model.NewUnauthorizedError()
	}

	// Step 1: Podcast must exist and still be pending
	podcast, err := s.repo.GetPodcastByID(ctx, podcastID)
	if err != nil {
		return nil, err
	}
	if podcast.Status != model.StatusPending {
		return nil, model.NewInvalidStateError(podcast.Status)
	}

	// Step 2: Build and validate episode
	episode, err := model.NewEpisode(podcastID, req.ToFields(), s.now().UTC())
	if err != nil {
		return nil, model.NewValidationError(err.Error(), err)
	}

	// Step 3: Insert + append in one transaction; the lock orders us against approval
	err = s.repo.WithTx(ctx, func(tx repository.TxRepository) error {
		locked, err := tx.LockPodcast(ctx, podcastID)
		if err != nil {
			return err
		}
		if locked.Status != model.StatusPending {
			return model.NewInvalidStateError(locked.Status)
		}
		if err := tx.InsertEpisode(ctx, episode); err != nil {
			return err
		}
		return tx.AppendEpisode(ctx, podcastID, episode.ID, episode.CreatedAt)
	})
	if err != nil {
		return nil, asPodcastError(err)
	}

	invalidatePodcast(ctx, s.cache, podcastID)

	log.Info().
		Str("podcast_id", podcastID.String()).
		Str("episode_id", episode.ID.String()).
		Str("audio_key", episode.AudioKey).
		Msg("episode attached")

	detail := model.NewEpisodeDetail(*episode)
	return &detail, nil
}

// =====================================================
// QUERIES
// =====================================================

func (s *catalogService) ListPodcasts(ctx context.Context, q model.ListPodcastsQuery) (*model.Page[model.PodcastSummary], error) {
	var filter model.PodcastFilter
	if q.Status != "" {
		status := model.Status(q.Status)
		if !status.IsValid() {
			return nil, model.NewValidationError("status must be pending, approved or rejected", nil)
		}
		filter.Status = status
	}

	return s.listPodcasts(ctx, filter, model.NewPagination(q.Page, q.Limit))
}

func (s *catalogService) SearchPodcasts(ctx context.Context, q model.SearchPodcastsQuery) (*model.Page[model.PodcastSummary], error) {
	filter := model.NewSearchFilter(q.Query, q.Category)
	return s.listPodcasts(ctx, filter, model.NewPagination(q.Page, q.Limit))
}

func (s *catalogService) listPodcasts(ctx context.Context, filter model.PodcastFilter, page model.Pagination) (*model.Page[model.PodcastSummary], error) {
	docs, total, err := s.repo.ListPodcasts(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list podcasts: %w", err)
	}
	result := model.NewPage(docs, total, page)
	return &result, nil
}

func (s *catalogService) GetPodcast(ctx context.Context, id uuid.UUID) (*model.PodcastDetail, error) {
	var key string
	cacheable := false
	if s.cache != nil {
		key, cacheable = currentDetailKey(ctx, s.cache, id)
	}

	if cacheable {
		var cached model.PodcastDetail
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			return &cached, nil
		}
	}

	podcast, err := s.repo.GetPodcastByID(ctx, id)
	if err != nil {
		return nil, err
	}
	episodes, err := s.repo.ListEpisodesByPodcast(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load episodes: %w", err)
	}

	detail := model.NewPodcastDetail(*podcast, episodes)

	if cacheable {
		if err := s.cache.Set(ctx, key, detail, podcastDetailTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}

	return detail, nil
}

func (s *catalogService) ListEpisodes(ctx context.Context, q model.ListEpisodesQuery) (*model.Page[model.EpisodeDetail], error) {
	page := model.NewPagination(q.Page, q.Limit)

	episodes, total, err := s.repo.ListEpisodes(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}

	details := make([]model.EpisodeDetail, 0, len(episodes))
	for _, e := range episodes {
		details = append(details, model.NewEpisodeDetail(e))
	}
	result := model.NewPage(details, total, page)
	return &result, nil
}

func (s *catalogService) GetEpisode(ctx context.Context, id uuid.UUID) (*model.EpisodeDetail, error) {
	episode, err := s.repo.GetEpisodeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := model.NewEpisodeDetail(*episode)
	return &detail, nil
}

// asPodcastError passes domain errors through and tags everything else that
// escaped a transaction as a TransactionError.
func asPodcastError(err error) error {
	var pe *model.PodcastError
	if errors.As(err, &pe) {
		return pe
	}
	return model.NewTransactionError(err)
}
