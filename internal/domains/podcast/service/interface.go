package service

import (
	"bytes"
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/infrastructure/storage"
	"podcasthub-backend/internal/shared"
)

// =====================================================
// COLLABORATORS
// =====================================================

// Promoter is implemented by *storage.S3Storage.
type Promoter interface {
	IssueUploadAuthorization(ctx context.Context, filename, contentType string) (*storage.UploadAuthorization, error)
	PromoteToPermanent(ctx context.Context, key string) (string, error)
}

// TaskEnqueuer is implemented by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// =====================================================
// CATALOG SERVICE INTERFACE
// =====================================================

type CatalogService interface {
	// ========================================
	// SUBMISSION (authenticated)
	// ========================================

	// RequestUploadAuthorization issues a presigned PUT into temporary storage
	RequestUploadAuthorization(ctx context.Context, caller *shared.Identity, req model.UploadURLRequest) (*storage.UploadAuthorization, error)

	// SubmitPodcast creates a pending podcast with no episodes
	SubmitPodcast(ctx context.Context, caller *shared.Identity, req model.CreatePodcastRequest) (*model.SubmitPodcastResponse, error)

	// AttachEpisode creates an episode and appends it to a pending podcast
	AttachEpisode(ctx context.Context, caller *shared.Identity, podcastID uuid.UUID, req model.AttachEpisodeRequest) (*model.EpisodeDetail, error)

	// ========================================
	// QUERIES (public)
	// ========================================

	ListPodcasts(ctx context.Context, q model.ListPodcastsQuery) (*model.Page[model.PodcastSummary], error)

	// GetPodcast returns the podcast with episodes newest first
	GetPodcast(ctx context.Context, id uuid.UUID) (*model.PodcastDetail, error)

	// SearchPodcasts matches title case-insensitively; category "All" disables the filter
	SearchPodcasts(ctx context.Context, q model.SearchPodcastsQuery) (*model.Page[model.PodcastSummary], error)

	ListEpisodes(ctx context.Context, q model.ListEpisodesQuery) (*model.Page[model.EpisodeDetail], error)

	GetEpisode(ctx context.Context, id uuid.UUID) (*model.EpisodeDetail, error)
}

// =====================================================
// APPROVAL SERVICE INTERFACE
// =====================================================

type ApprovalService interface {
	// UpdateStatus approves or rejects a pending podcast (admin only).
	// Approval promotes every episode's audio and commits all-or-nothing.
	UpdateStatus(ctx context.Context, caller *shared.Identity, podcastID uuid.UUID, status model.Status) (*model.StatusChangeResult, error)
}

// =====================================================
// EXPORT SERVICE INTERFACE
// =====================================================

type ExportService interface {
	// ExportPodcasts renders the catalog (optionally filtered by status) as XLSX
	ExportPodcasts(ctx context.Context, caller *shared.Identity, status string) (*bytes.Buffer, error)
}
