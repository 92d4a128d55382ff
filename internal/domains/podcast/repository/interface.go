package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"podcasthub-backend/internal/domains/podcast/model"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is a DBTX that can open transactions.
type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// =====================================================
// PODCAST REPOSITORY INTERFACE
// =====================================================

type PodcastRepository interface {
	// ========================================
	// Podcasts
	// ========================================

	// CreatePodcast inserts a new podcast
	CreatePodcast(ctx context.Context, podcast *model.Podcast) error

	// GetPodcastByID returns NotFound PodcastError when absent
	GetPodcastByID(ctx context.Context, id uuid.UUID) (*model.Podcast, error)

	// ListPodcasts lists podcasts newest first with total count
	ListPodcasts(ctx context.Context, filter model.PodcastFilter, page model.Pagination) ([]model.PodcastSummary, int, error)

	// ExportPodcasts returns every podcast matching filter, newest first
	ExportPodcasts(ctx context.Context, filter model.PodcastFilter) ([]model.Podcast, error)

	// ========================================
	// Episodes
	// ========================================

	// ListEpisodesByPodcast returns episodes of a podcast newest first
	ListEpisodesByPodcast(ctx context.Context, podcastID uuid.UUID) ([]model.Episode, error)

	ListEpisodes(ctx context.Context, page model.Pagination) ([]model.Episode, int, error)

	GetEpisodeByID(ctx context.Context, id uuid.UUID) (*model.Episode, error)

	// KeysAwaitingPromotion returns the subset of keys still referenced by an
	// unpromoted episode of a pending podcast
	KeysAwaitingPromotion(ctx context.Context, keys []string) (map[string]struct{}, error)

	// ========================================
	// Transactions
	// ========================================

	// WithTx runs fn in one database transaction. The transaction commits when
	// fn returns nil and is rolled back on error or panic.
	WithTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository exposes the writes that must share a transaction.
type TxRepository interface {
	// LockPodcast loads the podcast with SELECT ... FOR UPDATE
	LockPodcast(ctx context.Context, id uuid.UUID) (*model.Podcast, error)

	// EpisodesInListOrder returns the podcast's episodes in attachment order
	EpisodesInListOrder(ctx context.Context, podcastID uuid.UUID) ([]model.Episode, error)

	// SetEpisodeAudioURL records a promoted audio URL
	SetEpisodeAudioURL(ctx context.Context, episodeID uuid.UUID, audioURL string, at time.Time) error

	// TransitionStatus updates status only when it currently equals from.
	// Returns false when no row matched.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.Status, at time.Time) (bool, error)

	// InsertEpisode inserts an episode row
	InsertEpisode(ctx context.Context, episode *model.Episode) error

	// AppendEpisode appends episodeID to the podcast's ordered list
	AppendEpisode(ctx context.Context, podcastID, episodeID uuid.UUID, at time.Time) error
}
