package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/shared/utils"
	"podcasthub-backend/pkg/database"
)

const (
	podcastColumns = `id, title, description, author, category, cover_image_url,
		episode_ids, follower_ids, status, submitted_by, created_at, updated_at`

	summaryColumns = `id, title, author, description, category, cover_image_url,
		status, cardinality(episode_ids), created_at`

	episodeColumns = `id, podcast_id, title, description, audio_key, audio_url,
		duration, published_at, play_count, created_at, updated_at`
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresPodcastRepository struct {
	pool Pool
}

func NewPostgresPodcastRepository(pool Pool) PodcastRepository {
	return &postgresPodcastRepository{pool: pool}
}

// =====================================================
// PODCASTS
// =====================================================

func (r *postgresPodcastRepository) CreatePodcast(ctx context.Context, p *model.Podcast) error {
	query := `
		INSERT INTO podcasts (
			id, title, description, author, category, cover_image_url,
			episode_ids, follower_ids, status, submitted_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.Author,
		p.Category,
		p.CoverImageURL,
		p.EpisodeIDs,
		p.FollowerIDs,
		string(p.Status),
		p.SubmittedBy,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create podcast: %w", err)
	}
	return nil
}

func (r *postgresPodcastRepository) GetPodcastByID(ctx context.Context, id uuid.UUID) (*model.Podcast, error) {
	query := `SELECT ` + podcastColumns + ` FROM podcasts WHERE id = $1`

	p, err := scanPodcast(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewPodcastNotFoundError()
		}
		return nil, fmt.Errorf("failed to get podcast: %w", err)
	}
	return p, nil
}

func (r *postgresPodcastRepository) ListPodcasts(
	ctx context.Context,
	filter model.PodcastFilter,
	page model.Pagination,
) ([]model.PodcastSummary, int, error) {
	where := buildPodcastWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM podcasts` + where.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count podcasts: %w", err)
	}

	query := `SELECT ` + summaryColumns + ` FROM podcasts` + where.SQL() +
		` ORDER BY created_at DESC, id DESC` +
		` LIMIT ` + where.NextPlaceholder(1) + ` OFFSET ` + where.NextPlaceholder(2)
	args := append(where.Args(), page.Limit, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list podcasts: %w", err)
	}
	defer rows.Close()

	summaries := make([]model.PodcastSummary, 0, page.Limit)
	for rows.Next() {
		var (
			s      model.PodcastSummary
			status string
		)
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Author,
			&s.Description,
			&s.Category,
			&s.CoverImageURL,
			&status,
			&s.EpisodeCount,
			&s.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan podcast: %w", err)
		}
		s.Status = model.Status(status)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate podcasts: %w", err)
	}

	return summaries, total, nil
}

func (r *postgresPodcastRepository) ExportPodcasts(ctx context.Context, filter model.PodcastFilter) ([]model.Podcast, error) {
	where := buildPodcastWhere(filter)
	query := `SELECT ` + podcastColumns + ` FROM podcasts` + where.SQL() + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to export podcasts: %w", err)
	}
	defer rows.Close()

	var podcasts []model.Podcast
	for rows.Next() {
		p, err := scanPodcast(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan podcast: %w", err)
		}
		podcasts = append(podcasts, *p)
	}
	return podcasts, rows.Err()
}

func buildPodcastWhere(filter model.PodcastFilter) *utils.WhereBuilder {
	where := &utils.WhereBuilder{}
	if filter.Status != "" {
		where.Add("status = ?", string(filter.Status))
	}
	if filter.Category != "" {
		where.Add("category = ?", filter.Category)
	}
	if filter.TitleQuery != "" {
		where.Add(`title ILIKE ? ESCAPE '\'`, "%"+utils.EscapeLike(filter.TitleQuery)+"%")
	}
	return where
}

// =====================================================
// EPISODES
// =====================================================

func (r *postgresPodcastRepository) ListEpisodesByPodcast(ctx context.Context, podcastID uuid.UUID) ([]model.Episode, error) {
	query := `SELECT ` + episodeColumns + ` FROM episodes WHERE podcast_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, podcastID)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	return collectEpisodes(rows)
}

func (r *postgresPodcastRepository) ListEpisodes(ctx context.Context, page model.Pagination) ([]model.Episode, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM episodes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count episodes: %w", err)
	}

	query := `SELECT ` + episodeColumns + ` FROM episodes ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list episodes: %w", err)
	}

	episodes, err := collectEpisodes(rows)
	if err != nil {
		return nil, 0, err
	}
	return episodes, total, nil
}

func (r *postgresPodcastRepository) GetEpisodeByID(ctx context.Context, id uuid.UUID) (*model.Episode, error) {
	query := `SELECT ` + episodeColumns + ` FROM episodes WHERE id = $1`

	e, err := scanEpisode(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewEpisodeNotFoundError()
		}
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}
	return e, nil
}

func (r *postgresPodcastRepository) KeysAwaitingPromotion(ctx context.Context, keys []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if len(keys) == 0 {
		return out, nil
	}

	query := `
		SELECT DISTINCT e.audio_key
		FROM episodes e
		JOIN podcasts p ON p.id = e.podcast_id
		WHERE e.audio_key = ANY($1) AND e.audio_url = '' AND p.status = $2
	`
	rows, err := r.pool.Query(ctx, query, keys, string(model.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to query referenced keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		out[key] = struct{}{}
	}
	return out, rows.Err()
}

// =====================================================
// TRANSACTIONS
// =====================================================

func (r *postgresPodcastRepository) WithTx(ctx context.Context, fn func(tx TxRepository) error) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{db: tx})
	})
}

type txRepository struct {
	db DBTX
}

func (t *txRepository) LockPodcast(ctx context.Context, id uuid.UUID) (*model.Podcast, error) {
	query := `SELECT ` + podcastColumns + ` FROM podcasts WHERE id = $1 FOR UPDATE`

	p, err := scanPodcast(t.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewPodcastNotFoundError()
		}
		return nil, fmt.Errorf("failed to lock podcast: %w", err)
	}
	return p, nil
}

func (t *txRepository) EpisodesInListOrder(ctx context.Context, podcastID uuid.UUID) ([]model.Episode, error) {
	query := `
		SELECT e.id, e.podcast_id, e.title, e.description, e.audio_key, e.audio_url,
			e.duration, e.published_at, e.play_count, e.created_at, e.updated_at
		FROM podcasts p
		CROSS JOIN LATERAL unnest(p.episode_ids) WITH ORDINALITY AS u(episode_id, ord)
		JOIN episodes e ON e.id = u.episode_id
		WHERE p.id = $1
		ORDER BY u.ord
	`
	rows, err := t.db.Query(ctx, query, podcastID)
	if err != nil {
		return nil, fmt.Errorf("failed to load episodes: %w", err)
	}
	return collectEpisodes(rows)
}

func (t *txRepository) SetEpisodeAudioURL(ctx context.Context, episodeID uuid.UUID, audioURL string, at time.Time) error {
	tag, err := t.db.Exec(ctx,
		`UPDATE episodes SET audio_url = $2, updated_at = $3 WHERE id = $1`,
		episodeID, audioURL, at,
	)
	if err != nil {
		return fmt.Errorf("failed to set audio url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewEpisodeNotFoundError()
	}
	return nil
}

func (t *txRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.Status, at time.Time) (bool, error) {
	tag, err := t.db.Exec(ctx,
		`UPDATE podcasts SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), at,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (t *txRepository) InsertEpisode(ctx context.Context, e *model.Episode) error {
	query := `
		INSERT INTO episodes (
			id, podcast_id, title, description, audio_key, audio_url,
			duration, published_at, play_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := t.db.Exec(ctx, query,
		e.ID,
		e.PodcastID,
		e.Title,
		e.Description,
		e.AudioKey,
		e.AudioURL,
		e.Duration,
		e.PublishedAt,
		e.PlayCount,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create episode: %w", err)
	}
	return nil
}

func (t *txRepository) AppendEpisode(ctx context.Context, podcastID, episodeID uuid.UUID, at time.Time) error {
	tag, err := t.db.Exec(ctx,
		`UPDATE podcasts SET episode_ids = array_append(episode_ids, $2), updated_at = $3 WHERE id = $1`,
		podcastID, episodeID, at,
	)
	if err != nil {
		return fmt.Errorf("failed to append episode: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewPodcastNotFoundError()
	}
	return nil
}

// =====================================================
// SCAN HELPERS
// =====================================================

func scanPodcast(row pgx.Row) (*model.Podcast, error) {
	var (
		p      model.Podcast
		status string
	)
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Author,
		&p.Category,
		&p.CoverImageURL,
		&p.EpisodeIDs,
		&p.FollowerIDs,
		&status,
		&p.SubmittedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = model.Status(status)
	if p.EpisodeIDs == nil {
		p.EpisodeIDs = []uuid.UUID{}
	}
	if p.FollowerIDs == nil {
		p.FollowerIDs = []uuid.UUID{}
	}
	return &p, nil
}

func scanEpisode(row pgx.Row) (*model.Episode, error) {
	var e model.Episode
	err := row.Scan(
		&e.ID,
		&e.PodcastID,
		&e.Title,
		&e.Description,
		&e.AudioKey,
		&e.AudioURL,
		&e.Duration,
		&e.PublishedAt,
		&e.PlayCount,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEpisodes(rows pgx.Rows) ([]model.Episode, error) {
	defer rows.Close()

	episodes := []model.Episode{}
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		episodes = append(episodes, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate episodes: %w", err)
	}
	return episodes, nil
}
