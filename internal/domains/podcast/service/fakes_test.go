package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/domains/podcast/repository"
	"podcasthub-backend/internal/infrastructure/storage"
	"podcasthub-backend/pkg/database"
)

// =====================================================
// IN-MEMORY REPOSITORY
// =====================================================

// fakeRepo applies transaction writes only when fn returns nil and the
// simulated commit succeeds.
type fakeRepo struct {
	mu        sync.Mutex
	podcasts  map[uuid.UUID]model.Podcast
	episodes  map[uuid.UUID]model.Episode
	commitErr error
	reads     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		podcasts: map[uuid.UUID]model.Podcast{},
		episodes: map[uuid.UUID]model.Episode{},
	}
}

func clonePodcast(p model.Podcast) model.Podcast {
	p.EpisodeIDs = append([]uuid.UUID{}, p.EpisodeIDs...)
	p.FollowerIDs = append([]uuid.UUID{}, p.FollowerIDs...)
	return p
}

func (r *fakeRepo) CreatePodcast(_ context.Context, p *model.Podcast) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.podcasts[p.ID] = clonePodcast(*p)
	return nil
}

func (r *fakeRepo) GetPodcastByID(_ context.Context, id uuid.UUID) (*model.Podcast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	p, ok := r.podcasts[id]
	if !ok {
		return nil, model.NewPodcastNotFoundError()
	}
	c := clonePodcast(p)
	return &c, nil
}

func (r *fakeRepo) filtered(filter model.PodcastFilter) []model.Podcast {
	var out []model.Podcast
	for _, p := range r.podcasts {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.TitleQuery != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.TitleQuery)) {
			continue
		}
		out = append(out, clonePodcast(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeRepo) ListPodcasts(_ context.Context, filter model.PodcastFilter, page model.Pagination) ([]model.PodcastSummary, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.filtered(filter)
	var docs []model.PodcastSummary
	for i := page.Offset(); i < len(all) && len(docs) < page.Limit; i++ {
		p := all[i]
		docs = append(docs, model.PodcastSummary{
			ID: p.ID, Title: p.Title, Author: p.Author, Description: p.Description,
			Category: p.Category, Status: p.Status, EpisodeCount: p.EpisodeCount(), CreatedAt: p.CreatedAt,
		})
	}
	return docs, len(all), nil
}

func (r *fakeRepo) ExportPodcasts(_ context.Context, filter model.PodcastFilter) ([]model.Podcast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filtered(filter), nil
}

func (r *fakeRepo) ListEpisodesByPodcast(_ context.Context, podcastID uuid.UUID) ([]model.Episode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Episode
	for _, e := range r.episodes {
		if e.PodcastID == podcastID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRepo) ListEpisodes(_ context.Context, page model.Pagination) ([]model.Episode, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Episode
	for _, e := range r.episodes {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	var docs []model.Episode
	for i := page.Offset(); i < len(all) && len(docs) < page.Limit; i++ {
		docs = append(docs, all[i])
	}
	return docs, len(all), nil
}

func (r *fakeRepo) GetEpisodeByID(_ context.Context, id uuid.UUID) (*model.Episode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.episodes[id]
	if !ok {
		return nil, model.NewEpisodeNotFoundError()
	}
	return &e, nil
}

// KeysAwaitingPromotion mirrors the SQL: unpromoted episodes of pending podcasts.
func (r *fakeRepo) KeysAwaitingPromotion(_ context.Context, keys []string) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		wanted[k] = struct{}{}
	}
	out := map[string]struct{}{}
	for _, e := range r.episodes {
		if _, ok := wanted[e.AudioKey]; !ok || e.AudioURL != "" {
			continue
		}
		if p, ok := r.podcasts[e.PodcastID]; ok && p.Status == model.StatusPending {
			out[e.AudioKey] = struct{}{}
		}
	}
	return out, nil
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(tx repository.TxRepository) error) error {
	r.mu.Lock()
	tx := &fakeTx{podcasts: map[uuid.UUID]model.Podcast{}, episodes: map[uuid.UUID]model.Episode{}}
	for id, p := range r.podcasts {
		tx.podcasts[id] = clonePodcast(p)
	}
	for id, e := range r.episodes {
		tx.episodes[id] = e
	}
	r.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}
	if r.commitErr != nil {
		return fmt.Errorf("%w: %w", database.ErrCommit, r.commitErr)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.podcasts = tx.podcasts
	r.episodes = tx.episodes
	return nil
}

// seed stores a podcast and its episodes directly, bypassing validation.
func (r *fakeRepo) seed(p model.Podcast, episodes ...model.Episode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range episodes {
		e.PodcastID = p.ID
		r.episodes[e.ID] = e
		p.EpisodeIDs = append(p.EpisodeIDs, e.ID)
	}
	r.podcasts[p.ID] = clonePodcast(p)
}

func (r *fakeRepo) podcast(id uuid.UUID) model.Podcast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.podcasts[id]
}

func (r *fakeRepo) episode(id uuid.UUID) model.Episode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.episodes[id]
}

type fakeTx struct {
	podcasts map[uuid.UUID]model.Podcast
	episodes map[uuid.UUID]model.Episode
}

func (t *fakeTx) LockPodcast(_ context.Context, id uuid.UUID) (*model.Podcast, error) {
	p, ok := t.podcasts[id]
	if !ok {
		return nil, model.NewPodcastNotFoundError()
	}
	c := clonePodcast(p)
	return &c, nil
}

func (t *fakeTx) EpisodesInListOrder(_ context.Context, podcastID uuid.UUID) ([]model.Episode, error) {
	p := t.podcasts[podcastID]
	out := make([]model.Episode, 0, len(p.EpisodeIDs))
	for _, id := range p.EpisodeIDs {
		out = append(out, t.episodes[id])
	}
	return out, nil
}

func (t *fakeTx) SetEpisodeAudioURL(_ context.Context, episodeID uuid.UUID, audioURL string, at time.Time) error {
	e, ok := t.episodes[episodeID]
	if !ok {
		return model.NewEpisodeNotFoundError()
	}
	e.AudioURL = audioURL
	e.UpdatedAt = at
	t.episodes[episodeID] = e
	return nil
}

func (t *fakeTx) TransitionStatus(_ context.Context, id uuid.UUID, from, to model.Status, at time.Time) (bool, error) {
	p, ok := t.podcasts[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	p.UpdatedAt = at
	t.podcasts[id] = p
	return true, nil
}

func (t *fakeTx) InsertEpisode(_ context.Context, e *model.Episode) error {
	t.episodes[e.ID] = *e
	return nil
}

func (t *fakeTx) AppendEpisode(_ context.Context, podcastID, episodeID uuid.UUID, at time.Time) error {
	p, ok := t.podcasts[podcastID]
	if !ok {
		return model.NewPodcastNotFoundError()
	}
	p.EpisodeIDs = append(p.EpisodeIDs, episodeID)
	p.UpdatedAt = at
	t.podcasts[podcastID] = p
	return nil
}

// =====================================================
// STORAGE / QUEUE / CACHE FAKES
// =====================================================

type fakePromoter struct {
	mu      sync.Mutex
	calls   []string
	failOn  map[string]error
	authErr error
}

func (f *fakePromoter) IssueUploadAuthorization(_ context.Context, filename, _ string) (*storage.UploadAuthorization, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	key := "pending/1700000000000_" + filename
	return &storage.UploadAuthorization{URL: "https://temp.s3.amazonaws.com/" + key + "?sig=1", Key: key}, nil
}

func (f *fakePromoter) PromoteToPermanent(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	if err, ok := f.failOn[key]; ok {
		return "", err
	}
	return "https://perm.s3.us-east-1.amazonaws.com/" + storage.PermanentKey(key), nil
}

func (f *fakePromoter) promoteCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	if raw, ok := c.data[key]; ok {
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, err
		}
	}
	n++
	raw, _ := json.Marshal(n)
	c.data[key] = raw
	return n, nil
}

func (c *memCache) Ping(_ context.Context) error { return nil }

// =====================================================
// BUILDERS
// =====================================================

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func pendingPodcast(title string, created time.Time) model.Podcast {
	return model.Podcast{
		ID:          uuid.New(),
		Title:       title,
		Description: "A podcast used in tests.",
		Author:      "Tester",
		Category:    model.CategoryTechnology,
		EpisodeIDs:  []uuid.UUID{},
		FollowerIDs: []uuid.UUID{},
		Status:      model.StatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func unpromotedEpisode(key string, created time.Time) model.Episode {
	return model.Episode{
		ID:          uuid.New(),
		Title:       "Episode " + key,
		AudioKey:    key,
		Duration:    60,
		PublishedAt: created,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}
