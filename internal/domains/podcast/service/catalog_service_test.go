package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/infrastructure/storage"
)

func newCatalogFixture() (*fakeRepo, *fakePromoter, *memCache, CatalogService) {
	repo := newFakeRepo()
	promoter := &fakePromoter{failOn: map[string]error{}}
	c := newMemCache()
	svc := NewCatalogService(repo, promoter, c)
	svc.(*catalogService).now = func() time.Time { return baseTime }
	return repo, promoter, c, svc
}

func validPodcastRequest() model.CreatePodcastRequest {
	return model.CreatePodcastRequest{
		Title:       "  Tech Talks Daily ",
		Description: "Daily conversations about software.",
		Author:      "Jane Host",
		Category:    model.CategoryTechnology,
	}
}

// =====================================================
// UPLOAD AUTHORIZATION
// =====================================================

func TestRequestUploadAuthorization(t *testing.T) {
	t.Run("issues url and key", func(t *testing.T) {
		_, _, _, svc := newCatalogFixture()

		auth, err := svc.RequestUploadAuthorization(context.Background(), user,
			model.UploadURLRequest{Filename: "ep1.mp3", ContentType: "audio/mpeg"})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(auth.Key, storage.TempPrefix))
		assert.Contains(t, auth.URL, auth.Key)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		_, _, _, svc := newCatalogFixture()
		_, err := svc.RequestUploadAuthorization(context.Background(), nil,
			model.UploadURLRequest{Filename: "ep1.mp3", ContentType: "audio/mpeg"})
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("missing content type", func(t *testing.T) {
		_, _, _, svc := newCatalogFixture()
		_, err := svc.RequestUploadAuthorization(context.Background(), user,
			model.UploadURLRequest{Filename: "ep1.mp3"})
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("storage not configured", func(t *testing.T) {
		_, promoter, _, svc := newCatalogFixture()
		promoter.authErr = storage.ErrNotConfigured
		_, err := svc.RequestUploadAuthorization(context.Background(), user,
			model.UploadURLRequest{Filename: "ep1.mp3", ContentType: "audio/mpeg"})
		assert.ErrorIs(t, err, model.ErrInternal)
	})

	t.Run("signing failure", func(t *testing.T) {
		_, promoter, _, svc := newCatalogFixture()
		promoter.authErr = errors.New("SignatureDoesNotMatch")
		_, err := svc.RequestUploadAuthorization(context.Background(), user,
			model.UploadURLRequest{Filename: "ep1.mp3", ContentType: "audio/mpeg"})
		assert.ErrorIs(t, err, model.ErrStorage)
	})
}

// =====================================================
// SUBMIT
// =====================================================

func TestSubmitPodcast(t *testing.T) {
	repo, _, _, svc := newCatalogFixture()

	res, err := svc.SubmitPodcast(context.Background(), user, validPodcastRequest())
	require.NoError(t, err)

	assert.Equal(t, "Tech Talks Daily", res.Title)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, baseTime, res.CreatedAt)

	stored := repo.podcast(res.ID)
	assert.Empty(t, stored.EpisodeIDs)
	require.NotNil(t, stored.SubmittedBy)
	assert.Equal(t, user.ID, *stored.SubmittedBy)
}

func TestSubmitPodcast_Errors(t *testing.T) {
	_, _, _, svc := newCatalogFixture()

	_, err := svc.SubmitPodcast(context.Background(), nil, validPodcastRequest())
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	req := validPodcastRequest()
	req.Title = "ab"
	_, err = svc.SubmitPodcast(context.Background(), user, req)
	assert.ErrorIs(t, err, model.ErrValidation)

	req = validPodcastRequest()
	req.Category = "Cooking"
	_, err = svc.SubmitPodcast(context.Background(), user, req)
	assert.ErrorIs(t, err, model.ErrValidation)
}

// =====================================================
// ATTACH EPISODE
// =====================================================

func TestAttachEpisode(t *testing.T) {
	repo, _, c, svc := newCatalogFixture()
	p := pendingPodcast("Show", baseTime)
	repo.seed(p)
	require.NoError(t, c.Set(context.Background(), podcastDetailKey(p.ID, 0), model.NewPodcastDetail(p, nil), 0))

	first, err := svc.AttachEpisode(context.Background(), user, p.ID, model.AttachEpisodeRequest{
		Title: "Pilot", AudioKey: "pending/1_pilot.mp3", Duration: 3725,
	})
	require.NoError(t, err)
	second, err := svc.AttachEpisode(context.Background(), user, p.ID, model.AttachEpisodeRequest{
		Title: "Second", AudioKey: "pending/2_second.mp3", Duration: 90,
	})
	require.NoError(t, err)

	assert.Equal(t, "1:02:05", first.FormattedDuration)
	assert.Empty(t, first.AudioURL)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, repo.podcast(p.ID).EpisodeIDs)
	assert.Equal(t, p.ID, repo.episode(second.ID).PodcastID)

	detail, err := svc.GetPodcast(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.EpisodeCount)
}

func TestAttachEpisode_Errors(t *testing.T) {
	repo, _, _, svc := newCatalogFixture()
	pending := pendingPodcast("Pending", baseTime)
	approved := pendingPodcast("Approved", baseTime)
	approved.Status = model.StatusApproved
	repo.seed(pending)
	repo.seed(approved)

	valid := model.AttachEpisodeRequest{Title: "Pilot", AudioKey: "pending/1_pilot.mp3"}

	tests := []struct {
		name      string
		podcastID uuid.UUID
		req       model.AttachEpisodeRequest
		anonymous bool
		wantErr   error
	}{
		{"anonymous", pending.ID, valid, true, model.ErrUnauthorized},
		{"unknown podcast", uuid.New(), valid, false, model.ErrNotFound},
		{"podcast already approved", approved.ID, valid, false, model.ErrConflict},
		{"not an audio key", pending.ID, model.AttachEpisodeRequest{Title: "Pilot", AudioKey: "pending/1_x.pdf"}, false, model.ErrValidation},
		{"negative duration", pending.ID, model.AttachEpisodeRequest{Title: "Pilot", AudioKey: "pending/1_x.mp3", Duration: -1}, false, model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := user
			if tt.anonymous {
				caller = nil
			}
			_, err := svc.AttachEpisode(context.Background(), caller, tt.podcastID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, repo.podcast(pending.ID).EpisodeIDs)
	assert.Empty(t, repo.podcast(approved.ID).EpisodeIDs)
}

// =====================================================
// QUERIES
// =====================================================

func TestListPodcasts_Pagination(t *testing.T) {
	repo, _, _, svc := newCatalogFixture()
	for i := 0; i < 25; i++ {
		repo.seed(pendingPodcast(fmt.Sprintf("Podcast %02d", i), baseTime.Add(time.Duration(i)*time.Minute)))
	}

	page, err := svc.ListPodcasts(context.Background(), model.ListPodcastsQuery{Page: 3, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 25, page.TotalDocs)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)
	require.Len(t, page.Docs, 5)
	// Newest first: page 3 holds the five oldest
	assert.Equal(t, "Podcast 04", page.Docs[0].Title)
	assert.Equal(t, "Podcast 00", page.Docs[4].Title)
}

func TestListPodcasts_FirstPageOfTwentyFive(t *testing.T) {
	repo, _, _, svc := newCatalogFixture()
	for i := 0; i < 25; i++ {
		repo.seed(pendingPodcast(fmt.Sprintf("Podcast %02d", i), baseTime.Add(time.Duration(i)*time.Minute)))
	}

	page, err := svc.ListPodcasts(context.Background(), model.ListPodcastsQuery{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 25, page.TotalDocs)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Docs, 10)
	assert.Equal(t, "Podcast 24", page.Docs[0].Title)
	assert.Equal(t, "Podcast 15", page.Docs[9].Title)
}

func TestListPodcasts_Defaults(t *testing.T) {
	repo, _, _, svc := newCatalogFixture()
	for i := 0; i < 12; i++ {
		repo.seed(pendingPodcast(fmt.Sprintf("Podcast %02d", i), baseTime.Add(time.Duration(i)*time.Second)))
	}

	page, err := svc.ListPodcasts(context.Background(), model.ListPodcastsQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Docs, 10)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListPodcasts_StatusFilter(t *testing.T) {
	repo, _, _, svc := newCatalogFixture()
	approved := pendingPodcast("Approved show", baseTime)
	approved.Status = model.StatusApproved
	repo.seed(approved)
	repo.seed(pendingPodcast("Pending show", baseTime))

	page, err := svc.ListPodcasts(context.Background(), model.ListPodcastsQuery{Status: "approved"})
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, approved.ID, page.Docs[0].ID)

	_, err = svc.ListPodcasts(context.Background(), model.ListPodcastsQuery{Status: "published"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestListPodcasts_Empty(t *testing.T) {
	_, _, _, svc := newCatalogFixture()
	page, err := svc.ListPodcasts(context.Background(), model.ListPodcastsQuery{})
	require.NoError(t, err)
	assert.NotNil(t, page.Docs)
	assert.Empty(t, page.Docs)
	assert.Equal(t, 0, page.TotalPages)
}

func TestSearchPodcasts(t *testing.T) {
	repo, _, _, svc := newCatalogFixture()
	tech := pendingPodcast("Tech Talks", baseTime)
	health := pendingPodcast("Healthy Tech Habits", baseTime.Add(time.Minute))
	health.Category = model.CategoryHealth
	repo.seed(tech)
	repo.seed(health)
	repo.seed(pendingPodcast("Cooking Hour", baseTime))

	t.Run("title case-insensitive", func(t *testing.T) {
		page, err := svc.SearchPodcasts(context.Background(), model.SearchPodcastsQuery{Query: "tech"})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalDocs)
	})

	t.Run("category narrows", func(t *testing.T) {
		page, err := svc.SearchPodcasts(context.Background(), model.SearchPodcastsQuery{Query: "Tech", Category: model.CategoryTechnology})
		require.NoError(t, err)
		require.Len(t, page.Docs, 1)
		assert.Equal(t, tech.ID, page.Docs[0].ID)
	})

	t.Run("All disables category", func(t *testing.T) {
		page, err := svc.SearchPodcasts(context.Background(), model.SearchPodcastsQuery{Query: "Tech", Category: "All"})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalDocs)
	})

	t.Run("unknown category matches nothing", func(t *testing.T) {
		page, err := svc.SearchPodcasts(context.Background(), model.SearchPodcastsQuery{Category: "Cooking"})
		require.NoError(t, err)
		assert.Empty(t, page.Docs)
		assert.Equal(t, 0, page.TotalDocs)
		assert.Equal(t, 0, page.TotalPages)
	})

	t.Run("sentinel is case-sensitive", func(t *testing.T) {
		page, err := svc.SearchPodcasts(context.Background(), model.SearchPodcastsQuery{Query: "Tech", Category: "all"})
		require.NoError(t, err)
		assert.Equal(t, 0, page.TotalDocs)
	})
}

func TestGetPodcast_ReadThroughCache(t *testing.T) {
	repo, _, c, svc := newCatalogFixture()
	p := pendingPodcast("Show", baseTime)
	older := unpromotedEpisode("pending/1_a.mp3", baseTime)
	newer := unpromotedEpisode("pending/2_b.mp3", baseTime.Add(time.Hour))
	repo.seed(p, older, newer)

	detail, err := svc.GetPodcast(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.EpisodeCount)
	require.Len(t, detail.Episodes, 2)
	assert.Equal(t, newer.ID, detail.Episodes[0].ID)
	assert.Equal(t, "1:00", detail.Episodes[0].FormattedDuration)

	again, err := svc.GetPodcast(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, detail.ID, again.ID)
	assert.Equal(t, 1, repo.reads, "second read should be served from cache")
	assert.Equal(t, 1, c.sets)
}

func TestGetPodcast_LateWriteAfterInvalidationIsNotServed(t *testing.T) {
	repo, _, c, svc := newCatalogFixture()
	p := pendingPodcast("Show", baseTime)
	repo.seed(p)
	ctx := context.Background()

	// A reader resolves its key and loads the pending podcast...
	staleKey, ok := currentDetailKey(ctx, c, p.ID)
	require.True(t, ok)
	stale := model.NewPodcastDetail(repo.podcast(p.ID), nil)

	// ...an approval commits and invalidates...
	approved := repo.podcast(p.ID)
	approved.Status = model.StatusApproved
	repo.seed(approved)
	invalidatePodcast(ctx, c, p.ID)

	// ...then the reader's cache write lands.
	require.NoError(t, c.Set(ctx, staleKey, stale, podcastDetailTTL))

	detail, err := svc.GetPodcast(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, detail.Status)
}

func TestGetPodcast_NotFound(t *testing.T) {
	_, _, c, svc := newCatalogFixture()
	_, err := svc.GetPodcast(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 0, c.sets)
}

func TestEpisodes(t *testing.T) {
	repo, _, _, svc := newCatalogFixture()
	p := pendingPodcast("Show", baseTime)
	episodes := make([]model.Episode, 0, 15)
	for i := 0; i < 15; i++ {
		episodes = append(episodes, unpromotedEpisode(fmt.Sprintf("pending/%d.mp3", i), baseTime.Add(time.Duration(i)*time.Minute)))
	}
	repo.seed(p, episodes...)

	page, err := svc.ListEpisodes(context.Background(), model.ListEpisodesQuery{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 15, page.TotalDocs)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Docs, 5)

	got, err := svc.GetEpisode(context.Background(), episodes[3].ID)
	require.NoError(t, err)
	assert.Equal(t, episodes[3].AudioKey, got.AudioKey)

	_, err = svc.GetEpisode(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}
