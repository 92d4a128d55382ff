package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func validPodcastFields() PodcastFields {
	return PodcastFields{
		Title:       "Tech Talks Daily",
		Description: "Daily conversations about technology.",
		Author:      "Jane Doe",
	}
}

func TestNewPodcast_Defaults(t *testing.T) {
	p, err := NewPodcast(validPodcastFields(), nil, now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, CategoryOther, p.Category)
	assert.Empty(t, p.EpisodeIDs)
	assert.NotNil(t, p.EpisodeIDs)
	assert.Equal(t, now, p.CreatedAt)
	assert.NotEqual(t, uuid.Nil, p.ID)
}

func TestNewPodcast_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PodcastFields)
	}{
		{"short title", func(f *PodcastFields) { f.Title = "ab" }},
		{"long title", func(f *PodcastFields) { f.Title = strings.Repeat("a", 201) }},
		{"short description", func(f *PodcastFields) { f.Description = "too short" }},
		{"missing author", func(f *PodcastFields) { f.Author = "  " }},
		{"unknown category", func(f *PodcastFields) { f.Category = "Sports" }},
		{"bad cover url", func(f *PodcastFields) { f.CoverImageURL = "ftp://x/y.png" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validPodcastFields()
			tt.mutate(&f)
			_, err := NewPodcast(f, nil, now)
			assert.Error(t, err)
		})
	}
}

func TestNewPodcast_TrimsTitle(t *testing.T) {
	f := validPodcastFields()
	f.Title = "   Go Time   "
	f.Category = CategoryTechnology

	p, err := NewPodcast(f, nil, now)
	require.NoError(t, err)
	assert.Equal(t, "Go Time", p.Title)
	assert.Equal(t, CategoryTechnology, p.Category)
}

func TestNewEpisode(t *testing.T) {
	podcastID := uuid.New()

	e, err := NewEpisode(podcastID, EpisodeFields{
		Title:    "Pilot",
		AudioKey: "pending/1700000000000_pilot.MP3",
		Duration: 3725,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, podcastID, e.PodcastID)
	assert.Empty(t, e.AudioURL)
	assert.True(t, e.NeedsPromotion())
	assert.Equal(t, now, e.PublishedAt)
	assert.Equal(t, "1:02:05", e.FormattedDuration())
}

func TestNewEpisode_Validation(t *testing.T) {
	base := EpisodeFields{Title: "Pilot", AudioKey: "pending/1_a.mp3"}

	cases := map[string]EpisodeFields{
		"missing audio key": {Title: "Pilot"},
		"not audio":         {Title: "Pilot", AudioKey: "pending/1_a.txt"},
		"negative duration": {Title: base.Title, AudioKey: base.AudioKey, Duration: -1},
		"too long":          {Title: base.Title, AudioKey: base.AudioKey, Duration: 86401},
		"short title":       {Title: "ab", AudioKey: base.AudioKey},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewEpisode(uuid.New(), fields, now)
			assert.Error(t, err)
		})
	}
}

func TestEpisode_Promote(t *testing.T) {
	e, err := NewEpisode(uuid.New(), EpisodeFields{Title: "Pilot", AudioKey: "pending/1_a.mp3"}, now)
	require.NoError(t, err)

	assert.Error(t, e.Promote("not a url", now))
	assert.Empty(t, e.AudioURL)

	later := now.Add(time.Hour)
	require.NoError(t, e.Promote("https://perm.s3.us-east-1.amazonaws.com/public/1_a.mp3", later))
	assert.Equal(t, "https://perm.s3.us-east-1.amazonaws.com/public/1_a.mp3", e.AudioURL)
	assert.Equal(t, later, e.UpdatedAt)
	assert.NoError(t, e.Validate())
}

func TestFormattedDuration_UnderAnHour(t *testing.T) {
	e := Episode{Duration: 125}
	assert.Equal(t, "2:05", e.FormattedDuration())
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 10}, NewPagination(0, 0))
	assert.Equal(t, Pagination{Page: 3, Limit: 100}, NewPagination(3, 500))
	assert.Equal(t, 20, NewPagination(3, 10).Offset())
}

func TestNewPage_TotalPages(t *testing.T) {
	docs := make([]int, 10)
	page := NewPage(docs, 25, NewPagination(1, 10))

	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Docs, 10)

	empty := NewPage[int](nil, 0, NewPagination(1, 10))
	assert.Equal(t, 0, empty.TotalPages)
	assert.NotNil(t, empty.Docs)
}

func TestNewSearchFilter_AllSentinel(t *testing.T) {
	assert.Equal(t, "", NewSearchFilter("Tech", "All").Category)
	assert.Equal(t, "all", NewSearchFilter("Tech", "all").Category)
	assert.Equal(t, "Sports", NewSearchFilter("Tech", "Sports").Category)
	assert.Equal(t, "Business", NewSearchFilter(" Tech ", "Business").Category)
	assert.Equal(t, "Tech", NewSearchFilter(" Tech ", "").TitleQuery)
}

func TestUploadURLRequest_Validate(t *testing.T) {
	assert.NoError(t, UploadURLRequest{Filename: "ep.mp3", ContentType: "audio/mpeg"}.Validate())
	assert.Error(t, UploadURLRequest{Filename: "", ContentType: "audio/mpeg"}.Validate())
	assert.Error(t, UploadURLRequest{Filename: "ep.exe", ContentType: "audio/mpeg"}.Validate())
	assert.Error(t, UploadURLRequest{Filename: "ep.mp3"}.Validate())
}

func TestPodcastError_Is(t *testing.T) {
	cause := errors.New("copy failed")
	err := error(NewStorageError("promotion failed", cause))

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)

	var pe *PodcastError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrCodeStorage, pe.Code)
}
