package feed

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/eduncan911/podcast"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcasthub-backend/internal/domains/podcast/model"
)

func approvedDetail() *model.PodcastDetail {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := model.Podcast{
		ID:          uuid.New(),
		Title:       "Tech Talks Daily",
		Description: "Daily conversations about software.",
		Author:      "Jane Host",
		Category:    model.CategoryTechnology,
		Status:      model.StatusApproved,
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
	}
	episodes := []model.Episode{
		{
			ID:          uuid.New(),
			Title:       "Pilot",
			AudioKey:    "pending/1_pilot.mp3",
			AudioURL:    "https://perm.s3.us-east-1.amazonaws.com/public/1_pilot.mp3",
			Duration:    125,
			PublishedAt: created,
		},
		{
			ID:          uuid.New(),
			Title:       "Unpromoted",
			AudioKey:    "pending/2_later.mp3",
			PublishedAt: created,
		},
	}
	return model.NewPodcastDetail(p, episodes)
}

func TestRender(t *testing.T) {
	detail := approvedDetail()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, detail, "https://api.example.com/"))
	out := buf.String()

	assert.Contains(t, out, "<title>Tech Talks Daily</title>")
	assert.Contains(t, out, "https://api.example.com/api/v1/podcasts/"+detail.ID.String())
	assert.Contains(t, out, `url="https://perm.s3.us-east-1.amazonaws.com/public/1_pilot.mp3"`)
	assert.Contains(t, out, "<itunes:author>Jane Host</itunes:author>")
	// Description falls back to the title
	assert.GreaterOrEqual(t, strings.Count(out, "Pilot"), 2)
	assert.NotContains(t, out, "Unpromoted")
}

func TestRender_NotApproved(t *testing.T) {
	for _, status := range []model.Status{model.StatusPending, model.StatusRejected} {
		detail := approvedDetail()
		detail.Status = status

		var buf bytes.Buffer
		assert.ErrorIs(t, Render(&buf, detail, "https://api.example.com"), ErrNotPublished)
		assert.Zero(t, buf.Len())
	}

	assert.ErrorIs(t, Render(&bytes.Buffer{}, nil, ""), ErrNotPublished)
}

func TestEnclosureType(t *testing.T) {
	assert.Equal(t, podcast.MP3, enclosureType("https://x/public/a.mp3"))
	assert.Equal(t, podcast.M4A, enclosureType("https://x/public/a.M4A"))
	assert.Equal(t, podcast.M4A, enclosureType("https://x/public/a.aac"))
	assert.Equal(t, podcast.MP3, enclosureType("https://x/public/a.ogg"))
}
