package feed

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/eduncan911/podcast"

	"podcasthub-backend/internal/domains/podcast/model"
)

// ErrNotPublished is returned for podcasts that are not approved.
var ErrNotPublished = errors.New("podcast is not published")

// Render writes the RSS 2.0 / iTunes feed of an approved podcast to w.
// Only promoted episodes (non-empty AudioURL) become items.
func Render(w io.Writer, detail *model.PodcastDetail, baseURL string) error {
	if detail == nil || detail.Status != model.StatusApproved {
		return ErrNotPublished
	}

	link := fmt.Sprintf("%s/api/v1/podcasts/%s", strings.TrimRight(baseURL, "/"), detail.ID)
	updated := detail.UpdatedAt

	p := podcast.New(detail.Title, link, detail.Description, &detail.CreatedAt, &updated)
	p.IAuthor = detail.Author
	p.AddSummary(detail.Description)
	p.AddCategory(detail.Category, nil)
	if detail.CoverImageURL != "" {
		p.AddImage(detail.CoverImageURL)
	}

	for _, e := range detail.Episodes {
		if e.AudioURL == "" {
			continue
		}

		// AddItem rejects items without a description
		description := e.Description
		if description == "" {
			description = e.Title
		}

		pubDate := e.PublishedAt
		item := podcast.Item{
			GUID:        e.ID.String(),
			Title:       e.Title,
			Description: description,
		}
		item.AddPubDate(&pubDate)
		item.AddDuration(int64(e.Duration))
		item.AddEnclosure(e.AudioURL, enclosureType(e.AudioURL), 0)

		if _, err := p.AddItem(item); err != nil {
			return fmt.Errorf("add episode %s to feed: %w", e.ID, err)
		}
	}

	if err := p.Encode(w); err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	return nil
}

// enclosureType picks the closest type the feed library knows.
func enclosureType(audioURL string) podcast.EnclosureType {
	switch strings.ToLower(path.Ext(audioURL)) {
	case ".m4a", ".aac":
		return podcast.M4A
	default:
		return podcast.MP3
	}
}
