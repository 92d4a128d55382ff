package model

import (
	"math"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreatePodcastRequest - POST /podcasts/request-upload
type CreatePodcastRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Author        string `json:"author"`
	Category      string `json:"category"`
	CoverImageURL string `json:"coverImageUrl"`
}

func (r CreatePodcastRequest) ToFields() PodcastFields {
	return PodcastFields{
		Title:         r.Title,
		Description:   r.Description,
		Author:        r.Author,
		Category:      r.Category,
		CoverImageURL: r.CoverImageURL,
	}
}

// AttachEpisodeRequest - POST /podcasts/:id/episodes
type AttachEpisodeRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AudioKey    string     `json:"audioKey"`
	Duration    int        `json:"duration"`
	PublishedAt *time.Time `json:"publishedAt"`
}

func (r AttachEpisodeRequest) ToFields() EpisodeFields {
	return EpisodeFields{
		Title:       r.Title,
		Description: r.Description,
		AudioKey:    r.AudioKey,
		Duration:    r.Duration,
		PublishedAt: r.PublishedAt,
	}
}

// UploadURLRequest - POST /episodes/upload-url
type UploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

func (r UploadURLRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Filename,
			validation.Required.Error("filename is required"),
			validation.RuneLength(1, 255),
			validation.By(func(v interface{}) error {
				if !IsAudioFile(v.(string)) {
					return validation.NewError("validation_audio_file", "filename must be an mp3, wav, m4a, aac, ogg or flac file")
				}
				return nil
			}),
		),
		validation.Field(&r.ContentType,
			validation.Required.Error("contentType is required"),
			validation.RuneLength(1, 127),
		),
	)
}

// UpdateStatusRequest - PATCH /podcasts/:id/status
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// ListPodcastsQuery - GET /podcasts
type ListPodcastsQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
}

// SearchPodcastsQuery - GET /podcasts/search/filter
type SearchPodcastsQuery struct {
	Query    string `form:"query"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// ListEpisodesQuery - GET /episodes
type ListEpisodesQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// =====================================================
// QUERY OBJECTS (service -> repository)
// =====================================================

// Pagination is a normalised page request.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination applies defaults (page 1, limit 10) and caps limit at 100.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PodcastFilter narrows list and search queries. Zero values mean "no filter".
type PodcastFilter struct {
	TitleQuery string
	Category   string
	Status     Status
}

// NewSearchFilter trims the query and drops the "All" category sentinel.
// Any other category, known or not, is matched exactly.
func NewSearchFilter(query, category string) PodcastFilter {
	if category == CategoryAll {
		category = ""
	}
	return PodcastFilter{
		TitleQuery: strings.TrimSpace(query),
		Category:   category,
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// Page is one page of results plus totals.
type Page[T any] struct {
	Docs        []T `json:"docs"`
	TotalDocs   int `json:"totalDocs"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
}

func NewPage[T any](docs []T, total int, p Pagination) Page[T] {
	if docs == nil {
		docs = []T{}
	}
	return Page[T]{
		Docs:        docs,
		TotalDocs:   total,
		TotalPages:  int(math.Ceil(float64(total) / float64(p.Limit))),
		CurrentPage: p.Page,
	}
}

// SubmitPodcastResponse is the minimal projection returned on submit.
type SubmitPodcastResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// PodcastSummary is the list/search projection.
type PodcastSummary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	Status        Status    `json:"status"`
	EpisodeCount  int       `json:"episodeCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PodcastDetail is a podcast with its episodes resolved (newest first).
type PodcastDetail struct {
	Podcast
	EpisodeCount  int             `json:"episodeCount"`
	FollowerCount int             `json:"followerCount"`
	Episodes      []EpisodeDetail `json:"episodes"`
}

// EpisodeDetail adds derived fields to Episode.
type EpisodeDetail struct {
	Episode
	FormattedDuration string `json:"formattedDuration"`
}

func NewEpisodeDetail(e Episode) EpisodeDetail {
	return EpisodeDetail{Episode: e, FormattedDuration: e.FormattedDuration()}
}

func NewPodcastDetail(p Podcast, episodes []Episode) *PodcastDetail {
	details := make([]EpisodeDetail, 0, len(episodes))
	for _, e := range episodes {
		details = append(details, NewEpisodeDetail(e))
	}
	return &PodcastDetail{
		Podcast:       p,
		EpisodeCount:  p.EpisodeCount(),
		FollowerCount: p.FollowerCount(),
		Episodes:      details,
	}
}

// StatusChangeResult is returned by the approval coordinator.
type StatusChangeResult struct {
	ID               uuid.UUID `json:"id"`
	Status           Status    `json:"status"`
	PromotedEpisodes int       `json:"promotedEpisodes"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
