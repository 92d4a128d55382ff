package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var httpURLPattern = regexp.MustCompile(`^https?://.+`)

// Podcast represents a submitted show. EpisodeIDs is owned by the podcast and
// keeps attachment order.
type Podcast struct {
	ID            uuid.UUID   `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Author        string      `json:"author"`
	Category      string      `json:"category"`
	CoverImageURL string      `json:"coverImageUrl,omitempty"`
	EpisodeIDs    []uuid.UUID `json:"episodeIds"`
	FollowerIDs   []uuid.UUID `json:"followerIds"`
	Status        Status      `json:"status"`
	SubmittedBy   *uuid.UUID  `json:"submittedBy,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PodcastFields là input do caller cung cấp khi submit
type PodcastFields struct {
	Title         string
	Description   string
	Author        string
	Category      string
	CoverImageURL string
}

// NewPodcast builds a pending podcast with an empty episode list.
// Text fields are trimmed and category defaults to Other.
func NewPodcast(fields PodcastFields, submittedBy *uuid.UUID, now time.Time) (*Podcast, error) {
	p := &Podcast{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(fields.Title),
		Description:   strings.TrimSpace(fields.Description),
		Author:        strings.TrimSpace(fields.Author),
		Category:      strings.TrimSpace(fields.Category),
		CoverImageURL: strings.TrimSpace(fields.CoverImageURL),
		EpisodeIDs:    []uuid.UUID{},
		FollowerIDs:   []uuid.UUID{},
		Status:        StatusPending,
		SubmittedBy:   submittedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.Category == "" {
		p.Category = CategoryOther
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Podcast) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(MinTitleLength, MaxTitleLength).Error("title must be 3-200 characters"),
		),
		validation.Field(&p.Description,
			validation.Required.Error("description is required"),
			validation.RuneLength(MinDescriptionLength, MaxDescriptionLength).Error("description must be 10-2000 characters"),
		),
		validation.Field(&p.Author,
			validation.Required.Error("author is required"),
			validation.RuneLength(MinAuthorLength, MaxAuthorLength).Error("author must be 2-100 characters"),
		),
		validation.Field(&p.Category,
			validation.In(categoryValues()...).Error("category must be one of "+strings.Join(Categories, ", ")),
		),
		validation.Field(&p.CoverImageURL,
			validation.Match(httpURLPattern).Error("cover image must be a valid http(s) URL"),
		),
		validation.Field(&p.Status,
			validation.By(func(v interface{}) error {
				if s, _ := v.(Status); !s.IsValid() {
					return validation.NewError("validation_status", "invalid status")
				}
				return nil
			}),
		),
	)
}

func (p *Podcast) EpisodeCount() int  { return len(p.EpisodeIDs) }
func (p *Podcast) FollowerCount() int { return len(p.FollowerIDs) }

func categoryValues() []interface{} {
	out := make([]interface{}, len(Categories))
	for i, c := range Categories {
		out[i] = c
	}
	return out
}
