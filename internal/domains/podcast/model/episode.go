package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var audioKeyPattern = regexp.MustCompile(`(?i)\.(mp3|wav|m4a|aac|ogg|flac)$`)

// Episode is created under a pending podcast with AudioKey pointing at the
// temporary bucket. AudioURL stays empty until the podcast is approved.
type Episode struct {
	ID          uuid.UUID `json:"id"`
	PodcastID   uuid.UUID `json:"podcastId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AudioKey    string    `json:"audioKey"`
	AudioURL    string    `json:"audioUrl,omitempty"`
	Duration    int       `json:"duration"` // seconds
	PublishedAt time.Time `json:"publishedAt"`
	PlayCount   int64     `json:"playCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type EpisodeFields struct {
	Title       string
	Description string
	AudioKey    string
	Duration    int
	PublishedAt *time.Time
}

// NewEpisode validates fields and returns an unpromoted episode of podcastID.
func NewEpisode(podcastID uuid.UUID, fields EpisodeFields, now time.Time) (*Episode, error) {
	e := &Episode{
		ID:          uuid.New(),
		PodcastID:   podcastID,
		Title:       strings.TrimSpace(fields.Title),
		Description: strings.TrimSpace(fields.Description),
		AudioKey:    strings.TrimSpace(fields.AudioKey),
		Duration:    fields.Duration,
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if fields.PublishedAt != nil {
		e.PublishedAt = *fields.PublishedAt
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Episode) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(MinTitleLength, MaxEpisodeTitleLength).Error("title must be 3-300 characters"),
		),
		validation.Field(&e.Description,
			validation.RuneLength(0, MaxEpisodeDescriptionLength).Error("description must not exceed 2000 characters"),
		),
		validation.Field(&e.AudioKey,
			validation.Required.Error("audio key is required"),
			validation.Match(audioKeyPattern).Error("audio key must be an mp3, wav, m4a, aac, ogg or flac file"),
		),
		validation.Field(&e.AudioURL,
			validation.Match(httpURLPattern).Error("audio URL must be a valid http(s) URL"),
		),
		validation.Field(&e.Duration,
			validation.Min(0).Error("duration must not be negative"),
			validation.Max(MaxDurationSeconds).Error("duration must not exceed 86400 seconds"),
		),
		validation.Field(&e.PlayCount,
			validation.Min(int64(0)).Error("play count must not be negative"),
		),
	)
}

// NeedsPromotion reports whether approval has to copy this episode's audio.
func (e *Episode) NeedsPromotion() bool {
	return e.AudioKey != ""
}

// Promote records the permanent address of the audio.
func (e *Episode) Promote(audioURL string, now time.Time) error {
	if !httpURLPattern.MatchString(audioURL) {
		return fmt.Errorf("invalid audio URL %q", audioURL)
	}
	e.AudioURL = audioURL
	e.UpdatedAt = now
	return nil
}

// FormattedDuration renders Duration as h:mm:ss, or m:ss under an hour.
func (e *Episode) FormattedDuration() string {
	h := e.Duration / 3600
	m := (e.Duration % 3600) / 60
	s := e.Duration % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// IsAudioFile reports whether name has one of the accepted audio extensions.
func IsAudioFile(name string) bool {
	return audioKeyPattern.MatchString(name)
}
