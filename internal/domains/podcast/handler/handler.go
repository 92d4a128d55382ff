package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/domains/podcast/service"
	"podcasthub-backend/internal/shared/middleware"
	"podcasthub-backend/internal/shared/response"
)

// =====================================================
// PODCAST HANDLER
// =====================================================

type Handler struct {
	catalog  service.CatalogService
	approval service.ApprovalService
	export   service.ExportService
	baseURL  string // public API base, used as the feed link
}

func NewHandler(
	catalog service.CatalogService,
	approval service.ApprovalService,
	export service.ExportService,
	baseURL string,
) *Handler {
	return &Handler{
		catalog:  catalog,
		approval: approval,
		export:   export,
		baseURL:  baseURL,
	}
}

// =====================================================
// RESPONSE SHAPES
// =====================================================

type podcastListResponse struct {
	Podcasts      []model.PodcastSummary `json:"podcasts"`
	TotalPodcasts int                    `json:"totalPodcasts"`
	TotalPages    int                    `json:"totalPages"`
	CurrentPage   int                    `json:"currentPage"`
}

type podcastSearchResponse struct {
	Podcasts     []model.PodcastSummary `json:"podcasts"`
	TotalResults int                    `json:"totalResults"`
	TotalPages   int                    `json:"totalPages"`
	CurrentPage  int                    `json:"currentPage"`
}

type episodeListResponse struct {
	Episodes      []model.EpisodeDetail `json:"episodes"`
	TotalEpisodes int                   `json:"totalEpisodes"`
	TotalPages    int                   `json:"totalPages"`
	CurrentPage   int                   `json:"currentPage"`
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// parseID reads a UUID path parameter; on failure it writes 400 and returns false.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind error) int {
	switch {
	case errors.Is(kind, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(kind, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, model.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Causes are logged, never returned.
func respondError(c *gin.Context, err error) {
	requestID := c.GetString(middleware.ContextRequestID)

	var pe *model.PodcastError
	if !errors.As(err, &pe) {
		log.Error().Err(err).Str("request_id", requestID).Str("path", c.FullPath()).Msg("unhandled error")
		response.InternalServerError(c, "Internal server error")
		return
	}

	status := statusFor(pe.Err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", requestID).Str("code", pe.Code).Msg("request failed")
	}
	response.ErrorResponse(c, status, pe.Code, pe.Message)
}
