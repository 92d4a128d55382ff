package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/shared/middleware"
	"podcasthub-backend/internal/shared/response"
)

// RequestUploadURL issues a presigned PUT for one audio file
// POST /api/v1/episodes/upload-url
// Response data: {url, key}; the client uploads to url then attaches key.
func (h *Handler) RequestUploadURL(c *gin.Context) {
	var req model.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, "Invalid request body")
		return
	}

	auth, err := h.catalog.RequestUploadAuthorization(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, auth)
}

// AttachEpisode - POST /api/v1/podcasts/:id/episodes
func (h *Handler) AttachEpisode(c *gin.Context) {
	podcastID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.AttachEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, "Invalid request body")
		return
	}

	episode, err := h.catalog.AttachEpisode(c.Request.Context(), middleware.CurrentIdentity(c), podcastID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Episode attached", episode)
}

// ListEpisodes - GET /api/v1/episodes?page=&limit=
func (h *Handler) ListEpisodes(c *gin.Context) {
	var q model.ListEpisodesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, "Invalid query parameters")
		return
	}

	page, err := h.catalog.ListEpisodes(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, episodeListResponse{
		Episodes:      page.Docs,
		TotalEpisodes: page.TotalDocs,
		TotalPages:    page.TotalPages,
		CurrentPage:   page.CurrentPage,
	})
}

// GetEpisode - GET /api/v1/episodes/:id
func (h *Handler) GetEpisode(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	episode, err := h.catalog.GetEpisode(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, episode)
}
