package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"podcasthub-backend/internal/domains/podcast/feed"
	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/shared/middleware"
	"podcasthub-backend/internal/shared/response"
)

// SubmitPodcast creates a pending podcast
// POST /api/v1/podcasts/request-upload
func (h *Handler) SubmitPodcast(c *gin.Context) {
	var req model.CreatePodcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.catalog.SubmitPodcast(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Podcast submitted for review", result)
}

// ListPodcasts - GET /api/v1/podcasts?page=&limit=&status=
func (h *Handler) ListPodcasts(c *gin.Context) {
	var q model.ListPodcastsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, "Invalid query parameters")
		return
	}

	page, err := h.catalog.ListPodcasts(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, podcastListResponse{
		Podcasts:      page.Docs,
		TotalPodcasts: page.TotalDocs,
		TotalPages:    page.TotalPages,
		CurrentPage:   page.CurrentPage,
	})
}

// GetPodcast - GET /api/v1/podcasts/:id
func (h *Handler) GetPodcast(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.catalog.GetPodcast(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// SearchPodcasts - GET /api/v1/podcasts/search/filter?query=&category=&page=&limit=
func (h *Handler) SearchPodcasts(c *gin.Context) {
	var q model.SearchPodcastsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, "Invalid query parameters")
		return
	}

	page, err := h.catalog.SearchPodcasts(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, podcastSearchResponse{
		Podcasts:     page.Docs,
		TotalResults: page.TotalDocs,
		TotalPages:   page.TotalPages,
		CurrentPage:  page.CurrentPage,
	})
}

// Feed renders the RSS feed of an approved podcast
// GET /api/v1/podcasts/:id/feed.xml
func (h *Handler) Feed(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.catalog.GetPodcast(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := feed.Render(&buf, detail, h.baseURL); err != nil {
		if errors.Is(err, feed.ErrNotPublished) {
			respondError(c, model.NewPodcastNotFoundError())
			return
		}
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", buf.Bytes())
}

// ListCategories returns the fixed category list used by the submission form
// GET /api/v1/categories
func (h *Handler) ListCategories(c *gin.Context) {
	response.Success(c, http.StatusOK, model.Categories)
}
