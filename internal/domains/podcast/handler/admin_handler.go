package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"podcasthub-backend/internal/domains/podcast/model"
	"podcasthub-backend/internal/shared/middleware"
	"podcasthub-backend/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// UpdateStatus approves or rejects a pending podcast
// PATCH /api/v1/podcasts/:id/status
// Body: {"status": "approved" | "rejected"}
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.approval.UpdateStatus(c.Request.Context(), middleware.CurrentIdentity(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, fmt.Sprintf("Podcast %s", result.Status), result)
}

// ExportPodcasts - GET /api/v1/admin/podcasts/export?status=
func (h *Handler) ExportPodcasts(c *gin.Context) {
	buf, err := h.export.ExportPodcasts(c.Request.Context(), middleware.CurrentIdentity(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("podcasts_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
