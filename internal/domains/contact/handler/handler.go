package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"podcasthub-backend/internal/domains/contact/model"
	"podcasthub-backend/internal/domains/contact/service"
	"podcasthub-backend/internal/shared/middleware"
	"podcasthub-backend/internal/shared/response"
)

type Handler struct {
	service service.ContactService
}

func NewHandler(s service.ContactService) *Handler {
	return &Handler{service: s}
}

// Submit handles the public contact form
// POST /api/v1/contact
func (h *Handler) Submit(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.service.Submit(c.Request.Context(), req); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, verr.Error())
			return
		}
		log.Error().Err(err).Str("request_id", c.GetString(middleware.ContextRequestID)).Msg("contact submission failed")
		response.ErrorResponse(c, http.StatusInternalServerError, model.ErrCodeQueue, "Failed to send message")
		return
	}

	response.SuccessWithMessage(c, http.StatusAccepted, "Message sent successfully", nil)
}
