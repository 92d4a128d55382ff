package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"podcasthub-backend/internal/infrastructure/email"
)

// ============================================
// Contact Email Handler
// ============================================

type ContactEmailHandler struct {
	emailService email.EmailService
}

func NewContactEmailHandler(emailService email.EmailService) *ContactEmailHandler {
	return &ContactEmailHandler{
		emailService: emailService,
	}
}

func (h *ContactEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.ContactMessage
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ContactEmail payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("from", payload.Email).
		Msg("Processing contact email")

	if err := h.emailService.SendContactMessage(ctx, payload); err != nil {
		log.Error().Err(err).Msg("Failed to send contact email")
		return fmt.Errorf("send contact email: %w", err)
	}

	log.Info().
		Str("from", payload.Email).
		Msg("Contact email sent successfully")

	return nil
}
