package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"podcasthub-backend/internal/domains/contact/model"
	"podcasthub-backend/internal/infrastructure/email"
	"podcasthub-backend/internal/shared"
)

// TaskEnqueuer is implemented by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type ContactService interface {
	// Submit validates the message and queues it for delivery to the team inbox.
	Submit(ctx context.Context, req model.ContactRequest) error
}

type contactService struct {
	enqueuer TaskEnqueuer
	maxRetry int
}

func NewContactService(enqueuer TaskEnqueuer, maxRetry int) ContactService {
	return &contactService{enqueuer: enqueuer, maxRetry: maxRetry}
}

// ValidationError carries the ozzo field errors back to the handler.
type ValidationError struct{ Err error }

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func (s *contactService) Submit(ctx context.Context, req model.ContactRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if err := req.Validate(); err != nil {
		return &ValidationError{Err: err}
	}

	payload, err := json.Marshal(email.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return fmt.Errorf("marshal contact payload: %w", err)
	}

	info, err := s.enqueuer.EnqueueContext(ctx,
		asynq.NewTask(shared.TypeSendContactEmail, payload),
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(s.maxRetry),
	)
	if err != nil {
		return fmt.Errorf("enqueue contact email: %w", err)
	}

	log.Info().Str("task_id", info.ID).Msg("contact email queued")
	return nil
}
