package main

import (
	"github.com/hibiken/asynq"

	podcastJob "podcasthub-backend/internal/domains/podcast/job"
	"podcasthub-backend/internal/infrastructure/email"
	emailJob "podcasthub-backend/internal/infrastructure/email/job"
	"podcasthub-backend/internal/shared"
	"podcasthub-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	deleteTempObject *podcastJob.DeleteTempObjectHandler
	sweepTempObjects *podcastJob.SweepTempObjectsHandler
	contactEmail     *emailJob.ContactEmailHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container, cfg *Config) *HandlerRegistry {
	return &HandlerRegistry{
		deleteTempObject: podcastJob.NewDeleteTempObjectHandler(c.Storage, c.PodcastRepo),
		sweepTempObjects: podcastJob.NewSweepTempObjectsHandler(
			c.Storage,
			c.PodcastRepo,
			cfg.Job.TempObjectRetention,
		),
		contactEmail: emailJob.NewContactEmailHandler(email.NewSMTPEmailService(email.SMTPConfig{
			Host:  cfg.Email.SMTPHost,
			Port:  cfg.Email.SMTPPort,
			From:  cfg.Email.From,
			Inbox: cfg.Email.ContactInbox,
		})),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Storage cleanup
	mux.HandleFunc(shared.TypeDeleteTempObject, h.deleteTempObject.ProcessTask)
	mux.HandleFunc(shared.TypeSweepTempObjects, h.sweepTempObjects.ProcessTask)

	// Email
	mux.HandleFunc(shared.TypeSendContactEmail, h.contactEmail.ProcessTask)
}
