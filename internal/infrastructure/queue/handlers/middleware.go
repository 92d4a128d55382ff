package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Logging logs the outcome and latency of every processed task.
func Logging(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		start := time.Now()
		taskID, _ := asynq.GetTaskID(ctx)
		retry, _ := asynq.GetRetryCount(ctx)

		err := next.ProcessTask(ctx, t)

		evt := log.Debug()
		if err != nil {
			evt = log.Warn().Err(err)
		}
		evt.
			Str("task_type", t.Type()).
			Str("task_id", taskID).
			Int("retry", retry).
			Dur("duration", time.Since(start)).
			Msg("[Asynq] task processed")

		return err
	})
}

// ErrorHandler reports tasks that exhausted their retries or were marked
// SkipRetry; transient failures are already logged by Logging.
func ErrorHandler() asynq.ErrorHandler {
	return asynq.ErrorHandlerFunc(func(ctx context.Context, t *asynq.Task, err error) {
		retry, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		if retry < maxRetry && !errors.Is(err, asynq.SkipRetry) {
			return
		}

		log.Error().
			Err(err).
			Str("task_type", t.Type()).
			Bytes("payload", t.Payload()).
			Int("retry", retry).
			Msg("[Asynq] ❌ Task failed permanently")
	})
}
