// Package queue moves email delivery and audit webhooks off the request path.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
)

const (
	TypeSendEmail = "email:send"
	TypeWebhook   = "webhook:emit"

	defaultMaxRetry = 5
)

type emailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask builds the task the worker turns into one EmailSender.Send call.
func NewSendEmailTask(to, subject, body string) (*asynq.Task, error) {
	payload, err := json.Marshal(emailPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendEmail, payload, asynq.MaxRetry(defaultMaxRetry), asynq.Timeout(30*time.Second)), nil
}

// NewWebhookTask builds the task the worker turns into one AuditEmitter.Emit call.
func NewWebhookTask(event ports.AuditEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWebhook, payload, asynq.MaxRetry(defaultMaxRetry)), nil
}

// TaskEnqueuer satisfies ports.EmailSender and ports.AuditEmitter by enqueueing.
// A nil error means the task was accepted, not that it was delivered.
type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisConnOpt, log zerolog.Logger) *TaskEnqueuer {
	return &TaskEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) Send(ctx context.Context, to, subject, body string) error {
	task, err := NewSendEmailTask(to, subject, body)
	if err != nil {
		return fmt.Errorf("build email task: %w", err)
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("to", to).Msg("enqueue email failed")
		return err
	}
	return nil
}

func (q *TaskEnqueuer) Emit(ctx context.Context, event ports.AuditEvent) error {
	task, err := NewWebhookTask(event)
	if err != nil {
		return fmt.Errorf("build webhook task: %w", err)
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn().Err(err).Str("event", event.Event).Msg("enqueue webhook failed")
		return err
	}
	return nil
}

var (
	_ ports.EmailSender  = (*TaskEnqueuer)(nil)
	_ ports.AuditEmitter = (*TaskEnqueuer)(nil)
)
