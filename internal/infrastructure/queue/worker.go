package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
)

// Worker runs the Asynq handlers that perform the actual delivery.
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	mailer  ports.EmailSender
	emitter ports.AuditEmitter
	log     zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run to start.
func NewWorker(redisOpt asynq.RedisConnOpt, concurrency int, mailer ports.EmailSender, emitter ports.AuditEmitter, log zerolog.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 2
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		LogLevel:    asynq.WarnLevel,
	})
	w := &Worker{srv: srv, mux: asynq.NewServeMux(), mailer: mailer, emitter: emitter, log: log}
	w.mux.HandleFunc(TypeSendEmail, w.handleSendEmail)
	w.mux.HandleFunc(TypeWebhook, w.handleWebhook)
	return w
}

func (w *Worker) handleSendEmail(ctx context.Context, t *asynq.Task) error {
	var p emailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("email task payload invalid")
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if err := w.mailer.Send(ctx, p.To, p.Subject, p.Body); err != nil {
		w.log.Warn().Err(err).Str("to", p.To).Msg("email delivery failed; will retry")
		return err
	}
	return nil
}

func (w *Worker) handleWebhook(ctx context.Context, t *asynq.Task) error {
	var event ports.AuditEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		w.log.Error().Err(err).Msg("webhook task payload invalid")
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return w.emitter.Emit(ctx, event)
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
