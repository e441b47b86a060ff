package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/application/ports/portstest"
)

func newTestWorker(mailer ports.EmailSender, emitter ports.AuditEmitter) *Worker {
	return &Worker{mailer: mailer, emitter: emitter, log: zerolog.Nop()}
}

func TestSendEmailTaskRoundTrip(t *testing.T) {
	mailer := &portstest.Mailer{}
	w := newTestWorker(mailer, &portstest.Audit{})

	task, err := NewSendEmailTask("dev@acme.com", "Verify your Qonnect account", "code 123456")
	require.NoError(t, err)
	assert.Equal(t, TypeSendEmail, task.Type())

	require.NoError(t, w.handleSendEmail(context.Background(), task))
	require.Len(t, mailer.Sent, 1)
	assert.Equal(t, "dev@acme.com", mailer.Last().To)
	assert.Equal(t, "code 123456", mailer.Last().Body)
}

func TestSendEmailFailureIsRetried(t *testing.T) {
	mailer := &portstest.Mailer{Err: errors.New("relay down")}
	w := newTestWorker(mailer, &portstest.Audit{})
	task, err := NewSendEmailTask("dev@acme.com", "s", "b")
	require.NoError(t, err)

	err = w.handleSendEmail(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestMalformedPayloadSkipsRetry(t *testing.T) {
	w := newTestWorker(&portstest.Mailer{}, &portstest.Audit{})
	err := w.handleSendEmail(context.Background(), asynq.NewTask(TypeSendEmail, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	err = w.handleWebhook(context.Background(), asynq.NewTask(TypeWebhook, []byte("nope")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestWebhookTaskRoundTrip(t *testing.T) {
	audit := &portstest.Audit{}
	w := newTestWorker(&portstest.Mailer{}, audit)
	task, err := NewWebhookTask(ports.AuditEvent{Event: "bug.reported", ResourceID: "b-1", Success: true})
	require.NoError(t, err)

	require.NoError(t, w.handleWebhook(context.Background(), task))
	assert.Equal(t, []string{"bug.reported"}, audit.Names())
	assert.Equal(t, "b-1", audit.Events[0].ResourceID)
}
