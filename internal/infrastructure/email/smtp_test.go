package email

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/smtp"
	"testing"

	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	addr string
	from string
	to   []string
	msg  []byte
	auth smtp.Auth
}

func newTestSender(cfg SMTPConfig, err error) (*SMTPSender, *captured) {
	c := &captured{}
	s := NewSMTPSender(cfg, zerolog.Nop())
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		c.addr, c.auth, c.from, c.to, c.msg = addr, a, from, to, msg
		return err
	}
	return s, c
}

func TestSMTPSenderComposesMessage(t *testing.T) {
	s, c := newTestSender(SMTPConfig{Host: "smtp.acme.com", Port: 587, Username: "u", Password: "p", From: "noreply@qonnect.io", FromName: "Qonnect"}, nil)

	err := s.Send(context.Background(), "dev@acme.com", "Verify your Qonnect account", "Your code is 123456")
	require.NoError(t, err)

	assert.Equal(t, "smtp.acme.com:587", c.addr)
	assert.Equal(t, "noreply@qonnect.io", c.from)
	assert.Equal(t, []string{"dev@acme.com"}, c.to)
	assert.NotNil(t, c.auth)

	r, err := mail.CreateReader(bytes.NewReader(c.msg))
	require.NoError(t, err)
	subject, err := r.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Verify your Qonnect account", subject)
	from, err := r.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "Qonnect", from[0].Name)
	id, err := r.Header.MessageID()
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	part, err := r.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	assert.Equal(t, "Your code is 123456", string(body))
}

func TestSMTPSenderWithoutAuth(t *testing.T) {
	s, c := newTestSender(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@qonnect.io"}, nil)
	require.NoError(t, s.Send(context.Background(), "dev@acme.com", "s", "b"))
	assert.Nil(t, c.auth)
}

func TestSMTPSenderErrors(t *testing.T) {
	s, _ := newTestSender(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@qonnect.io"}, errors.New("connection refused"))
	err := s.Send(context.Background(), "dev@acme.com", "s", "b")
	require.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Send(ctx, "dev@acme.com", "s", "b"), context.Canceled)
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(zerolog.New(&buf))
	require.NoError(t, s.Send(context.Background(), "dev@acme.com", "Reset your Qonnect password", "code 654321"))
	assert.Contains(t, buf.String(), "654321")
}
