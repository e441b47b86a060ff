// Package email delivers rendered messages.
package email

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
)

// SMTPConfig addresses the relay. Username empty means no AUTH.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender implements ports.EmailSender against an SMTP relay.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from *mail.Address
	send sendFunc
	now  func() time.Time
	log  zerolog.Logger
}

func NewSMTPSender(cfg SMTPConfig, log zerolog.Logger) *SMTPSender {
	s := &SMTPSender{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from: &mail.Address{Name: cfg.FromName, Address: cfg.From},
		send: smtp.SendMail,
		now:  time.Now,
		log:  log,
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return s
}

// Send ignores ctx cancellation once the SMTP dialogue has started.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := compose(s.from, to, subject, body, s.now())
	if err != nil {
		return fmt.Errorf("compose email: %w", err)
	}
	if err := s.send(s.addr, s.auth, s.from.Address, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	s.log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

// LogSender writes messages to the log instead of delivering them. Useful in development.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Info().Str("to", to).Str("subject", subject).Str("body", body).Msg("email (log only; configure SMTP for real email)")
	return nil
}

var (
	_ ports.EmailSender = (*SMTPSender)(nil)
	_ ports.EmailSender = (*LogSender)(nil)
)
