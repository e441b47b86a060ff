// Package otp issues and consumes the one-time codes used for account
// verification and password resets. Callers own the unit of work.
package otp

import (
	"context"
	"time"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

const (
	DefaultVerificationExpiry  = 10 * time.Minute
	DefaultResetPasswordExpiry = 5 * time.Minute
)

// Config holds the lifetime of a code per type.
type Config struct {
	Expiry map[domain.OtpType]time.Duration
}

// DefaultConfig returns the stock expiry durations.
func DefaultConfig() Config {
	return Config{Expiry: map[domain.OtpType]time.Duration{
		domain.OtpVerification:  DefaultVerificationExpiry,
		domain.OtpResetPassword: DefaultResetPasswordExpiry,
	}}
}

// ExpiryFor returns the configured lifetime for typ, falling back to the defaults.
func (c Config) ExpiryFor(typ domain.OtpType) time.Duration {
	if d, ok := c.Expiry[typ]; ok && d > 0 {
		return d
	}
	return DefaultConfig().Expiry[typ]
}

// Service creates, resends and validates codes.
type Service struct {
	otps     ports.OtpRepository
	mailer   ports.EmailSender
	cfg      Config
	generate CodeGenerator
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCodeGenerator replaces RandomCode.
func WithCodeGenerator(g CodeGenerator) Option {
	return func(s *Service) { s.generate = g }
}

// NewService builds the service.
func NewService(otps ports.OtpRepository, mailer ports.EmailSender, cfg Config, opts ...Option) *Service {
	s := &Service{
		otps:     otps,
		mailer:   mailer,
		cfg:      cfg,
		generate: RandomCode,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create stores a new code for email and mails it, addressed to name.
func (s *Service) Create(ctx context.Context, name, email string, typ domain.OtpType) (*domain.Otp, error) {
	if err := validation.Email(email); err != nil {
		return nil, err
	}
	typ, err := domain.ParseOtpType(string(typ))
	if err != nil {
		return nil, err
	}
	code, err := s.generate()
	if err != nil {
		return nil, err
	}
	now := s.now()
	expiry := s.cfg.ExpiryFor(typ)
	otp := &domain.Otp{
		Code:      code,
		Email:     validation.NormalizeEmail(email),
		Type:      typ,
		CreatedAt: now,
		ExpiresAt: now.Add(expiry),
	}
	if err := s.otps.Save(ctx, otp); err != nil {
		return nil, err
	}
	subject, body, err := render(typ, messageData{Name: name, Code: code, Minutes: int(expiry / time.Minute)})
	if err != nil {
		return nil, err
	}
	if err := s.mailer.Send(ctx, otp.Email, subject, body); err != nil {
		return nil, err
	}
	return otp, nil
}

// Resend issues a brand new code. Earlier codes stay valid until they expire.
func (s *Service) Resend(ctx context.Context, name, email string, typ domain.OtpType) (*domain.Otp, error) {
	return s.Create(ctx, name, email, typ)
}

// Validate consumes the code issued to email. A used code reports
// OTP_ALREADY_USED even when it has also expired.
func (s *Service) Validate(ctx context.Context, email, code string) (*domain.Otp, error) {
	if err := validation.NotBlankAll(validation.F("email", email), validation.F("otp", code)); err != nil {
		return nil, err
	}
	otp, err := s.otps.FindByEmailAndCode(ctx, validation.NormalizeEmail(email), code)
	if err != nil {
		return nil, err
	}
	if otp == nil {
		return nil, domerrors.ErrOtpNotFound
	}
	if err := otp.Consume(s.now()); err != nil {
		return nil, err
	}
	if err := s.otps.Save(ctx, otp); err != nil {
		return nil, err
	}
	return otp, nil
}
