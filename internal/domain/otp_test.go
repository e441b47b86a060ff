package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

func TestOtpConsume(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("fresh code is consumed once", func(t *testing.T) {
		o := &Otp{Code: "123456", ExpiresAt: now.Add(time.Minute)}
		require.NoError(t, o.Consume(now))
		assert.True(t, o.Used)
		assert.ErrorIs(t, o.Consume(now), domerrors.ErrOtpUsed)
	})

	t.Run("expiry boundary is exclusive", func(t *testing.T) {
		o := &Otp{Code: "123456", ExpiresAt: now}
		err := o.Consume(now)
		assert.ErrorIs(t, err, domerrors.ErrOtpExpired)
		assert.False(t, o.Used)
	})

	t.Run("used wins over expired", func(t *testing.T) {
		o := &Otp{Code: "123456", Used: true, ExpiresAt: now.Add(-time.Hour)}
		err := o.Consume(now)
		assert.True(t, errors.Is(err, domerrors.ErrOtpUsed))
		assert.False(t, errors.Is(err, domerrors.ErrOtpExpired))
	})
}

func TestParseOtpType(t *testing.T) {
	typ, err := ParseOtpType("reset_password")
	require.NoError(t, err)
	assert.Equal(t, OtpResetPassword, typ)

	_, err = ParseOtpType("sms")
	assert.ErrorIs(t, err, domerrors.ErrInvalidInput)
}
