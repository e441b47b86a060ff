package otp

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// CodeGenerator returns a fresh 6 digit code.
type CodeGenerator func() (string, error)

var codeOpts = hotp.ValidateOpts{
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// RandomCode derives a six digit HOTP value from a throwaway secret and counter.
func RandomCode() (string, error) {
	raw := make([]byte, 28)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	secret := base32.StdEncoding.EncodeToString(raw[:20])
	counter := binary.BigEndian.Uint64(raw[20:])
	return hotp.GenerateCodeCustom(secret, counter, codeOpts)
}
