package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// LoadRSAPrivateKeyFromPEM decodes a PKCS#1 or PKCS#8 PEM block.
func LoadRSAPrivateKeyFromPEM(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("PEM is not an RSA private key")
	}
	return key, nil
}

// LoadSigningKey reads the key at path. An empty path yields an ephemeral key,
// which invalidates every issued token on restart.
func LoadSigningKey(path string) (key *rsa.PrivateKey, ephemeral bool, err error) {
	if path == "" {
		key, err = rsa.GenerateKey(rand.Reader, 2048)
		return key, true, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read signing key: %w", err)
	}
	key, err = LoadRSAPrivateKeyFromPEM(raw)
	return key, false, err
}
