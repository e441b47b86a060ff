// Package webhook forwards audit events to an external HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
)

// SignatureHeader carries the hex HMAC-SHA256 of the body when a secret is configured.
const SignatureHeader = "X-Qonnect-Signature"

// HTTPEmitter POSTs each AuditEvent as JSON.
type HTTPEmitter struct {
	client *http.Client
	url    string
	secret []byte
}

// HTTPEmitterOption configures HTTPEmitter.
type HTTPEmitterOption func(*HTTPEmitter)

// WithClient sets the HTTP client (default: 10s timeout).
func WithClient(c *http.Client) HTTPEmitterOption {
	return func(e *HTTPEmitter) { e.client = c }
}

// WithSecret signs every body so the receiver can authenticate it.
func WithSecret(secret string) HTTPEmitterOption {
	return func(e *HTTPEmitter) { e.secret = []byte(secret) }
}

func NewHTTPEmitter(url string, opts ...HTTPEmitterOption) *HTTPEmitter {
	e := &HTTPEmitter{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type eventBody struct {
	Event          string    `json:"event"`
	OrganizationID string    `json:"organization_id,omitempty"`
	ActorID        string    `json:"actor_id,omitempty"`
	ResourceID     string    `json:"resource_id,omitempty"`
	IP             string    `json:"ip,omitempty"`
	Success        bool      `json:"success"`
	Error          string    `json:"error,omitempty"`
	SentAt         time.Time `json:"sent_at"`
}

func (e *HTTPEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	body, err := json.Marshal(eventBody{
		Event:          event.Event,
		OrganizationID: event.OrganizationID,
		ActorID:        event.ActorID,
		ResourceID:     event.ResourceID,
		IP:             event.IP,
		Success:        event.Success,
		Error:          event.Err,
		SentAt:         time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if len(e.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(e.secret, body))
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode}
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// StatusError reports a non-2xx answer from the endpoint.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook endpoint returned status %d", e.Status)
}

var _ ports.AuditEmitter = (*HTTPEmitter)(nil)
