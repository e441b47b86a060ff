package webhook

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
)

// NoopEmitter discards audit events when no webhook URL is configured.
type NoopEmitter struct{}

func NewNoopEmitter() *NoopEmitter {
	return &NoopEmitter{}
}

func (NoopEmitter) Emit(context.Context, ports.AuditEvent) error {
	return nil
}

var _ ports.AuditEmitter = NoopEmitter{}
