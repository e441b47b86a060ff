package ports

import "context"

// AuditEvent is a single audit event for logging or webhooks.
type AuditEvent struct {
	Event          string // bug.reported, bug.assigned, organization.registered, ...
	OrganizationID string
	ActorID        string
	ResourceID     string
	IP             string
	Success        bool
	Err            string
}

// AuditEmitter sends audit events to an external endpoint.
type AuditEmitter interface {
	Emit(ctx context.Context, event AuditEvent) error
}
