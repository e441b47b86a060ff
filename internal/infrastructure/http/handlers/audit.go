package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
)

// Auditor writes security-relevant events to the log and forwards them to the emitter.
type Auditor struct {
	log     zerolog.Logger
	emitter ports.AuditEmitter
}

func NewAuditor(log zerolog.Logger, emitter ports.AuditEmitter) *Auditor {
	return &Auditor{log: log, emitter: emitter}
}

// Record logs one event. actor may be nil for unauthenticated flows.
func (a *Auditor) Record(r *http.Request, event string, actor *domain.User, resourceID string, err error) {
	if a == nil {
		return
	}
	ev := ports.AuditEvent{
		Event:      event,
		ResourceID: resourceID,
		IP:         r.RemoteAddr,
		Success:    err == nil,
	}
	if actor != nil {
		ev.ActorID = actor.ID.String()
		if actor.HasOrganization() {
			ev.OrganizationID = actor.OrganizationID.String()
		}
	}
	if err != nil {
		ev.Err = err.Error()
	}

	le := a.log.Info()
	if !ev.Success {
		le = a.log.Warn()
	}
	le.Str("event", ev.Event).
		Str("organization_id", ev.OrganizationID).
		Str("actor_id", ev.ActorID).
		Str("resource_id", ev.ResourceID).
		Str("ip", ev.IP).
		Str("request_id", middleware.GetReqID(r.Context())).
		Bool("success", ev.Success).
		Str("error", ev.Err).
		Msg("audit")

	if a.emitter == nil {
		return
	}
	// The request context may be cancelled once the response is written.
	if emitErr := a.emitter.Emit(context.WithoutCancel(r.Context()), ev); emitErr != nil {
		a.log.Warn().Err(emitErr).Str("event", event).Msg("audit emit failed")
	}
}
