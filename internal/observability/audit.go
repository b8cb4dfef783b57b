package observability

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// AuditInput names the who/what/outcome of a security-relevant event.
type AuditInput struct {
	EventName  string
	BrandID    string
	TargetType string
	TargetID   string
	Action     string
	Outcome    string
	Reason     string
}

// EmitAudit writes a structured audit record with a unique event id and
// the request id, plus any extra key/value pairs.
func EmitAudit(r *http.Request, in AuditInput, extra ...any) {
	attrs := []any{
		"audit", true,
		"event_id", uuid.NewString(),
		"event_name", in.EventName,
		"request_id", chimiddleware.GetReqID(r.Context()),
		"brand_id", in.BrandID,
		"target_type", in.TargetType,
		"target_id", in.TargetID,
		"action", in.Action,
		"outcome", in.Outcome,
		"reason", in.Reason,
	}
	attrs = append(attrs, extra...)
	slog.InfoContext(r.Context(), "audit_event", attrs...)
}
