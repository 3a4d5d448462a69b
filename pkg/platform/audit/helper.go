package audit

import (
	"context"
	"log/slog"

	request "pscfiling/pkg/platform/middleware/request"
)

// Emitter accepts events for publication. publisher.Publisher satisfies it.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Subject identifies the filing an audit event is about.
type Subject struct {
	FilingID      string
	TransactionID string
	PscType       string
	Etag          string
}

func (s Subject) attr() slog.Attr {
	attrs := []any{slog.String("id", s.FilingID), slog.String("transaction_id", s.TransactionID)}
	if s.PscType != "" {
		attrs = append(attrs, slog.String("psc_type", s.PscType))
	}
	if s.Etag != "" {
		attrs = append(attrs, slog.String("etag", s.Etag))
	}
	return slog.Group("filing", attrs...)
}

// Logger writes every audit event to the text log and hands published events
// to the emitter. Either collaborator may be nil.
type Logger struct {
	text    *slog.Logger
	emitter Emitter
}

func NewLogger(text *slog.Logger, emitter Emitter) *Logger {
	return &Logger{text: text, emitter: emitter}
}

// Log records event for subject. extra key/value pairs only reach the text log.
func (l *Logger) Log(ctx context.Context, event AuditEvent, subject Subject, extra ...any) {
	requestID := request.GetRequestID(ctx)

	if l.text != nil {
		args := append([]any{subject.attr(), "log_type", "audit", "request_id", requestID}, extra...)
		l.text.InfoContext(ctx, string(event), args...)
	}
	if !event.Published() || l.emitter == nil {
		return
	}

	err := l.emitter.Emit(ctx, Event{
		Action:        string(event),
		FilingID:      subject.FilingID,
		TransactionID: subject.TransactionID,
		PscType:       subject.PscType,
		Etag:          subject.Etag,
		RequestID:     requestID,
	})
	if err != nil && l.text != nil {
		l.text.ErrorContext(ctx, "failed to emit audit event", "error", err, "event", string(event))
	}
}
