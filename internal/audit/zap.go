package audit

import (
	"context"

	"go.uber.org/zap"
)

// ZapSink logs each event as a structured entry. Failed decisions are
// logged at warn level.
type ZapSink struct {
	log *zap.Logger
}

func NewZapSink(l *zap.Logger) *ZapSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapSink{log: l.With(zap.String("channel", "audit"))}
}

func (s *ZapSink) Emit(_ context.Context, event Event) {
	fields := []zap.Field{
		zap.String("component", event.Component),
		zap.String("action", event.Action),
		zap.Bool("success", event.Success),
		zap.String("subject_id", event.SubjectID),
		zap.String("ip", event.IP),
		zap.Time("at", event.Timestamp),
	}
	if event.Error != "" {
		fields = append(fields, zap.String("error", event.Error))
	}

	if event.Success {
		s.log.Info("auth decision", fields...)
		return
	}
	s.log.Warn("auth decision", fields...)
}
