package stackguard

import (
	"io"

	"github.com/MrEthical07/stackguard/internal/audit"
	"go.uber.org/zap"
)

// AuditEvent is one authentication or authorization decision.
type AuditEvent = audit.Event

// AuditSink receives audit events synchronously.
type AuditSink = audit.Sink

// NoOpSink drops audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink buffers audit events in a channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = audit.JSONWriterSink

// ZapSink logs audit events.
type ZapSink = audit.ZapSink

// KafkaSink publishes audit events to a Kafka topic.
type KafkaSink = audit.KafkaSink

// MultiSink fans events out to several sinks.
type MultiSink = audit.MultiSink

func NewChannelSink(buffer int) *ChannelSink { return audit.NewChannelSink(buffer) }

func NewJSONWriterSink(w io.Writer) *JSONWriterSink { return audit.NewJSONWriterSink(w) }

func NewZapSink(l *zap.Logger) *ZapSink { return audit.NewZapSink(l) }

func NewKafkaSink(brokers []string, topic string, l *zap.Logger) *KafkaSink {
	return audit.NewKafkaSink(brokers, topic, l)
}

// AuditDropped reports how many audit events the configured sink discarded
// because its buffer was full. Sinks without a buffer report zero.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return audit.Dropped(e.audit)
}

// audit component and action names
const (
	auditComponentSession = "session"
	auditComponentPolicy  = "policy"

	auditActionLogin        = "login"
	auditActionAuthenticate = "authenticate"
	auditActionRefresh      = "refresh"
	auditActionLogout       = "logout"
	auditActionAuthorize    = "authorize"
)
