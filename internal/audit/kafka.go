package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// DefaultKafkaWriteTimeout bounds one synchronous publish.
const DefaultKafkaWriteTimeout = 500 * time.Millisecond

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes each event as a JSON message keyed by subject id, so
// one subject's events stay ordered within a partition. Publish failures are
// logged and dropped; auditing never fails the request.
type KafkaSink struct {
	w       messageWriter
	topic   string
	timeout time.Duration
	log     *zap.Logger
}

// NewKafkaSink creates a [KafkaSink] writing to topic on brokers.
func NewKafkaSink(brokers []string, topic string, l *zap.Logger) *KafkaSink {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           5 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newKafkaSink(w, topic, l)
}

func newKafkaSink(w messageWriter, topic string, l *zap.Logger) *KafkaSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &KafkaSink{
		w:       w,
		topic:   topic,
		timeout: DefaultKafkaWriteTimeout,
		log:     l.With(zap.String("component", "audit.kafka"), zap.String("topic", topic)),
	}
}

func (s *KafkaSink) Emit(ctx context.Context, event Event) {
	value, err := json.Marshal(event)
	if err != nil {
		s.log.Error("audit marshal failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.SubjectID),
		Value: value,
		Time:  event.Timestamp,
	}
	if err := s.w.WriteMessages(ctx, msg); err != nil {
		s.log.Warn("audit publish failed",
			zap.String("action", event.Action),
			zap.Error(err),
		)
	}
}

func (s *KafkaSink) Close() error { return s.w.Close() }
