package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sampleEvent(success bool) Event {
	e := Event{
		Timestamp: time.Unix(1_700_000_000, 0).UTC(),
		Component: "session",
		Action:    "login",
		Success:   success,
		SubjectID: "u-1",
		IP:        "10.0.0.1",
	}
	if !success {
		e.Error = "invalid credentials"
	}
	return e
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), sampleEvent(true))
	sink.Emit(context.Background(), sampleEvent(false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var got Event
	if err := json.Unmarshal([]byte(lines[1]), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Success || got.Error != "invalid credentials" || got.SubjectID != "u-1" {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	sink := NewChannelSink(1)
	sink.Emit(context.Background(), sampleEvent(true))

	done := make(chan struct{})
	go func() {
		sink.Emit(context.Background(), sampleEvent(false))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a full buffer")
	}

	if got := sink.Dropped(); got != 1 {
		t.Fatalf("expected 1 dropped event, got %d", got)
	}
	if got := <-sink.Events(); !got.Success {
		t.Fatalf("unexpected first event %+v", got)
	}
}

func TestChannelSinkDropsOnCancelledContext(t *testing.T) {
	sink := NewChannelSink(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink.Emit(ctx, sampleEvent(false))

	select {
	case e := <-sink.Events():
		t.Fatalf("cancelled emit must drop, got %+v", e)
	default:
	}
	if sink.Dropped() != 1 {
		t.Fatalf("expected drop to be counted, got %d", sink.Dropped())
	}
}

func TestDroppedSumsMultiSink(t *testing.T) {
	a, b := NewChannelSink(1), NewChannelSink(1)
	m := MultiSink{a, NewJSONWriterSink(&bytes.Buffer{}), nil, b}
	m.Emit(context.Background(), sampleEvent(true))
	m.Emit(context.Background(), sampleEvent(true))
	m.Emit(context.Background(), sampleEvent(true))

	if got := Dropped(m); got != 4 {
		t.Fatalf("expected 4 drops across sinks, got %d", got)
	}
	if Dropped(nil) != 0 {
		t.Fatal("nil sink has no drops")
	}
}

func TestZapSinkLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewZapSink(zap.New(core))

	sink.Emit(context.Background(), sampleEvent(true))
	sink.Emit(context.Background(), sampleEvent(false))

	if logs.FilterLevelExact(zap.InfoLevel).Len() != 1 || logs.FilterLevelExact(zap.WarnLevel).Len() != 1 {
		t.Fatalf("unexpected log levels: %v", logs.All())
	}
	if logs.FilterField(zap.String("error", "invalid credentials")).Len() != 1 {
		t.Fatal("expected error field on failed decision")
	}
}

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaSinkPublishesKeyedJSON(t *testing.T) {
	w := &recordingWriter{}
	sink := newKafkaSink(w, "auth.audit", nil)

	sink.Emit(context.Background(), sampleEvent(true))

	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "u-1" {
		t.Fatalf("unexpected key %q", w.msgs[0].Key)
	}
	var got Event
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Action != "login" || !got.Success {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestKafkaSinkSwallowsPublishError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	w := &recordingWriter{err: errors.New("broker down")}
	sink := newKafkaSink(w, "auth.audit", zap.New(core))

	sink.Emit(context.Background(), sampleEvent(false))

	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	a, b := NewChannelSink(1), NewChannelSink(1)
	MultiSink{a, nil, b}.Emit(context.Background(), sampleEvent(true))

	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Fatal("expected event on every sink")
	}
}
