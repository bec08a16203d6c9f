// Package audit delivers authentication decision events to observability
// sinks.
//
// # Components
//
//   - [Event] is one decision: component, action, outcome, subject, IP.
//   - [Sink] is the consumer interface. Shipped sinks: no-op, channel,
//     JSON lines, zap, Kafka, and [MultiSink] for fan-out.
//
// Delivery is synchronous on the caller's goroutine; nothing here starts
// background work.
//
// # What this package must NOT do
//
//   - Decide which events to emit (the Engine does).
//   - Import stackguard or any sibling internal package.
package audit
