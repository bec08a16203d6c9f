// Package prometheus exposes stackguard engine metrics as a
// prometheus.Collector.
//
// Register [NewCollector] with any registry, or mount [Handler] to serve a
// private registry that also carries the Go runtime and process collectors.
// The latency histogram is reported with a zero sum because the engine keeps
// bucket counts only.
package prometheus
