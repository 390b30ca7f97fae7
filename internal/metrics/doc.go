// Package metrics records counters for state repairs, writes and mutations.
//
// Components receive a Recorder and default to NoopRecorder, so no call site
// needs a nil check. The CLI swaps in a PrometheusRecorder when a textfile
// path is configured and flushes it with WriteTextfile on exit, in the
// node_exporter textfile collector format.
package metrics
