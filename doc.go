// Package dflow is a collection of small utility packages built around deferred
// and rate-controlled execution.
//
// This module contains the following packages:
//
// EXECUTION CONTROL:
//
//   - taskqueue: FIFO queues of deferred calls to a single action, in a
//     synchronous variant that aborts on the first failure and an asynchronous
//     one that contains failures per call. Queues can be halted, snapshotted
//     with MessagePack, persisted to disk, fed from a NATS subject and observed
//     through Prometheus metrics
//   - timing: debounce (leading and trailing), throttle, retry with fallback,
//     context-aware pause, busy wait and a deadline race returning ErrTimeout
//
// HTTP:
//
//   - httpx: router factory on chi with CORS, Brotli compression, Prometheus
//     metrics and JWT bearer auth, cookie and file download helpers, query
//     string (de)serialization and a graceful server loop
//
// UTILITIES & HELPERS:
//
//   - durations: duration parsing and formatting with a day unit, and a
//     Duration type for JSON and MessagePack
//   - env: environment lookups with _FILE and /run/secrets fallbacks
//
// The packages are independent of each other except where noted and can be
// used on their own.
package dflow
